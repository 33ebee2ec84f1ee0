package record

import (
	"context"
	"iter"
	"sync"
)

// MemorySource is an in-memory Source. Stores are reported in the order they
// were first added.
type MemorySource struct {
	order   []string
	records map[string][]Record
}

// NewMemorySource returns an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{records: make(map[string][]Record)}
}

// AddStore registers an empty store so it is listed even without records.
func (s *MemorySource) AddStore(store string) *MemorySource {
	if _, ok := s.records[store]; !ok {
		s.order = append(s.order, store)
		s.records[store] = nil
	}
	return s
}

// Add appends a record to store, creating the store if needed.
func (s *MemorySource) Add(store, key string, value Value) *MemorySource {
	s.AddStore(store)
	s.records[store] = append(s.records[store], Record{Key: key, Value: value})
	return s
}

// Len returns the number of records held in store.
func (s *MemorySource) Len(store string) int {
	return len(s.records[store])
}

// Stores implements Source.
func (s *MemorySource) Stores(ctx context.Context) ([]string, error) {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names, nil
}

// Records implements Source.
func (s *MemorySource) Records(ctx context.Context, store string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for _, rec := range s.records[store] {
			if err := ctx.Err(); err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// MemorySink collects written entries in memory. It is safe for concurrent
// use.
type MemorySink struct {
	mu      sync.Mutex
	order   []string
	entries map[string][]Entry
	closed  bool
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{entries: make(map[string][]Entry)}
}

// WriteBatch implements Sink.
func (s *MemorySink) WriteBatch(ctx context.Context, store string, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[store]; !ok {
		s.order = append(s.order, store)
	}
	s.entries[store] = append(s.entries[store], entries...)
	return nil
}

// Close implements Sink.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *MemorySink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Source decodes everything written so far into a MemorySource, so a sink can
// be read back by the reconstruction engine.
func (s *MemorySink) Source() (*MemorySource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := NewMemorySource()
	for _, store := range s.order {
		src.AddStore(store)
		for _, entry := range s.entries[store] {
			rec, err := Decode(entry)
			if err != nil {
				return nil, err
			}
			src.Add(store, rec.Key, rec.Value)
		}
	}
	return src, nil
}
