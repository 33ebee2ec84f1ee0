package record

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

// Record is one (key, value) pair read from a logical store.
type Record struct {
	Key   string
	Value Value
}

// Entry is the encoded form of a Record handed to a Sink.
type Entry struct {
	Key   []byte
	Value []byte
}

// Source yields the records of each logical store. Records come back in the
// order the underlying store holds them; callers must not rely on any other
// ordering.
type Source interface {
	// Stores lists the names of the logical stores available.
	Stores(ctx context.Context) ([]string, error)
	// Records iterates over every record in the named store. Iteration stops
	// at the first error, which is yielded with a zero Record.
	Records(ctx context.Context, store string) iter.Seq2[Record, error]
}

// Sink accepts batched writes per logical store.
type Sink interface {
	WriteBatch(ctx context.Context, store string, entries []Entry) error
	// Close flushes the sink and writes its readiness marker.
	Close() error
}

// Encode converts a record into the byte form written to a Sink: the key as
// UTF-8 and the value as compact JSON.
func Encode(rec Record) (Entry, error) {
	value := rec.Value
	if value == nil {
		value = Value{}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode record %q: %w", rec.Key, err)
	}
	return Entry{Key: []byte(rec.Key), Value: data}, nil
}

// Decode is the inverse of Encode.
func Decode(entry Entry) (Record, error) {
	rec := Record{Key: string(entry.Key)}
	if len(entry.Value) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(entry.Value, &rec.Value); err != nil {
		return Record{}, fmt.Errorf("failed to decode record %q: %w", rec.Key, err)
	}
	return rec, nil
}

// FindStore returns the first store name containing snippet. Real stores
// carry prefixes and suffixes around the conventional name
// (e.g. "Teams:conversation-manager:react-web-client"), so matching is by
// substring.
func FindStore(names []string, snippet string) (string, bool) {
	for _, name := range names {
		if strings.Contains(name, snippet) {
			return name, true
		}
	}
	return "", false
}
