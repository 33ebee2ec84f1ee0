// Package synthetic produces record stores with the same shapes the
// reconstruction engine reads: fully generated test data, or anonymized copies
// of real stores.
package synthetic

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/solvaholic/teamsmine/internal/record"
)

// Store names written by the generator.
const (
	ProfilesStoreName     = "Teams:profiles"
	ConversationStoreName = "Teams:conversation-manager"
	ReplyChainStoreName   = "Teams:replychain-manager"
	MetadataStoreName     = "Teams:replychain-metadata-manager"
)

// Dataset is an in-memory set of records grouped by store. Stores keep the
// order in which they were first added.
type Dataset struct {
	// Logger receives debug output from WriteTo. Nil means log.Default().
	Logger *log.Logger

	order   []string
	records map[string][]record.Record
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{records: make(map[string][]record.Record)}
}

// Add appends a record to store.
func (d *Dataset) Add(store, key string, value record.Value) {
	if _, ok := d.records[store]; !ok {
		d.order = append(d.order, store)
	}
	d.records[store] = append(d.records[store], record.Record{Key: key, Value: value})
}

// Stores returns the store names in insertion order.
func (d *Dataset) Stores() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Records returns the records held in store.
func (d *Dataset) Records(store string) []record.Record {
	return d.records[store]
}

// Len returns the total number of records.
func (d *Dataset) Len() int {
	n := 0
	for _, recs := range d.records {
		n += len(recs)
	}
	return n
}

// Load reads every record of src into a new dataset.
func Load(ctx context.Context, src record.Source) (*Dataset, error) {
	stores, err := src.Stores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	d := NewDataset()
	for _, store := range stores {
		d.order = append(d.order, store)
		d.records[store] = nil
		for rec, err := range src.Records(ctx, store) {
			if err != nil {
				return nil, fmt.Errorf("failed to read store %s: %w", store, err)
			}
			d.records[store] = append(d.records[store], rec)
		}
	}
	return d, nil
}

// Source exposes the dataset as a record source.
func (d *Dataset) Source() *record.MemorySource {
	src := record.NewMemorySource()
	for _, store := range d.order {
		src.AddStore(store)
		for _, rec := range d.records[store] {
			src.Add(store, rec.Key, rec.Value)
		}
	}
	return src
}

// Anonymized returns a copy of the dataset with every record passed through
// anon.
func (d *Dataset) Anonymized(anon *Anonymizer) *Dataset {
	out := NewDataset()
	out.Logger = d.Logger
	for _, store := range d.order {
		out.order = append(out.order, store)
		out.records[store] = make([]record.Record, 0, len(d.records[store]))
		for _, rec := range d.records[store] {
			out.records[store] = append(out.records[store], anon.Record(rec))
		}
	}
	return out
}

// WriteTo writes one batch per store to sink, anonymizing each record first
// when anon is non-nil, and then closes the sink so it writes its readiness
// marker. The sink is not closed when a write fails.
func (d *Dataset) WriteTo(ctx context.Context, sink record.Sink, anon *Anonymizer) error {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}

	for _, store := range d.order {
		recs := d.records[store]
		entries := make([]record.Entry, 0, len(recs))
		for _, rec := range recs {
			if anon != nil {
				rec = anon.Record(rec)
			}
			entry, err := record.Encode(rec)
			if err != nil {
				return fmt.Errorf("failed to encode record in %s: %w", store, err)
			}
			entries = append(entries, entry)
		}
		if err := sink.WriteBatch(ctx, store, entries); err != nil {
			return fmt.Errorf("failed to write store %s: %w", store, err)
		}
		logger.Debug("wrote store", "store", store, "records", len(entries), "anonymized", anon != nil)
	}

	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to finalize sink: %w", err)
	}
	return nil
}
