package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/solvaholic/teamsmine/internal/record"
)

// DefaultDumpLimit caps the records kept per store in a dump.
const DefaultDumpLimit = 100

// Dump is a raw, inspectable copy of a record source.
type Dump struct {
	Metadata DumpMetadata         `json:"metadata"`
	Stores   map[string]StoreDump `json:"stores"`
}

// DumpMetadata describes where a dump came from.
type DumpMetadata struct {
	Source     string    `json:"source,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
	NumStores  int       `json:"num_stores"`
}

// StoreDump holds up to the dump limit of one store's records. NumRecords
// counts all of them.
type StoreDump struct {
	NumRecords int          `json:"num_records"`
	Records    []DumpRecord `json:"records"`
}

// DumpRecord is one record in a dump.
type DumpRecord struct {
	Key   string       `json:"key"`
	Value record.Value `json:"value"`
}

// DumpStores reads src and keeps at most limit records per store. A limit
// of zero or less keeps everything.
func DumpStores(ctx context.Context, src record.Source, source string, limit int) (*Dump, error) {
	names, err := src.Stores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	dump := &Dump{
		Metadata: DumpMetadata{
			Source:     source,
			ExportedAt: time.Now().UTC(),
			NumStores:  len(names),
		},
		Stores: make(map[string]StoreDump, len(names)),
	}

	for _, name := range names {
		sd := StoreDump{Records: []DumpRecord{}}
		for rec, err := range src.Records(ctx, name) {
			if err != nil {
				return nil, fmt.Errorf("failed to read store %s: %w", name, err)
			}
			sd.NumRecords++
			if limit <= 0 || len(sd.Records) < limit {
				sd.Records = append(sd.Records, DumpRecord{Key: rec.Key, Value: rec.Value})
			}
		}
		dump.Stores[name] = sd
	}
	return dump, nil
}

// WriteDump writes dump to path as indented JSON.
func WriteDump(path string, dump *Dump) error {
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dump: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// LoadDump reads a dump file back as a record source. Stores are listed in
// name order.
func LoadDump(path string) (*record.MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}

	var dump Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dump: %w", err)
	}

	names := make([]string, 0, len(dump.Stores))
	for name := range dump.Stores {
		names = append(names, name)
	}
	sort.Strings(names)

	src := record.NewMemorySource()
	for _, name := range names {
		src.AddStore(name)
		for _, rec := range dump.Stores[name].Records {
			src.Add(name, rec.Key, rec.Value)
		}
	}
	return src, nil
}
