package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/solvaholic/teamsmine/internal/record"
	"github.com/solvaholic/teamsmine/internal/teams"
)

// Stats describes a store on disk.
type Stats struct {
	Path         string       `json:"path"`
	Ready        bool         `json:"ready"`
	DatabaseSize int64        `json:"database_size"`
	TotalRecords int64        `json:"total_records"`
	Stores       []StoreStats `json:"stores"`
}

// StoreStats is the record count of one logical store.
type StoreStats struct {
	Name    string `json:"name"`
	Records int64  `json:"records"`
}

// Stats returns record counts per store and the database file size.
func (r *Reader) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Path: r.dir, Ready: r.Ready()}

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT s.name, COUNT(r.id)
		FROM stores s
		LEFT JOIN records r ON r.store_id = s.id
		GROUP BY s.id
		ORDER BY s.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s StoreStats
		if err := rows.Scan(&s.Name, &s.Records); err != nil {
			return nil, fmt.Errorf("failed to scan store stats: %w", err)
		}
		stats.TotalRecords += s.Records
		stats.Stores = append(stats.Stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store stats: %w", err)
	}

	if info, err := os.Stat(filepath.Join(r.dir, DatabaseFile)); err == nil {
		stats.DatabaseSize = info.Size()
	}
	return stats, nil
}

// ExpectedStore is one of the logical stores the extractor reads.
type ExpectedStore struct {
	Snippet     string `json:"snippet"`
	Description string `json:"description"`
}

// ExpectedStores lists the logical stores in the order they are reported.
var ExpectedStores = []ExpectedStore{
	{teams.ProfilesStore, "User profiles"},
	{teams.ConversationStore, "Conversations"},
	{teams.ReplyChainStore, "Messages"},
	{teams.MetadataStore, "Metadata"},
}

// StoreCheck is the validation result for one expected store.
type StoreCheck struct {
	ExpectedStore
	Found   bool   `json:"found"`
	Name    string `json:"name,omitempty"`
	Records int    `json:"records"`
}

// Validate reports which expected stores src exposes and how many records
// each holds. Reading a record that fails to decode is an error.
func Validate(ctx context.Context, src record.Source) ([]StoreCheck, error) {
	names, err := src.Stores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	checks := make([]StoreCheck, 0, len(ExpectedStores))
	for _, exp := range ExpectedStores {
		check := StoreCheck{ExpectedStore: exp}
		if name, ok := record.FindStore(names, exp.Snippet); ok {
			check.Found = true
			check.Name = name
			for _, err := range src.Records(ctx, name) {
				if err != nil {
					return nil, fmt.Errorf("failed to read store %s: %w", name, err)
				}
				check.Records++
			}
		}
		checks = append(checks, check)
	}
	return checks, nil
}
