package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/solvaholic/teamsmine/internal/record"
)

// Writer creates a new store directory. It implements record.Sink.
type Writer struct {
	dir    string
	db     *db
	ids    map[string]int64
	closed bool
}

// Create initializes an empty store in dir. The directory may exist but must
// not already contain a store.
func Create(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dbPath := filepath.Join(dir, DatabaseFile)
	if _, err := os.Stat(dbPath); err == nil {
		return nil, fmt.Errorf("store already exists at %s", dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check store path: %w", err)
	}

	d, err := openDB(dbPath, false)
	if err != nil {
		return nil, err
	}
	return &Writer{dir: dir, db: d, ids: make(map[string]int64)}, nil
}

// Dir returns the store directory.
func (w *Writer) Dir() string { return w.dir }

// WriteBatch appends entries to store in one transaction.
func (w *Writer) WriteBatch(ctx context.Context, store string, entries []record.Entry) error {
	if w.closed {
		return errors.New("store writer is closed")
	}

	tx, err := w.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	storeID, err := w.storeID(ctx, tx, store)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO records (store_id, key, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		key, value := e.Key, e.Value
		if key == nil {
			key = []byte{}
		}
		if value == nil {
			value = []byte("null")
		}
		if _, err := stmt.ExecContext(ctx, storeID, key, value); err != nil {
			return fmt.Errorf("failed to insert record into %s: %w", store, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", store, err)
	}
	w.ids[store] = storeID
	return nil
}

func (w *Writer) storeID(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	if id, ok := w.ids[name]; ok {
		return id, nil
	}
	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO stores (name) VALUES (?)", name); err != nil {
		return 0, fmt.Errorf("failed to register store %s: %w", name, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM stores WHERE name = ?", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to look up store %s: %w", name, err)
	}
	return id, nil
}

// Close closes the database and writes the readiness marker.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.db.close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return writeFileAtomic(filepath.Join(w.dir, MarkerFile), []byte(markerContent))
}

// Abort closes the database without writing the marker. It is a no-op after
// Close, so it can be deferred.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.db.close()
}

// writeFileAtomic writes to a temp file first, then renames.
func writeFileAtomic(path string, data []byte) error {
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
