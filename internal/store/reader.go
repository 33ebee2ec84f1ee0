package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/solvaholic/teamsmine/internal/record"
	"github.com/solvaholic/teamsmine/internal/teams"
)

// Reader reads a private, read-only copy of a store directory, so a store
// that is still being written (and locked) by another process can be
// inspected. It implements record.Source.
type Reader struct {
	dir  string
	copy string
	db   *db
}

// Open copies dir to a temporary directory and opens the copy. Callers must
// Close the reader to remove the copy. A missing directory or database yields
// an error matching teams.ErrNotFound.
func Open(ctx context.Context, dir string) (*Reader, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, teams.NotFound(fmt.Sprintf("store not found at %s", dir), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat store: %w", err)
	}
	if !info.IsDir() {
		return nil, teams.NotFound(fmt.Sprintf("store path %s is not a directory", dir), nil)
	}
	if _, err := os.Stat(filepath.Join(dir, DatabaseFile)); errors.Is(err, os.ErrNotExist) {
		return nil, teams.NotFound(fmt.Sprintf("no %s in %s", DatabaseFile, dir), err)
	}

	tmp, err := os.MkdirTemp("", "tmine-store-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if err := copyDir(ctx, dir, tmp); err != nil {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("failed to copy store: %w", err)
	}

	d, err := openDB(filepath.Join(tmp, DatabaseFile), true)
	if err != nil {
		os.RemoveAll(tmp)
		return nil, err
	}
	return &Reader{dir: dir, copy: tmp, db: d}, nil
}

// Dir returns the original store directory.
func (r *Reader) Dir() string { return r.dir }

// Ready reports whether the original store carries the readiness marker.
func (r *Reader) Ready() bool {
	_, err := os.Stat(filepath.Join(r.dir, MarkerFile))
	return err == nil
}

// Close closes the database and removes the temporary copy.
func (r *Reader) Close() error {
	err := r.db.close()
	if rmErr := os.RemoveAll(r.copy); rmErr != nil && err == nil {
		err = fmt.Errorf("failed to remove store copy: %w", rmErr)
	}
	return err
}

// Stores implements record.Source.
func (r *Reader) Stores(ctx context.Context) ([]string, error) {
	return r.db.storeNames(ctx)
}

// Records implements record.Source. Records come back in insertion order.
func (r *Reader) Records(ctx context.Context, store string) iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		rows, err := r.db.conn.QueryContext(ctx, `
			SELECT r.key, r.value
			FROM records r
			JOIN stores s ON s.id = r.store_id
			WHERE s.name = ?
			ORDER BY r.id
		`, store)
		if err != nil {
			yield(record.Record{}, fmt.Errorf("failed to query records: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var entry record.Entry
			if err := rows.Scan(&entry.Key, &entry.Value); err != nil {
				yield(record.Record{}, fmt.Errorf("failed to scan record: %w", err))
				return
			}
			rec, err := record.Decode(entry)
			if !yield(rec, err) || err != nil {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(record.Record{}, fmt.Errorf("failed to iterate records: %w", err))
		}
	}
}

// copyDir copies the regular files under src into dst, skipping lock files.
func copyDir(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0700)
		}
		if isLockFile(d.Name()) || !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func isLockFile(name string) bool {
	return name == "LOCK" || strings.HasSuffix(name, ".lock")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
