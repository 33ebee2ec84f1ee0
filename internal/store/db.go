// Package store keeps record stores on disk in SQLite. A store directory
// holds records.db plus a CURRENT marker written once the store is complete.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const (
	SchemaVersion = 1

	// DatabaseFile is the SQLite file inside a store directory.
	DatabaseFile = "records.db"
	// MarkerFile signals that a store was written completely.
	MarkerFile = "CURRENT"

	markerContent = "MANIFEST-000001\n"
)

// db wraps the SQLite connection shared by Reader and Writer.
type db struct {
	conn *sql.DB
	path string
}

// openDB opens the database at dbPath. A read-only database must already
// carry the schema; a writable one gets it created when missing.
func openDB(dbPath string, readOnly bool) (*db, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000", dbPath)
	if readOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro&_timeout=5000", dbPath)
	}
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	d := &db{conn: conn, path: dbPath}
	if err := d.initSchema(readOnly); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return d, nil
}

func (d *db) close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *db) initSchema(readOnly bool) error {
	var tables int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}

	if tables == 0 {
		if readOnly {
			return fmt.Errorf("%s is not a record store", d.path)
		}
		if _, err := d.conn.Exec(schemaSQL); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
		return nil
	}

	var current int
	err = d.conn.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}
	if current < SchemaVersion {
		return fmt.Errorf("schema migration needed from version %d to %d (not implemented)", current, SchemaVersion)
	}
	return nil
}

func (d *db) storeNames(ctx context.Context) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT name FROM stores ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan store name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DefaultPath returns the default store directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./teamsmine-store"
	}
	return filepath.Join(home, ".teamsmine", "store")
}
