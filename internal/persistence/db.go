// Package persistence provides SQLite-based storage for save and party
// documents. The engine only sees opaque named blobs; the schema is an
// implementation detail of this package.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for document storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		body BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Read returns the document body for id, reporting ok=false on a miss.
func (db *DB) Read(id string) ([]byte, bool, error) {
	var body []byte
	err := db.conn.Get(&body, "SELECT body FROM documents WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read document %s: %w", id, err)
	}
	return body, true, nil
}

// Write upserts a document body under id.
func (db *DB) Write(id, kind string, body []byte) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO documents (id, kind, body, updated_at) VALUES (?, ?, ?, ?)",
		id, kind, body, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write document %s: %w", id, err)
	}
	return nil
}

// Exists reports whether a document with the given id is stored.
func (db *DB) Exists(id string) (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(1) FROM documents WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("check document %s: %w", id, err)
	}
	return n > 0, nil
}
