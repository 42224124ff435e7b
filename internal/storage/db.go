package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB is a sqlite-backed Store. Writes are serialized with a mutex so a
// read-modify-write on one document can't interleave with another writer in
// the same process.
type DB struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the sqlite database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	store := &DB{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates tables if they don't exist.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		kind TEXT PRIMARY KEY,
		body TEXT NOT NULL
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

// Load reads the document for kind into v.
func (d *DB) Load(kind string, v any) (bool, error) {
	var body string
	err := d.db.QueryRow("SELECT body FROM documents WHERE kind = ?", kind).Scan(&body)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", kind, err)
	}

	if err := json.Unmarshal([]byte(body), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", kind, err)
	}
	return true, nil
}

// Save replaces the document for kind with v.
func (d *DB) Save(kind string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	query := `
	INSERT INTO documents (kind, body) VALUES (?, ?)
	ON CONFLICT(kind) DO UPDATE SET body = excluded.body
	`
	if _, err := d.db.Exec(query, kind, string(body)); err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}
