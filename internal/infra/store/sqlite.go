package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// SQLite is the production KV backend. Documents live in a single key-value
// table; WAL mode keeps writes crash-safe. SQLite is single-writer, so the
// pool is pinned to one connection.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at dir/progress.db.
func OpenSQLite(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "progress.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close cleanly shuts down the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *SQLite) Ping() error {
	return s.db.Ping()
}

// migrate runs idempotent schema migrations.
func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Load retrieves a document by key. Missing keys report found=false.
func (s *SQLite) Load(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT value FROM documents WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save upserts a document. Last writer wins.
func (s *SQLite) Save(key string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO documents (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, data,
	)
	return err
}
