package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores preferences in a SQLite database.
type SQLiteBackend struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Applied to every pooled connection by the driver.
const sqliteParams = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// OpenSQLite creates or opens the preference database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating preference directory: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+sqliteParams)
	if err != nil {
		return nil, fmt.Errorf("opening preference database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging preference database: %w", err)
	}
	return newSQLite(db)
}

// OpenSQLiteMemory opens an in-memory database.
func OpenSQLiteMemory() (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory preference database: %w", err)
	}
	// every pooled connection would otherwise see its own empty database
	db.SetMaxOpenConns(1)
	return newSQLite(db)
}

func newSQLite(db *sql.DB) (*SQLiteBackend, error) {
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
    visitor TEXT NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (visitor, name)
);
`

// Load implements Backend.
func (s *SQLiteBackend) Load(ctx context.Context, visitor string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM preferences WHERE visitor = ?`, visitor)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

// Save implements Backend.
func (s *SQLiteBackend) Save(ctx context.Context, visitor, name, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO preferences (visitor, name, value) VALUES (?, ?, ?)
ON CONFLICT(visitor, name) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		visitor, name, value)
	if err != nil {
		return fmt.Errorf("save preference %s: %w", name, err)
	}
	return nil
}

// Close releases the database.
func (s *SQLiteBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
