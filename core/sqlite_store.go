package core

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const credentialsDBFile = "credentials.db"

// SQLiteStore persists credentials in a local SQLite key/value table.
// It is the portable fallback for environments without an OS keyring.
type SQLiteStore struct {
	dbFile string
	conn   *sql.DB
}

// NewSQLiteStore opens (creating if needed) the credentials database
// under dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &SQLiteStore{dbFile: filepath.Join(dataDir, credentialsDBFile)}
	if err := s.connect(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) connect() error {
	conn, err := sql.Open("sqlite3", s.dbFile)
	if err != nil {
		return fmt.Errorf("failed to open credentials database: %w", err)
	}
	s.conn = conn

	query := `
    CREATE TABLE IF NOT EXISTS credentials (
        key   TEXT PRIMARY KEY,
        value TEXT NOT NULL
    )`
	if _, err := s.conn.Exec(query); err != nil {
		return fmt.Errorf("failed to initialize credentials table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(key, value string) error {
	query := `
    INSERT INTO credentials (key, value) VALUES (?, ?)
    ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to save credential %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Load(key string) (string, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load credential %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.conn.Exec("DELETE FROM credentials WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete credential %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
