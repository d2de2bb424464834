// Package sqlstore backs the credential store with a small sqlite
// database on the client device.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"webchat-client/internal/store"
)

const tokenKey = "token"

// SQLStore implements store.Credentials on sqlite.
type SQLStore struct {
	db *sqlx.DB
}

// Open connects to the sqlite file (":memory:" works for tests) and
// ensures the schema exists.
func Open(path string) (*SQLStore, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	schema := `CREATE TABLE IF NOT EXISTS credentials (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Token reads the saved session token.
func (s *SQLStore) Token() (string, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM credentials WHERE key = ?`, tokenKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return value, nil
}

// SetToken saves the session token, replacing any previous one.
func (s *SQLStore) SetToken(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO credentials (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		tokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// DeleteToken removes the saved session token.
func (s *SQLStore) DeleteToken() error {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE key = ?`, tokenKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ store.Credentials = (*SQLStore)(nil)
