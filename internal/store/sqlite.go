package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

// OpenSQLite opens (or creates) the sqlite database at path and returns a
// [SQLite] store over table name.
func OpenSQLite(ctx context.Context, path, name string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	s, err := NewSQLite(ctx, db, name)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Creates a new [SQLite] store. name may only contain upper- or lowercase
// Latin letters and underscores.
func NewSQLite(ctx context.Context, db *sql.DB, name string) (*SQLite, error) {
	if !validName(name) {
		return nil, ErrBadName
	}

	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+name+` (
	key		TEXT PRIMARY KEY,
	value	TEXT NOT NULL
);`)
	if err != nil {
		return nil, fmt.Errorf("unable to create table %s: %w", name, err)
	}
	s := &SQLite{name: name, db: db}
	return s, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+s.name+` WHERE key = ?;`,
		key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Inserts a new key-value pair or updates an existing one.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.name+` (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		key, value)
	return err
}

// Deletes key from store without checking if it existed.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.name+` WHERE key = ?;`, key)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
