package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var _ Store = (*SQLite)(nil)

// SQLite is an embedded single-file Store.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at cfg.Path.
func NewSQLite(cfg SQLiteConfig) (*SQLite, error) {
	if cfg.Path != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scalars (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS list_items (
		key TEXT NOT NULL,
		pos INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (key, pos)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM scalars WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMany implements Store.
func (s *SQLite) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO scalars (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Range implements Store.
func (s *SQLite) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM list_items WHERE key = ? ORDER BY pos`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lo, hi, ok := rangeBounds(int64(len(items)), start, stop)
	if !ok {
		return []string{}, nil
	}
	return items[lo:hi], nil
}

// Push implements Store.
func (s *SQLite) Push(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(pos) + 1, 0) FROM list_items WHERE key = ?`, key).Scan(&next)
	if err != nil {
		return err
	}
	for i, v := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO list_items (key, pos, value) VALUES (?, ?, ?)`, key, next+int64(i), v)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM scalars WHERE key = ?`, k); err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM list_items WHERE key = ?`, k); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
