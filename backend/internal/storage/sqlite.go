package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"jackut/backend/internal/codec"
	"jackut/backend/pkg/logger"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps every record as one row of a single SQLite table
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// single writer; the pure-Go driver serializes anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger.Named("storage.sqlite")}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (codec.Records, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, body FROM records`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	recs := codec.Records{}
	for rows.Next() {
		var name string
		var body []byte
		if err := rows.Scan(&name, &body); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs[name] = body
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, recs codec.Records) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for name, body := range recs {
		if body == nil {
			body = []byte{}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (name, body, updated_at) VALUES (?, ?, ?)`,
			name, body, now,
		); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	s.logger.Debug("Records written", zap.Int("records", len(recs)))
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
