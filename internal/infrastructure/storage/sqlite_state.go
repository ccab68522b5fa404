package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

type sqliteStateRepository struct {
	db *sql.DB
}

// NewSQLiteStateRepository opens (or creates) the state database at dbPath.
func NewSQLiteStateRepository(dbPath string) (repository.StateRepository, error) {
	if dbPath == "" {
		return nil, errors.New("state db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; sqlite serialises them anyway
	db.SetMaxOpenConns(1)

	if err := createStateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStateRepository{db: db}, nil
}

func createStateSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS client_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create state schema: %w", err)
	}
	return nil
}

func (s *sqliteStateRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read state %q: %w", key, err)
	}
	return value, nil
}

func (s *sqliteStateRepository) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO client_state (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write state %q: %w", key, err)
	}
	return nil
}

func (s *sqliteStateRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	_, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

func (s *sqliteStateRepository) Close() error {
	return s.db.Close()
}
