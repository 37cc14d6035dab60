package quota

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// retainDays bounds how long day rows are kept. Old counters can never
// affect a check (the key includes the day), so pruning only caps growth.
const retainDays = 7

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	store.prune(context.Background())

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS quota_usage (
		feature TEXT NOT NULL,
		day TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (feature, day)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Usage(ctx context.Context, feature Feature, day string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT count FROM quota_usage WHERE feature = ? AND day = ?",
		string(feature), day,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read usage: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) SetUsage(ctx context.Context, feature Feature, day string, count int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quota_usage (feature, day, count) VALUES (?, ?, ?)
		ON CONFLICT (feature, day) DO UPDATE SET count = excluded.count`,
		string(feature), day, count,
	)
	if err != nil {
		return fmt.Errorf("write usage: %w", err)
	}

	s.prune(ctx)
	return nil
}

// prune drops day rows older than the retention window. ISO day strings
// compare correctly as text. Failures are ignored; pruning is best effort.
func (s *SQLiteStore) prune(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -retainDays).Format("2006-01-02")
	s.db.ExecContext(ctx, "DELETE FROM quota_usage WHERE day < ?", cutoff)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
