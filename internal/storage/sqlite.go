// Package storage provides the SQLite-backed durable snapshot store. It is
// the deepest fallback tier of the profile resolver and the history source
// for growth windows when profiles carry no history of their own.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fld/internal/models"
	"fld/internal/structures"
)

type StoreInterface interface {
	SaveSnapshots(ctx context.Context, entries []models.SnapshotEntry) error
	LatestSnapshots(ctx context.Context) ([]models.SnapshotEntry, error)
	History(ctx context.Context, username string, since time.Time) ([]models.HistoryPoint, error)
	RecordScrapeRun(ctx context.Context, run models.ScrapeRun) error
	ScrapeRuns(ctx context.Context) ([]models.ScrapeRun, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    follower_count INTEGER NOT NULL,
    scraped_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_user_time ON snapshots(username, scraped_at);
CREATE TABLE IF NOT EXISTS scrape_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL,
    duration_seconds REAL NOT NULL,
    accounts_total INTEGER NOT NULL,
    accounts_successful INTEGER NOT NULL,
    total_followers INTEGER NOT NULL,
    method TEXT NOT NULL DEFAULT ''
);
`

// Store persists snapshot history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// NewStore opens the configured SQLite store, or returns a no-op store when
// durable storage is disabled.
func NewStore(conf *structures.Config) (StoreInterface, error) {
	if !conf.Storage.Enabled || conf.Storage.Path == "" {
		return &noopStore{}, nil
	}
	return Open(conf.Storage.Path)
}

// Open opens a SQLite store at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// SaveSnapshots appends one history row per entry in a single transaction.
func (s *Store) SaveSnapshots(ctx context.Context, entries []models.SnapshotEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshots (username, follower_count, scraped_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		username := models.NormalizeUsername(e.Username)
		if username == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, username, e.Followers, toMillis(e.Timestamp)); err != nil {
			return fmt.Errorf("insert snapshot for %s: %w", username, err)
		}
	}
	return tx.Commit()
}

// LatestSnapshots returns the most recent snapshot per username.
func (s *Store) LatestSnapshots(ctx context.Context) ([]models.SnapshotEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT username, follower_count, MAX(scraped_at) FROM snapshots GROUP BY username`)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshots: %w", err)
	}
	defer rows.Close()

	var out []models.SnapshotEntry
	for rows.Next() {
		var e models.SnapshotEntry
		var at int64
		if err := rows.Scan(&e.Username, &e.Followers, &at); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		e.Timestamp = fromMillis(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// History returns a username's snapshot series since the given time,
// ordered by time ascending.
func (s *Store) History(ctx context.Context, username string, since time.Time) ([]models.HistoryPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT follower_count, scraped_at FROM snapshots
		 WHERE username = ? AND scraped_at >= ? ORDER BY scraped_at ASC`,
		models.NormalizeUsername(username), toMillis(since))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []models.HistoryPoint
	for rows.Next() {
		var p models.HistoryPoint
		var at int64
		if err := rows.Scan(&p.Followers, &at); err != nil {
			return nil, fmt.Errorf("scan history point: %w", err)
		}
		p.Timestamp = fromMillis(at)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) RecordScrapeRun(ctx context.Context, run models.ScrapeRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO scrape_stats (timestamp, duration_seconds, accounts_total, accounts_successful, total_followers, method)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		toMillis(run.Timestamp), run.DurationSeconds, run.AccountsTotal,
		run.AccountsSuccessful, run.TotalFollowers, run.Method)
	if err != nil {
		return fmt.Errorf("insert scrape run: %w", err)
	}
	return nil
}

func (s *Store) ScrapeRuns(ctx context.Context) ([]models.ScrapeRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT timestamp, duration_seconds, accounts_total, accounts_successful, total_followers, method
		 FROM scrape_stats ORDER BY timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("query scrape runs: %w", err)
	}
	defer rows.Close()

	var out []models.ScrapeRun
	for rows.Next() {
		var run models.ScrapeRun
		var at int64
		if err := rows.Scan(&at, &run.DurationSeconds, &run.AccountsTotal,
			&run.AccountsSuccessful, &run.TotalFollowers, &run.Method); err != nil {
			return nil, fmt.Errorf("scan scrape run: %w", err)
		}
		run.Timestamp = fromMillis(at)
		out = append(out, run)
	}
	return out, rows.Err()
}

// noopStore satisfies StoreInterface when durable storage is disabled.
type noopStore struct{}

func (n *noopStore) SaveSnapshots(_ context.Context, _ []models.SnapshotEntry) error { return nil }
func (n *noopStore) LatestSnapshots(_ context.Context) ([]models.SnapshotEntry, error) {
	return nil, nil
}
func (n *noopStore) History(_ context.Context, _ string, _ time.Time) ([]models.HistoryPoint, error) {
	return nil, nil
}
func (n *noopStore) RecordScrapeRun(_ context.Context, _ models.ScrapeRun) error { return nil }
func (n *noopStore) ScrapeRuns(_ context.Context) ([]models.ScrapeRun, error)    { return nil, nil }
func (n *noopStore) Close() error                                                { return nil }
