package complete

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const usageSchema = `
CREATE TABLE IF NOT EXISTS package_usage (
	name      TEXT PRIMARY KEY,
	count     INTEGER NOT NULL DEFAULT 0,
	last_used INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_package_usage_last_used ON package_usage(last_used);
`

// UsageStore persists install-frequency counters and recency in sqlite so
// completion ranking survives process restarts.
type UsageStore struct {
	db *sql.DB
}

// OpenUsageStore opens (and if needed creates) the usage database at path.
func OpenUsageStore(path string) (*UsageStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create usage dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(usageSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init usage schema: %w", err)
	}
	return &UsageStore{db: db}, nil
}

// OpenMemoryUsageStore opens an in-memory store, used in tests.
func OpenMemoryUsageStore() (*UsageStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(usageSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init usage schema: %w", err)
	}
	return &UsageStore{db: db}, nil
}

// LoadCounts returns the persisted frequency counter per package.
func (s *UsageStore) LoadCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, count FROM package_usage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		counts[name] = count
	}
	return counts, rows.Err()
}

// LoadRecent returns up to limit package names, most recently used first.
func (s *UsageStore) LoadRecent(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM package_usage ORDER BY last_used DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveCounts upserts the given counters with the provided recency ordering:
// recent[0] gets the newest timestamp.
func (s *UsageStore) SaveCounts(ctx context.Context, counts map[string]int, recent []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	recency := make(map[string]int64, len(recent))
	for i, name := range recent {
		recency[name] = now - int64(i)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO package_usage (name, count, last_used) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET count = excluded.count, last_used = excluded.last_used`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for name, count := range counts {
		usedAt, ok := recency[name]
		if !ok {
			usedAt = 0
		}
		if usedAt == 0 {
			// Preserve the stored timestamp for packages outside the
			// recent window.
			var existing int64
			err := tx.QueryRowContext(ctx, `SELECT last_used FROM package_usage WHERE name = ?`, name).Scan(&existing)
			if err == nil {
				usedAt = existing
			}
		}
		if _, err := stmt.ExecContext(ctx, name, count, usedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *UsageStore) Close() error {
	return s.db.Close()
}
