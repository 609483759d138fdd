package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pkgscout/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_cache (
	key           TEXT PRIMARY KEY,
	query_hash    TEXT NOT NULL,
	source        TEXT NOT NULL,
	value         TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	expires_at    INTEGER NOT NULL,
	access_count  INTEGER NOT NULL DEFAULT 0,
	last_accessed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_cache_query_hash ON search_cache(query_hash);
CREATE INDEX IF NOT EXISTS idx_search_cache_expires_at ON search_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_search_cache_last_accessed ON search_cache(last_accessed);
`

// SQLStore persists cache entries in a local sqlite database. A single
// connection with WAL keeps concurrent CLI invocations from tripping over
// each other.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

// OpenSQLStore opens (and if needed creates) the cache database at path.
func OpenSQLStore(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// OpenMemoryStore opens an in-memory store, used in tests.
func OpenMemoryStore() (*SQLStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context, key string) (entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, query_hash, source, value, created_at, expires_at, access_count, last_accessed
		FROM search_cache WHERE key = ?`, key)

	var (
		e                                entry
		source                           string
		createdAt, expiresAt, accessedAt int64
	)
	err := row.Scan(&e.Key, &e.QueryHash, &source, &e.Value, &createdAt, &expiresAt, &e.AccessCount, &accessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entry{}, false, nil
	}
	if err != nil {
		return entry{}, false, err
	}
	e.Source = domain.Source(source)
	e.CreatedAt = time.UnixMilli(createdAt)
	e.ExpiresAt = time.UnixMilli(expiresAt)
	e.LastAccessed = time.UnixMilli(accessedAt)
	return e, true, nil
}

func (s *SQLStore) Save(ctx context.Context, e entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_cache (key, query_hash, source, value, created_at, expires_at, access_count, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at,
			access_count = 0,
			last_accessed = excluded.last_accessed`,
		e.Key, e.QueryHash, string(e.Source), e.Value,
		e.CreatedAt.UnixMilli(), e.ExpiresAt.UnixMilli(), e.AccessCount, e.LastAccessed.UnixMilli())
	return err
}

func (s *SQLStore) Touch(ctx context.Context, key string, accessedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE search_cache SET access_count = access_count + 1, last_accessed = ?
		WHERE key = ?`, accessedAt.UnixMilli(), key)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_cache WHERE key = ?`, key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) DeleteByQueryHash(ctx context.Context, queryHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_cache WHERE query_hash = ?`, queryHash)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_cache WHERE expires_at <= ?`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// EvictOverCapacity removes the least recently accessed rows until at most
// maxEntries remain.
func (s *SQLStore) EvictOverCapacity(ctx context.Context, maxEntries int) (int64, error) {
	if maxEntries <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM search_cache WHERE key IN (
			SELECT key FROM search_cache
			ORDER BY last_accessed DESC
			LIMIT -1 OFFSET ?
		)`, maxEntries)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) Stats(ctx context.Context, now time.Time) (domain.CacheStats, error) {
	var stats domain.CacheStats

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(access_count), 0),
		       COALESCE(MIN(created_at), 0),
		       COALESCE(MAX(created_at), 0)
		FROM search_cache`, now.UnixMilli())

	var oldest, newest int64
	if err := row.Scan(&stats.TotalEntries, &stats.ExpiredEntries, &stats.TotalAccesses, &oldest, &newest); err != nil {
		return domain.CacheStats{}, err
	}
	if oldest > 0 {
		stats.OldestEntry = time.UnixMilli(oldest)
	}
	if newest > 0 {
		stats.NewestEntry = time.UnixMilli(newest)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM search_cache GROUP BY source`)
	if err != nil {
		return domain.CacheStats{}, err
	}
	defer rows.Close()

	stats.BySource = make(map[domain.Source]int64)
	for rows.Next() {
		var (
			source string
			count  int64
		)
		if err := rows.Scan(&source, &count); err != nil {
			return domain.CacheStats{}, err
		}
		stats.BySource[domain.Source(source)] = count
	}
	return stats, rows.Err()
}

func (s *SQLStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_cache`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
