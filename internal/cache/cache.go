// Package cache persists per-(query, source) search results with TTL
// expiry, capacity eviction, and a privacy filter that keeps sensitive
// queries out of the store entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pkgscout/internal/domain"
	"pkgscout/internal/metrics"
	"pkgscout/internal/search"
)

const (
	defaultTTL        = 24 * time.Hour
	defaultMaxEntries = 1000
	sweepInterval     = time.Hour
	maxDescriptionLen = 500
)

// sensitiveQueryTerms block caching altogether: a query containing any of
// these is looked up live every time and never written to disk.
var sensitiveQueryTerms = []string{
	"password", "secret", "key", "token", "private",
	"credential", "auth", "login", "admin", "root",
}

// sensitiveDescriptionTerms drop individual records before they are stored.
var sensitiveDescriptionTerms = []string{"password", "secret", "private"}

// Store is the persistence backend behind Cache. The sqlite store is the
// default; a Redis store can be shared across hosts.
type Store interface {
	Load(ctx context.Context, key string) (entry, bool, error)
	Save(ctx context.Context, e entry) error
	Touch(ctx context.Context, key string, accessedAt time.Time) error
	Delete(ctx context.Context, key string) (int64, error)
	DeleteByQueryHash(ctx context.Context, queryHash string) (int64, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	EvictOverCapacity(ctx context.Context, maxEntries int) (int64, error)
	Stats(ctx context.Context, now time.Time) (domain.CacheStats, error)
	Clear(ctx context.Context) (int64, error)
	Close() error
}

type entry struct {
	Key          string
	QueryHash    string
	Source       domain.Source
	Value        []byte
	CreatedAt    time.Time
	ExpiresAt    time.Time
	AccessCount  int64
	LastAccessed time.Time
}

// Cache implements search.ResultCache over a Store. All store failures are
// absorbed: Get degrades to a miss, Set to a no-op, so a broken cache file
// can never break a search.
type Cache struct {
	store      Store
	ttl        time.Duration
	maxEntries int
	logger     *slog.Logger
	now        func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

var _ search.ResultCache = (*Cache)(nil)

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a Cache over the given store.
func New(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		store:      store,
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached records for (query, source), or a miss when the
// entry is absent, expired, or the query is sensitive. A hit bumps the
// entry's access stats.
func (c *Cache) Get(ctx context.Context, query string, source domain.Source) ([]domain.PackageRecord, bool) {
	normalized := search.NormalizeQuery(query)
	if normalized == "" || isSensitiveQuery(normalized) {
		return nil, false
	}

	e, ok, err := c.store.Load(ctx, entryKey(normalized, source))
	if err != nil {
		c.logger.Warn("cache load failed", "source", source, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	now := c.now()
	if !e.ExpiresAt.After(now) {
		// Stale rows go immediately, not at the next sweep.
		if _, derr := c.store.Delete(ctx, e.Key); derr != nil {
			c.logger.Warn("cache expired-row purge failed", "error", derr)
		}
		return nil, false
	}

	var records []domain.PackageRecord
	if err := json.Unmarshal(e.Value, &records); err != nil {
		c.logger.Warn("cache entry undecodable, dropping", "source", source, "error", err)
		if _, derr := c.store.Delete(ctx, e.Key); derr != nil {
			c.logger.Warn("cache drop failed", "error", derr)
		}
		return nil, false
	}

	if err := c.store.Touch(ctx, e.Key, now); err != nil {
		c.logger.Warn("cache touch failed", "error", err)
	}
	return records, true
}

// Set stores the records for (query, source) under the configured TTL.
// Sensitive queries are never stored; sensitive records are dropped and the
// rest sanitized. Reports whether an entry was written.
func (c *Cache) Set(ctx context.Context, query string, source domain.Source, records []domain.PackageRecord) bool {
	return c.SetWithTTL(ctx, query, source, records, 0)
}

// SetWithTTL is Set with a per-call TTL. A non-positive ttl means the
// configured default.
func (c *Cache) SetWithTTL(ctx context.Context, query string, source domain.Source, records []domain.PackageRecord, ttl time.Duration) bool {
	normalized := search.NormalizeQuery(query)
	if normalized == "" || isSensitiveQuery(normalized) {
		return false
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	sanitized := sanitizeRecords(records)
	if len(sanitized) == 0 {
		return false
	}
	value, err := json.Marshal(sanitized)
	if err != nil {
		return false
	}

	now := c.now()
	e := entry{
		Key:          entryKey(normalized, source),
		QueryHash:    queryHash(normalized),
		Source:       source,
		Value:        value,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		AccessCount:  0,
		LastAccessed: now,
	}
	if err := c.store.Save(ctx, e); err != nil {
		c.logger.Warn("cache save failed", "source", source, "error", err)
		return false
	}

	c.maybeSweep(ctx, now)
	return true
}

// Invalidate removes the query's entries, scoped to one source when given,
// otherwise across every source. Returns the number of removed entries.
func (c *Cache) Invalidate(ctx context.Context, query string, source ...domain.Source) (int64, error) {
	normalized := search.NormalizeQuery(query)
	if normalized == "" {
		return 0, nil
	}
	if len(source) > 0 && source[0] != "" {
		return c.store.Delete(ctx, entryKey(normalized, source[0]))
	}
	return c.store.DeleteByQueryHash(ctx, queryHash(normalized))
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	return c.store.Clear(ctx)
}

// Stats reports entry counts and usage totals.
func (c *Cache) Stats(ctx context.Context) (domain.CacheStats, error) {
	return c.store.Stats(ctx, c.now())
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// maybeSweep purges expired rows and evicts over capacity, at most once per
// sweepInterval. Piggybacking on writes keeps the cache maintained without
// a background goroutine in a short-lived CLI process; the capacity bound
// may be exceeded between sweeps.
func (c *Cache) maybeSweep(ctx context.Context, now time.Time) {
	c.sweepMu.Lock()
	due := now.Sub(c.lastSweep) >= sweepInterval
	if due {
		c.lastSweep = now
	}
	c.sweepMu.Unlock()
	if !due {
		return
	}

	purged, err := c.store.PurgeExpired(ctx, now)
	if err != nil {
		c.logger.Warn("cache expiry sweep failed", "error", err)
	}
	evicted, err := c.store.EvictOverCapacity(ctx, c.maxEntries)
	if err != nil {
		c.logger.Warn("cache capacity eviction failed", "error", err)
	}
	if total := purged + evicted; total > 0 {
		metrics.CacheEvictionsTotal.Add(float64(total))
		c.logger.Debug("cache sweep done", "purged", purged, "evicted", evicted)
	}
}

func entryKey(normalizedQuery string, source domain.Source) string {
	sum := sha256.Sum256([]byte(normalizedQuery + "|" + string(source)))
	return hex.EncodeToString(sum[:])
}

// queryHash is a short per-query digest shared by all of the query's
// per-source entries so Invalidate can remove them together.
func queryHash(normalizedQuery string) string {
	sum := sha256.Sum256([]byte(normalizedQuery))
	return hex.EncodeToString(sum[:8])
}

func isSensitiveQuery(normalizedQuery string) bool {
	for _, term := range sensitiveQueryTerms {
		if strings.Contains(normalizedQuery, term) {
			return true
		}
	}
	return false
}

func sanitizeRecords(records []domain.PackageRecord) []domain.PackageRecord {
	out := make([]domain.PackageRecord, 0, len(records))
	for _, r := range records {
		desc := strings.ToLower(r.Description)
		drop := false
		for _, term := range sensitiveDescriptionTerms {
			if strings.Contains(desc, term) {
				drop = true
				break
			}
		}
		if drop {
			continue
		}
		if len(r.Description) > maxDescriptionLen {
			r.Description = r.Description[:maxDescriptionLen]
		}
		out = append(out, r)
	}
	return out
}
