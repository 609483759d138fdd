package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgscout/internal/domain"
)

func newTestCache(t *testing.T, opts ...CacheOption) *Cache {
	t.Helper()
	store, err := OpenMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, opts...)
}

func sampleRecords() []domain.PackageRecord {
	return []domain.PackageRecord{
		{Name: "firefox", Description: "Fast web browser", Source: domain.SourcePacman},
		{Name: "firefox-esr", Description: "Extended support release", Source: domain.SourcePacman},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.True(t, c.Set(ctx, "firefox", domain.SourcePacman, sampleRecords()))

	got, ok := c.Get(ctx, "firefox", domain.SourcePacman)
	require.True(t, ok)
	assert.Equal(t, sampleRecords(), got)

	_, ok = c.Get(ctx, "firefox", domain.SourceAUR)
	assert.False(t, ok, "different source must be a separate entry")
}

func TestCacheNormalizesQueryKeys(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.True(t, c.Set(ctx, "  FireFox ", domain.SourcePacman, sampleRecords()))
	_, ok := c.Get(ctx, "firefox", domain.SourcePacman)
	assert.True(t, ok, "normalized forms of the same query must share one entry")
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t, WithTTL(time.Hour))
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	require.True(t, c.Set(ctx, "vim", domain.SourcePacman, sampleRecords()))

	_, ok := c.Get(ctx, "vim", domain.SourcePacman)
	require.True(t, ok)

	now = now.Add(time.Hour + time.Minute)
	_, ok = c.Get(ctx, "vim", domain.SourcePacman)
	assert.False(t, ok, "expired entry must miss")
}

func TestCacheRefusesSensitiveQueries(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, query := range []string{"password manager", "ssh key tool", "root explorer", "AuthElia"} {
		assert.False(t, c.Set(ctx, query, domain.SourceAUR, sampleRecords()), "query %q must not be cached", query)
		_, ok := c.Get(ctx, query, domain.SourceAUR)
		assert.False(t, ok)
	}

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
}

func TestCacheSanitizesRecords(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	long := strings.Repeat("x", 800)
	records := []domain.PackageRecord{
		{Name: "gopass", Description: "Stores every password you have", Source: domain.SourceAUR},
		{Name: "gimp", Description: long, Source: domain.SourceAUR},
	}
	require.True(t, c.Set(ctx, "gimp", domain.SourceAUR, records))

	got, ok := c.Get(ctx, "gimp", domain.SourceAUR)
	require.True(t, ok)
	require.Len(t, got, 1, "record with a sensitive description must be dropped")
	assert.Equal(t, "gimp", got[0].Name)
	assert.Len(t, got[0].Description, maxDescriptionLen)
}

func TestCacheSetAllSensitiveRecordsStoresNothing(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	records := []domain.PackageRecord{
		{Name: "keeper", Description: "Keeps your secret notes", Source: domain.SourceAUR},
	}
	assert.False(t, c.Set(ctx, "notes", domain.SourceAUR, records))
}

func TestCacheInvalidateRemovesAllSourcesForQuery(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.True(t, c.Set(ctx, "vim", domain.SourcePacman, sampleRecords()))
	require.True(t, c.Set(ctx, "vim", domain.SourceAUR, sampleRecords()))
	require.True(t, c.Set(ctx, "emacs", domain.SourcePacman, sampleRecords()))

	removed, err := c.Invalidate(ctx, "vim")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	_, ok := c.Get(ctx, "vim", domain.SourcePacman)
	assert.False(t, ok)
	_, ok = c.Get(ctx, "emacs", domain.SourcePacman)
	assert.True(t, ok, "other queries must survive invalidation")
}

func TestCacheInvalidateScopedToOneSource(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.True(t, c.Set(ctx, "vim", domain.SourcePacman, sampleRecords()))
	require.True(t, c.Set(ctx, "vim", domain.SourceAUR, sampleRecords()))

	removed, err := c.Invalidate(ctx, "vim", domain.SourcePacman)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, ok := c.Get(ctx, "vim", domain.SourcePacman)
	assert.False(t, ok)
	_, ok = c.Get(ctx, "vim", domain.SourceAUR)
	assert.True(t, ok, "other sources must survive a scoped invalidation")
}

func TestCacheExpiredGetPurgesRow(t *testing.T) {
	c := newTestCache(t, WithTTL(time.Hour))
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	require.True(t, c.Set(ctx, "vim", domain.SourcePacman, sampleRecords()))

	now = now.Add(time.Hour + time.Minute)
	_, ok := c.Get(ctx, "vim", domain.SourcePacman)
	require.False(t, ok)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries, "expired row must be removed on read, not at the next sweep")
}

func TestCacheSetWithTTLOverride(t *testing.T) {
	c := newTestCache(t, WithTTL(24*time.Hour))
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	require.True(t, c.SetWithTTL(ctx, "vim", domain.SourcePacman, sampleRecords(), 10*time.Minute))
	require.True(t, c.Set(ctx, "emacs", domain.SourcePacman, sampleRecords()))

	now = now.Add(11 * time.Minute)
	_, ok := c.Get(ctx, "vim", domain.SourcePacman)
	assert.False(t, ok, "per-call TTL must override the configured default")
	_, ok = c.Get(ctx, "emacs", domain.SourcePacman)
	assert.True(t, ok, "default TTL entries must still be live")
}

func TestCacheSweepEnforcesCapacity(t *testing.T) {
	c := newTestCache(t, WithMaxEntries(4))
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		require.True(t, c.Set(ctx, fmt.Sprintf("query-%d", i), domain.SourcePacman, sampleRecords()))
	}

	// The sweep is rate limited, so force the next write past the interval.
	now = now.Add(sweepInterval + time.Minute)
	require.True(t, c.Set(ctx, "query-final", domain.SourcePacman, sampleRecords()))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalEntries)

	_, ok := c.Get(ctx, "query-final", domain.SourcePacman)
	assert.True(t, ok, "the most recent entry must survive eviction")
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.True(t, c.Set(ctx, "vim", domain.SourcePacman, sampleRecords()))
	require.True(t, c.Set(ctx, "emacs", domain.SourceAUR, sampleRecords()))

	removed, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
}

func TestCacheStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.True(t, c.Set(ctx, "vim", domain.SourcePacman, sampleRecords()))
	require.True(t, c.Set(ctx, "vim", domain.SourceAUR, sampleRecords()))

	for i := 0; i < 3; i++ {
		_, ok := c.Get(ctx, "vim", domain.SourcePacman)
		require.True(t, ok)
	}

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalEntries)
	assert.EqualValues(t, 3, stats.TotalAccesses)
	assert.EqualValues(t, 1, stats.BySource[domain.SourcePacman])
	assert.EqualValues(t, 1, stats.BySource[domain.SourceAUR])
	assert.False(t, stats.OldestEntry.IsZero())
}

func TestSQLStoreEvictOverCapacity(t *testing.T) {
	store, err := OpenMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 10; i++ {
		e := entry{
			Key:          fmt.Sprintf("key-%02d", i),
			QueryHash:    fmt.Sprintf("hash-%02d", i),
			Source:       domain.SourcePacman,
			Value:        []byte(`[]`),
			CreatedAt:    base,
			ExpiresAt:    base.Add(time.Hour),
			LastAccessed: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.Save(ctx, e))
	}

	evicted, err := store.EvictOverCapacity(ctx, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 6, evicted)

	// The most recently accessed rows survive.
	for i := 6; i < 10; i++ {
		_, ok, err := store.Load(ctx, fmt.Sprintf("key-%02d", i))
		require.NoError(t, err)
		assert.True(t, ok, "key-%02d should survive eviction", i)
	}
	for i := 0; i < 6; i++ {
		_, ok, err := store.Load(ctx, fmt.Sprintf("key-%02d", i))
		require.NoError(t, err)
		assert.False(t, ok, "key-%02d should be evicted", i)
	}
}

func TestSQLStorePurgeExpired(t *testing.T) {
	store, err := OpenMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Save(ctx, entry{
		Key: "fresh", QueryHash: "h1", Source: domain.SourcePacman,
		Value: []byte(`[]`), CreatedAt: now, ExpiresAt: now.Add(time.Hour), LastAccessed: now,
	}))
	require.NoError(t, store.Save(ctx, entry{
		Key: "stale", QueryHash: "h2", Source: domain.SourcePacman,
		Value: []byte(`[]`), CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour), LastAccessed: now,
	}))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, ok, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheSurvivesClosedStore(t *testing.T) {
	store, err := OpenMemoryStore()
	require.NoError(t, err)
	c := New(store)
	require.NoError(t, store.Close())
	ctx := context.Background()

	assert.False(t, c.Set(ctx, "vim", domain.SourcePacman, sampleRecords()))
	_, ok := c.Get(ctx, "vim", domain.SourcePacman)
	assert.False(t, ok)
}
