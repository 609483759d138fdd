package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"pkgscout/internal/domain"
)

const (
	redisKeyPrefix  = "pkgscout:cache:"
	redisHashPrefix = "pkgscout:qh:"
)

// RedisStore keeps cache entries in Redis so several hosts can share one
// warm cache. Expiry rides on Redis TTLs and capacity on the server's own
// eviction policy, so PurgeExpired and EvictOverCapacity are no-ops here.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Load(ctx context.Context, key string) (entry, bool, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entry{}, false, nil
		}
		return entry{}, false, err
	}
	var e redisEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return entry{}, false, err
	}
	return e.toEntry(key), true, nil
}

func (r *RedisStore) Save(ctx context.Context, e entry) error {
	data, err := json.Marshal(newRedisEntry(e))
	if err != nil {
		return err
	}
	ttl := time.Until(e.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+e.Key, data, ttl)
	pipe.SAdd(ctx, redisHashPrefix+e.QueryHash, e.Key)
	pipe.Expire(ctx, redisHashPrefix+e.QueryHash, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Touch is best-effort in Redis; access counters live in the value, and
// rewriting the value on every hit is not worth the round trip.
func (r *RedisStore) Touch(ctx context.Context, key string, accessedAt time.Time) error {
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) (int64, error) {
	return r.client.Del(ctx, redisKeyPrefix+key).Result()
}

func (r *RedisStore) DeleteByQueryHash(ctx context.Context, queryHash string) (int64, error) {
	setKey := redisHashPrefix + queryHash
	keys, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	prefixed := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		prefixed = append(prefixed, redisKeyPrefix+k)
	}
	prefixed = append(prefixed, setKey)
	return r.client.Del(ctx, prefixed...).Result()
}

func (r *RedisStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisStore) EvictOverCapacity(ctx context.Context, maxEntries int) (int64, error) {
	return 0, nil
}

func (r *RedisStore) Stats(ctx context.Context, now time.Time) (domain.CacheStats, error) {
	var stats domain.CacheStats
	stats.BySource = make(map[domain.Source]int64)

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 200).Result()
		if err != nil {
			return domain.CacheStats{}, err
		}
		for _, key := range keys {
			stats.TotalEntries++
			data, err := r.client.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			var e redisEntry
			if err := json.Unmarshal(data, &e); err != nil {
				continue
			}
			stats.BySource[e.Source]++
			stats.TotalAccesses += e.AccessCount
			created := time.UnixMilli(e.CreatedAtMS)
			if stats.OldestEntry.IsZero() || created.Before(stats.OldestEntry) {
				stats.OldestEntry = created
			}
			if created.After(stats.NewestEntry) {
				stats.NewestEntry = created
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return stats, nil
}

func (r *RedisStore) Clear(ctx context.Context) (int64, error) {
	var removed int64
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, "pkgscout:*", 200).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			removed += n
			if err != nil {
				return removed, err
			}
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

type redisEntry struct {
	QueryHash      string          `json:"queryHash"`
	Source         domain.Source   `json:"source"`
	Value          json.RawMessage `json:"value"`
	CreatedAtMS    int64           `json:"createdAt"`
	ExpiresAtMS    int64           `json:"expiresAt"`
	AccessCount    int64           `json:"accessCount"`
	LastAccessedMS int64           `json:"lastAccessed"`
}

func newRedisEntry(e entry) redisEntry {
	return redisEntry{
		QueryHash:      e.QueryHash,
		Source:         e.Source,
		Value:          json.RawMessage(e.Value),
		CreatedAtMS:    e.CreatedAt.UnixMilli(),
		ExpiresAtMS:    e.ExpiresAt.UnixMilli(),
		AccessCount:    e.AccessCount,
		LastAccessedMS: e.LastAccessed.UnixMilli(),
	}
}

func (e redisEntry) toEntry(key string) entry {
	return entry{
		Key:          key,
		QueryHash:    e.QueryHash,
		Source:       e.Source,
		Value:        []byte(e.Value),
		CreatedAt:    time.UnixMilli(e.CreatedAtMS),
		ExpiresAt:    time.UnixMilli(e.ExpiresAtMS),
		AccessCount:  e.AccessCount,
		LastAccessed: time.UnixMilli(e.LastAccessedMS),
	}
}
