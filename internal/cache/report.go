// report.go provides a Valkey-backed cache for computed analytics reports.
// The overview aggregates a dozen queries over the tasks table; results are
// cached briefly, keyed by the filter set, so dashboard refreshes skip the
// recomputation. Permission checks are never cached here; only report data.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// reportKeyPrefix is the Valkey key prefix for cached reports.
	reportKeyPrefix = "report:"

	// DefaultReportTTL is how long a computed report stays cached.
	DefaultReportTTL = 2 * time.Minute
)

// ReportCache manages analytics report caching in Valkey. A nil ReportCache
// is valid and caches nothing, so the analytics endpoints work without
// Valkey configured.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache backed by the given Valkey client.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl == 0 {
		ttl = DefaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get retrieves a cached report into dest. Returns false on miss.
func (rc *ReportCache) Get(ctx context.Context, key string, dest any) bool {
	if rc == nil {
		return false
	}
	val, err := rc.client.Get(ctx, reportKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("report cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		slog.Warn("report cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("report cache hit", "key", key)
	return true
}

// Set stores a computed report under key with the configured TTL.
func (rc *ReportCache) Set(ctx context.Context, key string, report any) {
	if rc == nil {
		return
	}
	val, err := json.Marshal(report)
	if err != nil {
		slog.Warn("report cache encode error", "key", key, "error", err)
		return
	}
	if err := rc.client.Set(ctx, reportKeyPrefix+key, val, rc.ttl).Err(); err != nil {
		slog.Warn("report cache set error", "key", key, "error", err)
	}
}

// Invalidate removes all cached reports by scanning for the prefix. Called
// on task writes, since any report could be affected.
func (rc *ReportCache) Invalidate(ctx context.Context) {
	if rc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, reportKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("report cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("report cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("report cache cleared", "deleted", deleted)
	}
}
