package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "report:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type testReport struct {
	Total int    `json:"total"`
	Label string `json:"label"`
}

func TestReportCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewReportCache(client, time.Minute)
	ctx := context.Background()

	var miss testReport
	if rc.Get(ctx, "overview:all", &miss) {
		t.Fatal("expected miss on empty cache")
	}

	rc.Set(ctx, "overview:all", testReport{Total: 42, Label: "all"})

	var got testReport
	if !rc.Get(ctx, "overview:all", &got) {
		t.Fatal("expected hit after Set")
	}
	if got.Total != 42 || got.Label != "all" {
		t.Errorf("got %+v, want {42 all}", got)
	}
}

func TestReportCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewReportCache(client, time.Minute)
	ctx := context.Background()

	rc.Set(ctx, "overview:a", testReport{Total: 1})
	rc.Set(ctx, "overview:b", testReport{Total: 2})

	rc.Invalidate(ctx)

	var got testReport
	if rc.Get(ctx, "overview:a", &got) {
		t.Error("expected miss after Invalidate")
	}
	if rc.Get(ctx, "overview:b", &got) {
		t.Error("expected miss after Invalidate")
	}
}

func TestReportCacheNilSafe(t *testing.T) {
	var rc *ReportCache
	ctx := context.Background()

	// A nil cache quietly does nothing.
	rc.Set(ctx, "k", testReport{})
	var got testReport
	if rc.Get(ctx, "k", &got) {
		t.Error("nil cache must always miss")
	}
	rc.Invalidate(ctx)
}
