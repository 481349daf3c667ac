package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Optional Redis cache in front of the report endpoints. Reports are always
// recomputable from scratch, so the cache is a pure accelerator: when
// REDIS_ADDR is unset or the server is unreachable everything still works.
var rdb *redis.Client

var cacheCtx = context.Background()

const reportCacheTTL = 60 * time.Second

func connectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		slog.Info("REDIS_ADDR not set, report caching disabled")
		return
	}
	rdb = redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(cacheCtx).Result(); err != nil {
		slog.Error("failed to connect to redis, report caching disabled", "error", err)
		rdb = nil
		return
	}
	slog.Info("connected to redis", "addr", addr)
}

func reportCacheKey(userID uint, parts ...string) string {
	key := fmt.Sprintf("reports:%d", userID)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func cachedReport(key string) ([]byte, bool) {
	if rdb == nil {
		return nil, false
	}
	val, err := rdb.Get(cacheCtx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func storeReport(key string, payload []byte) {
	if rdb == nil {
		return
	}
	if err := rdb.Set(cacheCtx, key, payload, reportCacheTTL).Err(); err != nil {
		slog.Warn("failed to store report in cache", "key", key, "error", err)
	}
}

// invalidateReports drops every cached report for a user after a write to
// their financial data.
func invalidateReports(userID uint) {
	if rdb == nil {
		return
	}
	pattern := fmt.Sprintf("reports:%d:*", userID)
	keys, err := rdb.Keys(cacheCtx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := rdb.Del(cacheCtx, keys...).Err(); err != nil {
		slog.Warn("failed to invalidate report cache", "pattern", pattern, "error", err)
	}
}
