package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func GetCachedData[K any](ctx context.Context, cache *redis.Client, key string) (*K, bool) {
	if cache == nil {
		return nil, false
	}

	data, err := cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.S().Warnw("Error getting cache", "key", key, "error", err)
		}
		return nil, false
	}

	var obj K
	if err := json.Unmarshal(data, &obj); err != nil {
		zap.S().Warnw("Error unpacking cache data", "key", key, "error", err)
		return nil, false
	}

	return &obj, true
}

var errVersionChanged = errors.New("cache version changed")

// ReadVersion snapshots the counters guarding a cached value. Reads that
// intend to populate the cache take the snapshot before querying the store.
func ReadVersion(ctx context.Context, cache *redis.Client, versionKeys ...string) (string, bool) {
	if cache == nil {
		return "", false
	}

	values, err := cache.MGet(ctx, versionKeys...).Result()
	if err != nil {
		zap.S().Warnw("Error reading cache version", "keys", versionKeys, "error", err)
		return "", false
	}
	return fmt.Sprint(values), true
}

// SetCachedDataIfVersion stores obj only while the version counters still
// match the snapshot, so a value read before a write is never cached after it.
func SetCachedDataIfVersion[K any](ctx context.Context, cache *redis.Client, key string, obj K, ttl time.Duration, version string, versionKeys ...string) {
	if cache == nil {
		return
	}

	data, err := json.Marshal(obj)
	if err != nil {
		zap.S().Warnw("Error packing cache data", "key", key, "error", err)
		return
	}

	err = cache.Watch(ctx, func(tx *redis.Tx) error {
		values, err := tx.MGet(ctx, versionKeys...).Result()
		if err != nil {
			return err
		}
		if fmt.Sprint(values) != version {
			return errVersionChanged
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, versionKeys...)

	switch {
	case err == nil:
	case errors.Is(err, errVersionChanged), errors.Is(err, redis.TxFailedErr):
		zap.S().Debugw("Skipped caching stale data", "key", key)
	default:
		zap.S().Warnw("Error setting cache", "key", key, "error", err)
	}
}

// BumpVersion advances versionKey and drops keys in one transaction.
func BumpVersion(ctx context.Context, cache *redis.Client, versionKey string, ttl time.Duration, keys ...string) {
	if cache == nil {
		return
	}

	_, err := cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		if ttl > 0 {
			pipe.Expire(ctx, versionKey, ttl)
		}
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		return nil
	})
	if err != nil {
		zap.S().Warnw("Error invalidating cache", "version", versionKey, "keys", keys, "error", err)
	}
}

func SetCachedData[K any](ctx context.Context, cache *redis.Client, key string, obj K, ttl time.Duration) {
	if cache == nil {
		return
	}

	data, err := json.Marshal(obj)
	if err != nil {
		zap.S().Warnw("Error packing cache data", "key", key, "error", err)
		return
	}

	if err := cache.Set(ctx, key, data, ttl).Err(); err != nil {
		zap.S().Warnw("Error setting cache", "key", key, "error", err)
	}
}

func InvalidateCache(ctx context.Context, cache *redis.Client, keys ...string) {
	if cache == nil || len(keys) == 0 {
		return
	}

	if err := cache.Del(ctx, keys...).Err(); err != nil {
		zap.S().Warnw("Error invalidating cache", "keys", keys, "error", err)
	}
}

// InvalidateCachePattern removes every key matching pattern.
func InvalidateCachePattern(ctx context.Context, cache *redis.Client, pattern string) {
	if cache == nil {
		return
	}

	var keys []string
	iter := cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		zap.S().Warnw("Error scanning cache", "pattern", pattern, "error", err)
	}

	for start := 0; start < len(keys); start += 100 {
		end := min(start+100, len(keys))
		InvalidateCache(ctx, cache, keys[start:end]...)
	}
}
