package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/usav/inventory-backend/config"
	"github.com/usav/inventory-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// SetClient swaps the underlying client. Used by tests to point at a
// miniredis instance.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// CacheSummary stores a serialized inventory summary under the given
// scope key ("all" or a variant id).
func CacheSummary(ctx context.Context, scope string, payload string, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("inventory:summary:%s", scope)
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Error("Failed to cache inventory summary", err, map[string]interface{}{
			"scope": scope,
		})
		return err
	}
	return nil
}

// GetCachedSummary returns the cached summary payload for a scope.
// The second return value reports whether the key was present.
func GetCachedSummary(ctx context.Context, scope string) (string, bool, error) {
	if client == nil {
		return "", false, nil
	}

	key := fmt.Sprintf("inventory:summary:%s", scope)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		logger.Error("Failed to read cached inventory summary", err, map[string]interface{}{
			"scope": scope,
		})
		return "", false, err
	}
	return val, true, nil
}

// InvalidateSummaries drops every cached summary. Called after any
// write that changes item counts or statuses.
func InvalidateSummaries(ctx context.Context) error {
	if client == nil {
		return nil
	}

	iter := client.Scan(ctx, 0, "inventory:summary:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Error("Failed to scan summary cache keys", err, nil)
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		logger.Error("Failed to invalidate summary cache", err, map[string]interface{}{
			"keys": len(keys),
		})
		return err
	}

	logger.Debug("Invalidated cached inventory summaries", map[string]interface{}{
		"keys": len(keys),
	})
	return nil
}
