package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil // Nothing to do
	}
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// Cache keys of the per-user read models
func WalletsKey(userID string) string       { return "wallets:user:" + userID }
func RecentKey(userID string) string        { return "recent:user:" + userID }
func StatsKey(userID, period string) string { return "stats:user:" + userID + ":" + period }

// InvalidateUser drops every cached read model of a user after a write
func InvalidateUser(ctx context.Context, rdb *redis.Client, userID string) error {
	return DeleteCache(ctx, rdb,
		WalletsKey(userID),          // Wallet list
		RecentKey(userID),           // Recent transactions
		StatsKey(userID, "weekly"),  // Weekly chart
		StatsKey(userID, "monthly"), // Monthly chart
		StatsKey(userID, "yearly"),  // Yearly chart
	)
}
