package redis_utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradebit/src/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheHandlerI is the cache contract used by the broker client for bulky
// read-mostly payloads such as the instrument dump.
type CacheHandlerI interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, result interface{}) error
}

// RedisHandler encapsulates the Redis client and provides utility methods.
type RedisHandler struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisHandler initializes a new Redis handler.
func NewRedisHandler(cfg *config.Config) (*RedisHandler, error) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Databases.Redis.Host + ":" + cfg.Databases.Redis.Port,
		Username: cfg.Databases.Redis.Username,
		Password: cfg.Databases.Redis.Password,
		DB:       cfg.Databases.Redis.Database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisHandler{
		client: client,
		ctx:    ctx,
	}, nil
}

// Set stores a key-value pair in Redis with an optional expiration.
func (r *RedisHandler) Set(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}

	return r.client.Set(r.ctx, key, data, expiration).Err()
}

// Get retrieves and deserializes the value of a key from Redis into the provided result.
func (r *RedisHandler) Get(key string, result interface{}) error {
	data, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("key does not exist: %s", key)
	} else if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), result)
}

// GenerateUUID derives a deterministic key from the given parts so repeated
// lookups for the same parameters hit the same cache entry.
func GenerateUUID(parts ...string) (string, error) {
	joined := ""
	for _, part := range parts {
		joined += part + "|"
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(joined))
	return id.String(), nil
}
