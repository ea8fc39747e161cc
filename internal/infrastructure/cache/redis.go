package cache

import (
	"context"
	"fmt"
	"time"

	"fleet-service/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is a TTL cache for serialized analytics payloads. Fleet-wide
// aggregation is the one expensive recompute in the service, so summaries
// are cached per date-range key.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg *config.RedisConfig, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddr(),
		Password:        cfg.Password,
		DB:              cfg.Database,
		MaxRetries:      cfg.MaxRetries,
		PoolSize:        cfg.PoolSize,
		ConnMaxIdleTime: cfg.IdleTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Successfully connected to Redis",
		zap.String("addr", cfg.GetRedisAddr()),
		zap.Int("database", cfg.Database),
	)

	return &RedisCache{
		client: client,
		logger: logger,
	}, nil
}

// Get retrieves a cached payload. A cache miss returns nil bytes and no error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %q: %w", key, err)
	}
	return val, nil
}

// Set stores a payload with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.client.Close()
}
