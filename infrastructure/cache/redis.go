// Package cache wraps the Redis connection used by the Redis page store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todoblog/logging"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string        `env:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" default:"0"`
	PageTTL  time.Duration `env:"REDIS_PAGE_TTL" default:"0"`
}

// RedisClient owns a go-redis client.
type RedisClient struct {
	Client *redis.Client
	logger *logging.Logger
}

// NewRedisClient creates a client; it does not dial until Connect.
func NewRedisClient(cfg Config) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		logger: logging.Default().WithComponent("redis"),
	}
}

// Connect verifies the server is reachable.
func (r *RedisClient) Connect(ctx context.Context) error {
	r.logger.Info("Connecting to Redis", "addr", r.Client.Options().Addr)
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// HealthCheck pings with a short deadline.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
