package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/amankumarsingh77/hoopcast/internal/config"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to the job store backend and verifies it answers.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	addr := cfg.Redis.RedisAddr
	if addr == "" {
		addr = ":6379"
	}

	opts := &redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.RedisPassword,
		DB:           cfg.Redis.DB,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolSize:     cfg.Redis.PoolSize,
		PoolTimeout:  time.Duration(cfg.Redis.PoolTimeout) * time.Second,
	}
	if cfg.Redis.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
