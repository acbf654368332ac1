package kv

import (
	"context"
	"fmt"
	"time"

	"support-console/internal/config"
	"support-console/internal/db"
)

// Open builds the backend named by cfg.Driver. idle is the Redis scope TTL.
func Open(ctx context.Context, cfg config.StorageConfig, idle time.Duration) (Backend, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryBackend(), nil
	case "redis":
		b, err := NewRedisBackend(ctx, RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "console:",
			IdleTTL:  idle,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b, err := NewPostgresBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("kv: unknown storage driver %q", cfg.Driver)
}
