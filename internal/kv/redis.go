package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis client methods used by RedisBackend.
// Keeping it as an interface enables mocking in tests.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Close() error
}

// RedisConfig holds connection settings for RedisBackend.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Prefix   string
	// IdleTTL expires a browser scope this long after its last read or write. Zero
	// keeps it forever.
	IdleTTL time.Duration
}

// RedisBackend stores each browser scope as one Redis hash named <prefix><sid>.
type RedisBackend struct {
	cfg    RedisConfig
	client RedisClient
}

// NewRedisBackend connects to Redis and verifies the connection with PING.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	opts := &redis.Options{
		Addr: cfg.Address,
		DB:   cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kv redis %s: ping failed: %w", cfg.Address, err)
	}
	return NewRedisBackendWithClient(cfg, client), nil
}

// NewRedisBackendWithClient creates a RedisBackend backed by a pre-built client.
func NewRedisBackendWithClient(cfg RedisConfig, client RedisClient) *RedisBackend {
	return &RedisBackend{cfg: cfg, client: client}
}

func (b *RedisBackend) Scope(sid string) Storage {
	return &redisStorage{backend: b, hash: b.cfg.Prefix + sid}
}

func (b *RedisBackend) Drop(ctx context.Context, sid string) error {
	if err := b.client.Del(ctx, b.cfg.Prefix+sid).Err(); err != nil {
		return fmt.Errorf("kv redis: drop %s: %w", sid, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

type redisStorage struct {
	backend *RedisBackend
	hash    string
}

func (s *redisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.backend.client.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv redis: get %s: %w", key, err)
	}
	if err := s.refresh(ctx); err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *redisStorage) Set(ctx context.Context, key, value string) error {
	if err := s.backend.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return fmt.Errorf("kv redis: set %s: %w", key, err)
	}
	return s.refresh(ctx)
}

// refresh pushes the scope's idle expiry out to a full IdleTTL from now.
func (s *redisStorage) refresh(ctx context.Context) error {
	ttl := s.backend.cfg.IdleTTL
	if ttl <= 0 {
		return nil
	}
	if err := s.backend.client.Expire(ctx, s.hash, ttl).Err(); err != nil {
		return fmt.Errorf("kv redis: expire %s: %w", s.hash, err)
	}
	return nil
}

func (s *redisStorage) Remove(ctx context.Context, key string) error {
	if err := s.backend.client.HDel(ctx, s.hash, key).Err(); err != nil {
		return fmt.Errorf("kv redis: remove %s: %w", key, err)
	}
	return nil
}
