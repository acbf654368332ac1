package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createStorageTable = `
CREATE TABLE IF NOT EXISTS console_storage (
	scope      TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (scope, key)
)`

// PostgresBackend stores browser scopes as rows of the console_storage table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend wraps pool and creates the storage table if it does not exist.
func NewPostgresBackend(ctx context.Context, pool *pgxpool.Pool) (*PostgresBackend, error) {
	if _, err := pool.Exec(ctx, createStorageTable); err != nil {
		return nil, fmt.Errorf("kv postgres: create table: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) Scope(sid string) Storage {
	return &postgresStorage{pool: b.pool, scope: sid}
}

func (b *PostgresBackend) Drop(ctx context.Context, sid string) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM console_storage WHERE scope = $1`, sid); err != nil {
		return fmt.Errorf("kv postgres: drop %s: %w", sid, err)
	}
	return nil
}

// Close releases the pool.
func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}

type postgresStorage struct {
	pool  *pgxpool.Pool
	scope string
}

func (s *postgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM console_storage WHERE scope = $1 AND key = $2`,
		s.scope, key,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv postgres: get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *postgresStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO console_storage (scope, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.scope, key, value,
	)
	if err != nil {
		return fmt.Errorf("kv postgres: set %s: %w", key, err)
	}
	return nil
}

func (s *postgresStorage) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM console_storage WHERE scope = $1 AND key = $2`, s.scope, key,
	); err != nil {
		return fmt.Errorf("kv postgres: remove %s: %w", key, err)
	}
	return nil
}
