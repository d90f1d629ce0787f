package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	goredis "github.com/go-redis/redis"
	_ "github.com/lib/pq"

	"github.com/carson-networks/budget-engine/internal/config"
	"github.com/carson-networks/budget-engine/internal/storage/memory"
	"github.com/carson-networks/budget-engine/internal/storage/postgres"
	"github.com/carson-networks/budget-engine/internal/storage/redis"
)

type Storage struct {
	store  CollectionStore
	closer io.Closer
}

// New wraps an already opened collection store.
func New(store CollectionStore) *Storage {
	return &Storage{store: store}
}

// NewStorage opens the backend selected by STORE_BACKEND. The Postgres
// backend is migrated before use.
func NewStorage(env *config.Config) (*Storage, error) {
	switch env.StoreBackend {
	case config.StoreBackendMemory:
		return New(memory.New()), nil

	case config.StoreBackendRedis:
		client := goredis.NewClient(&goredis.Options{Addr: env.RedisAddress})
		if err := client.Ping().Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return &Storage{store: redis.New(client, env.RedisPrefix), closer: client}, nil

	case config.StoreBackendPostgres:
		db, err := sql.Open("postgres", env.PostgresConnectionString())
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Storage{store: postgres.New(db), closer: db}, nil
	}
	return nil, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, env.StoreBackend)
}

func (s *Storage) Read() *Reader {
	return NewReader(s.store)
}

// Write opens a Writer. Callers must finish it with Commit or Rollback; the
// operator is the only caller outside tests.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewWriter(s.store), nil
}

// Ping reads the smallest collection to check the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.Read().Cooldown(ctx)
	return err
}

func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
