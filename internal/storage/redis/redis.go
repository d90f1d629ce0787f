// Package redis keeps each collection under its own key.
package redis

import (
	"context"

	goredis "github.com/go-redis/redis"
)

type Store struct {
	client *goredis.Client
	prefix string
}

func New(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	payload, err := s.client.WithContext(ctx).Get(s.key(name)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Store) Set(ctx context.Context, name string, payload []byte) error {
	return s.client.WithContext(ctx).Set(s.key(name), payload, 0).Err()
}

// SetMany writes every payload in one MULTI/EXEC block.
func (s *Store) SetMany(ctx context.Context, payloads map[string][]byte) error {
	_, err := s.client.WithContext(ctx).TxPipelined(func(pipe goredis.Pipeliner) error {
		for name, payload := range payloads {
			pipe.Set(s.key(name), payload, 0)
		}
		return nil
	})
	return err
}
