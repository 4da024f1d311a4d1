package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/warehouse-backend/pkg/redis"
)

// KV is the slice of the redis client the document store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DocumentKey(name string) string
	Ping(ctx context.Context) error
}

// Redis stores one key per document, without expiry.
type Redis struct {
	kv KV
}

func NewRedis(kv KV) *Redis {
	return &Redis{kv: kv}
}

func (s *Redis) Load(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	value, err := s.kv.Get(ctx, s.kv.DocumentKey(name))
	if errors.Is(err, pkgredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: redis get %s: %w", name, err)
	}
	return []byte(value), nil
}

func (s *Redis) Save(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.kv.DocumentKey(name), string(data), 0); err != nil {
		return fmt.Errorf("docstore: redis set %s: %w", name, err)
	}
	return nil
}

func (s *Redis) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close leaves the shared redis client open; its owner closes it.
func (s *Redis) Close() error { return nil }
