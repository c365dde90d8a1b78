package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/kdbplan/kdbplan/internal/store"
	"github.com/redis/go-redis/v9"
)

// Backend stores values in Redis under the kdbplan: prefix, without expiry
type Backend struct {
	client *redis.Client
}

// NewBackend creates a new Redis backend
func NewBackend(client *redis.Client) *Backend {
	return &Backend{
		client: client,
	}
}

// Get retrieves a value from Redis
func (b *Backend) Get(ctx context.Context, key string) (string, error) {
	val, err := b.client.Get(ctx, Key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value in Redis, replacing any previous one
func (b *Backend) Set(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes a value from Redis
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, Key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Keys lists the store keys currently held in Redis
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := b.client.Scan(ctx, cursor, KeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		for _, k := range batch {
			if key, ok := StoreKey(k); ok {
				keys = append(keys, key)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

var _ store.Backend = (*Backend)(nil)
