package roleguard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key RedisStore uses unless WithRedisKey overrides it.
const DefaultRedisKey = "roleguard:snapshot"

// RedisStore persists snapshots as a single JSON value.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKey sets the key the snapshot is stored under. Use distinct keys
// to keep several registries in one Redis instance.
func WithRedisKey(key string) RedisStoreOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// NewRedisStore creates a store backed by the given Redis client.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := roleguard.NewRedisStore(client,
//	    roleguard.WithRedisKey("mybot:roles"))
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		key:    DefaultRedisKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the stored snapshot. A missing key yields an empty snapshot,
// a key holding malformed JSON fails with ErrCorruptHierarchy.
func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("roleguard: redis get %s: %w", s.key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, NewError(ErrCorruptHierarchy, "malformed snapshot payload")
	}
	return snap, nil
}

// Save replaces the stored snapshot.
func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("roleguard: marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("roleguard: redis set %s: %w", s.key, err)
	}
	return nil
}
