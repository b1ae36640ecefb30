// Package redisstore keeps the bookkeeping snapshot under a single Redis key.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// Store implements ledger.SnapshotStore on Redis.
type Store struct {
	client redis.UniversalClient
	key    string
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, opts.Key), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient, key string) *Store {
	return &Store{client: client, key: key}
}

// Load reads the snapshot key.
func (s *Store) Load(ctx context.Context) (models.Snapshot, bool, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("read snapshot %s: %w", s.key, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode snapshot %s: %w", s.key, err)
	}
	return snap, true, nil
}

// Save overwrites the snapshot key.
func (s *Store) Save(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.key, err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
