package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/crimson-sun/seizurewatch/internal/model"
)

// DefaultKey is the list holding the seizure log.
const DefaultKey = "seizure_log"

// Store keeps the seizure log as a Redis list, one JSON entry per element.
// RPUSH is atomic, so concurrent writers from any number of processes
// never lose entries.
type Store struct {
	client *redis.Client
	key    string
}

// New connects to the Redis server at addr and verifies it with PING.
func New(ctx context.Context, addr, key string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       addr,
		MaxRetries: 3,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis log: ping %s: %w", addr, err)
	}
	return NewWithClient(rdb, key), nil
}

// NewWithClient wraps an existing client. An empty key uses DefaultKey.
func NewWithClient(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Record appends entry to the end of the list.
func (s *Store) Record(ctx context.Context, entry model.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("redis log: marshal: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("redis log: rpush %s: %w", s.key, err)
	}
	return nil
}

// ReadAll returns every entry in insertion order. A missing key is an
// empty log. Elements that are not valid JSON are reported as an error.
func (s *Store) ReadAll(ctx context.Context) ([]json.RawMessage, error) {
	vals, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis log: lrange %s: %w", s.key, err)
	}
	entries := make([]json.RawMessage, 0, len(vals))
	for i, v := range vals {
		if !json.Valid([]byte(v)) {
			return nil, fmt.Errorf("redis log: element %d of %s is not JSON", i, s.key)
		}
		entries = append(entries, json.RawMessage(v))
	}
	return entries, nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
