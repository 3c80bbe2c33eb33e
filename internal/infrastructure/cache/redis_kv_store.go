package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// RedisKVStore implements session.Storage using Redis.
// Suitable when several server instances must see the same session.
//
// The keys of one session ("session:<id>:<name>") live as fields of a single
// hash, so the session expires as a whole and every write renews all of it.
type RedisKVStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisKVStore creates a store with an existing Redis client.
// A zero ttl keeps sessions until they are deleted.
func NewRedisKVStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisKVStore {
	return &RedisKVStore{
		client:    client,
		keyPrefix: keyPrefix + "kv:",
		ttl:       ttl,
	}
}

// Get implements session.Storage
func (s *RedisKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	hash, field := s.locate(key)
	val, err := s.client.HGet(ctx, hash, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return val, true, nil
}

// Set implements session.Storage
func (s *RedisKVStore) Set(ctx context.Context, key, value string) error {
	hash, field := s.locate(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hash, field, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, hash, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete implements session.Storage
func (s *RedisKVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fields := make(map[string][]string)
	for _, k := range keys {
		hash, field := s.locate(k)
		fields[hash] = append(fields[hash], field)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for hash, names := range fields {
			pipe.HDel(ctx, hash, names...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// locate maps "session:<id>:<name>" to the session hash and the field name
func (s *RedisKVStore) locate(key string) (hash, field string) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return s.keyPrefix, key
	}
	return s.keyPrefix + key[:i], key[i+1:]
}

// Ping checks the connection
func (s *RedisKVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ session.Storage = (*RedisKVStore)(nil)
