package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker invalidates tokens before they expire, e.g. on sign-out.
type TokenRevoker interface {
	// Revoke marks the token ID as revoked for ttl
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if the token ID has been revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenRevoker implements TokenRevoker using Redis
type RedisTokenRevoker struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenRevoker creates a revoker sharing an existing Redis client
func NewRedisTokenRevoker(client *redis.Client, keyPrefix string) *RedisTokenRevoker {
	return &RedisTokenRevoker{
		client:    client,
		keyPrefix: keyPrefix + "token:revoked:",
	}
}

// Revoke implements TokenRevoker
func (r *RedisTokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.keyPrefix+jti, "1", ttl).Err()
}

// IsRevoked implements TokenRevoker
func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InMemoryTokenRevoker implements TokenRevoker in process memory
type InMemoryTokenRevoker struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewInMemoryTokenRevoker creates an empty in-memory revoker
func NewInMemoryTokenRevoker() *InMemoryTokenRevoker {
	return &InMemoryTokenRevoker{revoked: make(map[string]time.Time)}
}

// Revoke implements TokenRevoker
func (r *InMemoryTokenRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, until := range r.revoked {
		if now.After(until) {
			delete(r.revoked, id)
		}
	}
	r.revoked[jti] = now.Add(ttl)
	return nil
}

// IsRevoked implements TokenRevoker
func (r *InMemoryTokenRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	until, ok := r.revoked[jti]
	return ok && time.Now().Before(until), nil
}

var (
	_ TokenRevoker = (*RedisTokenRevoker)(nil)
	_ TokenRevoker = (*InMemoryTokenRevoker)(nil)
)
