package session

import (
	"context"

	"github.com/storefront/backend/internal/domain/session"
)

// KeyPrefix returns the storage namespace of one shopper session
func KeyPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}

// scopedStorage confines a shared Storage to one session's keys
type scopedStorage struct {
	inner  session.Storage
	prefix string
}

// Scoped returns a Storage that reads and writes only sessionID's keys
func Scoped(inner session.Storage, sessionID string) session.Storage {
	return &scopedStorage{inner: inner, prefix: KeyPrefix(sessionID)}
}

func (s *scopedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStorage) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedStorage) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.prefix + key
	}
	return s.inner.Delete(ctx, full...)
}
