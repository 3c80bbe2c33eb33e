package session

import "context"

// Storage is the durable key-value store the session is mirrored into.
// Get reports found=false for an absent key without an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
