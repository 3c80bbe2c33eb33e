package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Session storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// KVStoreFactory creates session key-value stores based on configuration
type KVStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	sqlStore              session.Storage
	sessionTTL            time.Duration
	connect               func(config.RedisConfig) (*redis.Client, error)
}

// KVStoreFactoryOption is a functional option for configuring the factory
type KVStoreFactoryOption func(*KVStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when the
// configured backend is unavailable. Default is true.
func WithInMemoryFallback(allow bool) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithSQLStore provides the database-backed store used for the "sql" backend
func WithSQLStore(store session.Storage) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.sqlStore = store
	}
}

// WithSessionTTL expires a Redis-backed session once nobody has written to it
// for ttl. Zero keeps sessions until they are deleted.
func WithSessionTTL(ttl time.Duration) KVStoreFactoryOption {
	return func(f *KVStoreFactory) {
		f.sessionTTL = ttl
	}
}

// NewKVStoreFactory creates a new factory
func NewKVStoreFactory(cfg config.RedisConfig, opts ...KVStoreFactoryOption) *KVStoreFactory {
	f := &KVStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the store for the named backend. The returned client is
// non-nil only for the redis backend and must be closed by the caller.
func (f *KVStoreFactory) CreateStore(backend string) (session.Storage, *redis.Client, error) {
	switch backend {
	case StorageMemory, "":
		f.logger.Info("using in-memory session storage")
		return NewInMemoryKVStore(), nil, nil

	case StorageRedis:
		client, err := f.connect(f.redisConfig)
		if err == nil {
			f.logger.Info("using Redis session storage", zap.String("addr", f.redisConfig.Addr()))
			return NewRedisKVStore(client, f.redisConfig.KeyPrefix, f.sessionTTL), client, nil
		}
		return f.fallback(backend, err)

	case StorageSQL:
		if f.sqlStore != nil {
			f.logger.Info("using SQL session storage")
			return f.sqlStore, nil, nil
		}
		return f.fallback(backend, fmt.Errorf("no SQL store configured"))

	default:
		return nil, nil, fmt.Errorf("unknown session storage %q", backend)
	}
}

func (f *KVStoreFactory) fallback(backend string, cause error) (session.Storage, *redis.Client, error) {
	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("%s session storage unavailable: %w", backend, cause)
	}
	f.logger.Warn("session storage unavailable, falling back to in-memory. "+
		"Sessions will not survive a restart or be shared between instances.",
		zap.String("backend", backend),
		zap.Error(cause),
	)
	return NewInMemoryKVStore(), nil, nil
}
