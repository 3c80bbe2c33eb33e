package session

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Registry hands out the single Store of each session, loading it from
// storage on first use
type Registry struct {
	storage session.Storage
	metrics *telemetry.SessionMetrics
	logger  *zap.Logger

	mu     sync.RWMutex
	stores map[string]*Store
	loads  singleflight.Group
}

// NewRegistry creates a registry over shared storage
func NewRegistry(storage session.Storage, metrics *telemetry.SessionMetrics, logger *zap.Logger) *Registry {
	return &Registry{
		storage: storage,
		metrics: metrics,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Get returns the store for sessionID, loading its persisted state if it is not
// resident. Concurrent first requests for one session share a single load, and
// loads of different sessions do not block each other.
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	if store := r.resident(sessionID); store != nil {
		return store
	}

	v, _, _ := r.loads.Do(sessionID, func() (any, error) {
		if store := r.resident(sessionID); store != nil {
			return store, nil
		}

		scoped := Scoped(r.storage, sessionID)
		store := NewStore(sessionID, scoped, r.metrics, r.logger)
		// the load is shared by every waiter, so one caller's cancellation must not cut it short
		store.Init(LoadSnapshot(context.WithoutCancel(ctx), scoped, store.logger))

		r.mu.Lock()
		defer r.mu.Unlock()
		store.touch()
		r.stores[sessionID] = store
		return store, nil
	})
	return v.(*Store)
}

// resident returns the loaded store of sessionID, or nil. The store is marked
// as used while the registry lock keeps Evict out.
func (r *Registry) resident(sessionID string) *Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[sessionID]
	if !ok {
		return nil
	}
	store.touch()
	return store
}

// Len returns the number of resident stores
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}

// Evict drops resident stores idle for longer than maxIdle. Their state stays
// in storage and is reloaded on the next Get.
func (r *Registry) Evict(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, store := range r.stores {
		if store.idleSince().After(cutoff) {
			continue
		}
		// a store mid-dispatch is in use whatever its timestamp says
		if !store.mu.TryLock() {
			continue
		}
		if !store.idleSince().After(cutoff) {
			delete(r.stores, id)
			evicted++
		}
		store.mu.Unlock()
	}
	if evicted > 0 {
		r.logger.Debug("Evicted idle sessions", zap.Int("count", evicted), zap.Int("resident", len(r.stores)))
	}
	return evicted
}

// RunEviction evicts idle stores every interval until ctx is done
func (r *Registry) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Evict(maxIdle)
		}
	}
}
