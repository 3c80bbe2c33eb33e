// Package session serves shopper sessions: a serialized store per session, the
// registry that owns them, and the cart and checkout flows built on top.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Store owns one session's state. Dispatch calls are applied one at a time and
// each finishes its durable writes before the next begins.
type Store struct {
	id      string
	storage session.Storage
	metrics *telemetry.SessionMetrics
	logger  *zap.Logger

	mu    sync.Mutex
	state session.State

	// unix nanos of the last Get, State or Dispatch; read by eviction without mu
	lastAccess atomic.Int64
}

// NewStore creates a store with the empty state. storage must already be scoped to the session.
func NewStore(id string, storage session.Storage, metrics *telemetry.SessionMetrics, logger *zap.Logger) *Store {
	s := &Store{
		id:      id,
		storage: storage,
		metrics: metrics,
		logger:  logger.With(zap.String("session_id", id)),
		state:   session.EmptyState(),
	}
	s.touch()
	return s
}

// ID returns the session ID
func (s *Store) ID() string {
	return s.id
}

// Init replaces the state with a loaded snapshot
func (s *Store) Init(snapshot session.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snapshot.Clone()
}

// State returns a copy of the current state
func (s *Store) State() session.State {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action and persists the touched keys. Storage failures are
// logged and counted; the in-memory transition always takes effect.
func (s *Store) Dispatch(ctx context.Context, action session.Action) session.State {
	if action == nil {
		return s.State()
	}
	state, _ := s.Update(ctx, func(session.State) (session.Action, error) {
		return action, nil
	})
	return state
}

// Update runs decide against the current state and dispatches the action it
// returns, all under the store lock, so read-modify-write changes such as
// "one more unit" cannot interleave. An error from decide leaves the state untouched.
func (s *Store) Update(ctx context.Context, decide func(session.State) (session.Action, error)) (session.State, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := decide(s.state.Clone())
	if err != nil {
		return session.State{}, err
	}
	if action == nil {
		return s.state.Clone(), nil
	}
	return s.apply(ctx, action), nil
}

// apply must be called with mu held
func (s *Store) apply(ctx context.Context, action session.Action) session.State {
	actionType := string(action.Type())

	ctx, span := telemetry.StartSpan(ctx, "session.dispatch", attribute.String("session.action", actionType))
	defer span.End()

	var out session.State
	telemetry.WithProfilingLabels(ctx, map[string]string{"session_action": actionType}, func(ctx context.Context) {
		start := time.Now()
		next := session.Reduce(s.state, action)
		s.state = next
		s.persist(ctx, next, action)
		s.metrics.RecordDispatch(ctx, actionType, time.Since(start))
		s.touch()

		out = next.Clone()
	})
	return out
}

func (s *Store) persist(ctx context.Context, next session.State, action session.Action) {
	writes, err := session.PersistencePlan(next, action)
	if err != nil {
		s.logger.Warn("Failed to encode session state", zap.String("action", string(action.Type())), zap.Error(err))
		s.metrics.RecordPersistFailure(ctx, string(action.Type()))
		return
	}

	for _, w := range writes {
		var werr error
		if w.Delete {
			werr = s.storage.Delete(ctx, w.Key)
		} else {
			werr = s.storage.Set(ctx, w.Key, w.Value)
		}
		if werr != nil {
			s.logger.Warn("Failed to persist session key",
				zap.String("key", w.Key),
				zap.Bool("delete", w.Delete),
				zap.Error(werr),
			)
			s.metrics.RecordPersistFailure(ctx, w.Key)
		}
	}
}

func (s *Store) touch() {
	s.lastAccess.Store(time.Now().UnixNano())
}

func (s *Store) idleSince() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// LoadSnapshot reads the persisted keys of one session. Missing keys, read
// failures and malformed values all fall back to defaults; problems are logged.
func LoadSnapshot(ctx context.Context, storage session.Storage, logger *zap.Logger) session.State {
	raw := make(map[string]string, len(session.PersistedKeys))
	for _, key := range session.PersistedKeys {
		value, found, err := storage.Get(ctx, key)
		if err != nil {
			logger.Warn("Failed to read session key", zap.String("key", key), zap.Error(err))
			continue
		}
		if found {
			raw[key] = value
		}
	}

	state, err := session.DecodeSnapshot(raw)
	if err != nil {
		logger.Warn("Discarded malformed session values", zap.Error(err))
	}
	return state
}
