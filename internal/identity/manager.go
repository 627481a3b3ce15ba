package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/otcheredev/axis-clinic-core/internal/storage"
	"github.com/rs/zerolog"
)

// ErrMissingSession is returned for an empty session id
var ErrMissingSession = errors.New("session id is required")

type session struct {
	store    *Store
	lastSeen atomic.Int64 // unix nanos
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Manager hands out one Store per session, all persisting through a shared
// backend under a per-session key namespace. Idle sessions are dropped from
// memory and rehydrate from the backend on their next request.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	backend  storage.Store
	logger   zerolog.Logger
	failures FailureRecorder

	idleTimeout time.Duration
	maxSessions int
	now         func() time.Time

	done chan struct{}
	once sync.Once
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithIdleTimeout drops sessions unused for longer than d. Zero keeps them.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleTimeout = d }
}

// WithMaxSessions caps the sessions held in memory, evicting the least
// recently used one when full. Zero means no cap.
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) { m.maxSessions = n }
}

// NewManager creates a manager over backend. With an idle timeout it runs a
// janitor until Close.
func NewManager(backend storage.Store, logger zerolog.Logger, failures FailureRecorder, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*session),
		backend:  backend,
		logger:   logger,
		failures: failures,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.idleTimeout > 0 {
		every := m.idleTimeout / 2
		if every < time.Second {
			every = time.Second
		}
		go m.janitor(every)
	}

	return m
}

// Store gets or creates the store for a session
func (m *Manager) Store(sessionID string) (*Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	now := m.now()

	m.mu.RLock()
	s, exists := m.sessions[sessionID]
	m.mu.RUnlock()

	if exists {
		s.touch(now)
		return s.store, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if s, exists := m.sessions[sessionID]; exists {
		s.touch(now)
		return s.store, nil
	}

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.evictOldestLocked()
	}

	var backend storage.Store
	if m.backend != nil {
		backend = storage.Prefixed(m.backend, storage.Key("session", sessionID))
	}

	s = &session{
		store: NewStore(backend,
			WithLogger(m.logger.With().Str("session_id", sessionID).Logger()),
			WithFailureRecorder(m.failures),
		),
	}
	s.touch(now)
	m.sessions[sessionID] = s
	return s.store, nil
}

// Forget drops the in-memory store for a session. Persisted values stay, so
// the next Store call rehydrates them.
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Sessions returns the number of sessions held in memory
func (m *Manager) Sessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EvictIdle drops every session unused for longer than the idle timeout and
// returns how many were dropped
func (m *Manager) EvictIdle() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTimeout).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Load() < cutoff {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) evictOldestLocked() {
	var (
		oldestID string
		oldestAt int64
	)
	for id, s := range m.sessions {
		seen := s.lastSeen.Load()
		if oldestID == "" || seen < oldestAt {
			oldestID, oldestAt = id, seen
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		m.logger.Debug().Str("session_id", oldestID).Msg("Evicted least recently used session")
	}
}

func (m *Manager) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.EvictIdle(); n > 0 {
				m.logger.Debug().Int("evicted", n).Msg("Evicted idle sessions")
			}
		case <-m.done:
			return
		}
	}
}

// Ping checks the shared backend
func (m *Manager) Ping(ctx context.Context) error {
	if m.backend == nil {
		return nil
	}
	return m.backend.Ping(ctx)
}

// Close stops the janitor. The backend is left open.
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}
