// Package identity keeps track of who a session is acting as.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/otcheredev/axis-clinic-core/internal/models"
	"github.com/otcheredev/axis-clinic-core/internal/storage"
	"github.com/rs/zerolog"
)

// Persisted keys, relative to the store's namespace
const (
	RoleKey         = "axis-role"
	ActiveDoctorKey = "axis-active-doctor-id"
)

// FailureRecorder is told about every persistence failure
type FailureRecorder interface {
	ObservePersistenceFailure(op string)
}

// Store is the single source of truth for a session's acting identity.
// Every method is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend storage.Store
	current models.Identity
	loaded  bool

	// rolePersisted is set once the backend holds the current role
	rolePersisted bool

	// persistent is cleared after the first I/O failure, from then on
	// the identity lives in memory only
	persistent bool
	warning    error

	logger   zerolog.Logger
	failures FailureRecorder
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithFailureRecorder sets where persistence failures are counted
func WithFailureRecorder(r FailureRecorder) Option {
	return func(s *Store) { s.failures = r }
}

// NewStore creates a store persisting through backend. A nil backend gives
// an in-memory store.
func NewStore(backend storage.Store, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		current:    models.DefaultIdentity(),
		persistent: backend != nil,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current identity, loading it from the backend on first use
func (s *Store) Get(ctx context.Context) models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	return s.current
}

// SetRole switches role and returns the identity before and after the change.
// Leaving the doctor role clears the active doctor in the same step, and
// entering it always starts without one.
func (s *Store) SetRole(ctx context.Context, role models.Role) (prev, next models.Identity, err error) {
	if !role.Valid() {
		return models.Identity{}, models.Identity{}, fmt.Errorf("%w: %q", models.ErrInvalidRole, string(role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	prev = s.current
	if prev.Role == role {
		if !s.rolePersisted {
			s.writeRoleLocked(ctx, role)
		}
		return prev, s.current, nil
	}

	// the doctor key goes first so the role never sits next to a stale doctor
	if prev.ActiveDoctorID != "" || role == models.RoleDoctor {
		s.removeLocked(ctx, ActiveDoctorKey)
	}
	s.current = models.Identity{Role: role}
	s.writeRoleLocked(ctx, role)

	return prev, s.current, nil
}

// SetActiveDoctor picks the doctor a doctor-role session is scoped to and
// returns the identity before and after. An empty id clears it. Outside the
// doctor role the call is accepted but has no effect, it never switches role.
func (s *Store) SetActiveDoctor(ctx context.Context, doctorID models.DoctorID) (prev, next models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	prev = s.current
	if s.current.Role != models.RoleDoctor {
		if doctorID != "" {
			s.logger.Debug().
				Str("role", s.current.Role.String()).
				Str("doctor_id", string(doctorID)).
				Msg("Ignoring active doctor outside doctor role")
		}
		return prev, s.current
	}
	if s.current.ActiveDoctorID == doctorID {
		return prev, s.current
	}

	s.current.ActiveDoctorID = doctorID
	if doctorID == "" {
		s.removeLocked(ctx, ActiveDoctorKey)
	} else {
		s.writeLocked(ctx, ActiveDoctorKey, string(doctorID))
	}

	return prev, s.current
}

// Persistent reports whether changes still reach the backend
func (s *Store) Persistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistent
}

// Warning returns the failure that switched the store to memory-only, if any
func (s *Store) Warning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

func (s *Store) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	if !s.persistent {
		return
	}

	rawRole, ok, err := s.backend.Read(ctx, RoleKey)
	if err != nil {
		s.degradeLocked("read", err)
		return
	}
	if !ok {
		s.dropOrphanDoctorLocked(ctx)
		return
	}

	role, err := models.ParseRole(rawRole)
	if err != nil {
		s.logger.Warn().Str("value", rawRole).Msg("Ignoring unrecognized persisted role")
		s.dropOrphanDoctorLocked(ctx)
		return
	}
	s.current = models.Identity{Role: role}
	s.rolePersisted = true

	rawDoctor, ok, err := s.backend.Read(ctx, ActiveDoctorKey)
	if err != nil {
		s.degradeLocked("read", err)
		return
	}
	if !ok || rawDoctor == "" {
		return
	}
	if role != models.RoleDoctor {
		s.logger.Warn().
			Str("role", role.String()).
			Str("doctor_id", rawDoctor).
			Msg("Dropping persisted doctor for non-doctor role")
		s.removeLocked(ctx, ActiveDoctorKey)
		return
	}
	s.current.ActiveDoctorID = models.DoctorID(rawDoctor)
}

// dropOrphanDoctorLocked removes a doctor key left without a usable role,
// e.g. after the role key expired first
func (s *Store) dropOrphanDoctorLocked(ctx context.Context) {
	rawDoctor, ok, err := s.backend.Read(ctx, ActiveDoctorKey)
	if err != nil {
		s.degradeLocked("read", err)
		return
	}
	if !ok {
		return
	}
	s.logger.Warn().Str("doctor_id", rawDoctor).Msg("Dropping persisted doctor without a role")
	s.removeLocked(ctx, ActiveDoctorKey)
}

func (s *Store) writeRoleLocked(ctx context.Context, role models.Role) {
	s.writeLocked(ctx, RoleKey, string(role))
	s.rolePersisted = s.persistent
}

func (s *Store) writeLocked(ctx context.Context, key, value string) {
	if !s.persistent {
		return
	}
	if err := s.backend.Write(ctx, key, value); err != nil {
		s.degradeLocked("write", err)
	}
}

func (s *Store) removeLocked(ctx context.Context, key string) {
	if !s.persistent {
		return
	}
	if err := s.backend.Remove(ctx, key); err != nil {
		s.degradeLocked("remove", err)
	}
}

func (s *Store) degradeLocked(op string, err error) {
	s.persistent = false
	s.warning = fmt.Errorf("identity persistence %s failed, continuing in memory: %w", op, err)
	s.logger.Warn().Err(err).Str("op", op).Msg("Identity persistence failed, falling back to memory")
	if s.failures != nil {
		s.failures.ObservePersistenceFailure(op)
	}
}
