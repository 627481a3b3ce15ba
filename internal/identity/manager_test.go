package identity

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/otcheredev/axis-clinic-core/internal/models"
	"github.com/otcheredev/axis-clinic-core/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore(0)
	defer backend.Close()
	m := NewManager(backend, zerolog.Nop(), nil)

	a, err := m.Store("session-a")
	require.NoError(t, err)
	b, err := m.Store("session-b")
	require.NoError(t, err)

	_, _, err = a.SetRole(ctx, models.RoleDoctor)
	require.NoError(t, err)
	a.SetActiveDoctor(ctx, "dr-chen")

	assert.Equal(t, models.DefaultIdentity(), b.Get(ctx))

	v, ok, _ := backend.Read(ctx, "session:session-a:axis-role")
	assert.True(t, ok)
	assert.Equal(t, "doctor", v)
	assert.Equal(t, 2, m.Sessions())
}

func TestManagerReturnsSameStore(t *testing.T) {
	m := NewManager(nil, zerolog.Nop(), nil)

	a1, err := m.Store("abc")
	require.NoError(t, err)
	a2, err := m.Store(" abc ")
	require.NoError(t, err)
	assert.Same(t, a1, a2)
}

func TestManagerRejectsEmptySession(t *testing.T) {
	m := NewManager(nil, zerolog.Nop(), nil)
	_, err := m.Store("  ")
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestManagerForgetRehydrates(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore(0)
	defer backend.Close()
	m := NewManager(backend, zerolog.Nop(), nil)

	s, err := m.Store("abc")
	require.NoError(t, err)
	_, _, err = s.SetRole(ctx, models.RoleAdmin)
	require.NoError(t, err)

	m.Forget("abc")
	assert.Equal(t, 0, m.Sessions())

	s2, err := m.Store("abc")
	require.NoError(t, err)
	assert.NotSame(t, s, s2)
	assert.Equal(t, models.RoleAdmin, s2.Get(ctx).Role)
	assert.NoError(t, m.Ping(ctx))
}

type fakeClock struct {
	ns atomic.Int64
}

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.ns.Store(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).UnixNano())
	return c
}

func (c *fakeClock) now() time.Time {
	return time.Unix(0, c.ns.Load())
}

func (c *fakeClock) advance(d time.Duration) {
	c.ns.Add(int64(d))
}

func withClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func TestManagerEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore(0)
	defer backend.Close()
	clock := newFakeClock()
	m := NewManager(backend, zerolog.Nop(), nil, WithIdleTimeout(30*time.Minute), withClock(clock.now))
	defer m.Close()

	a, err := m.Store("a")
	require.NoError(t, err)
	b, err := m.Store("b")
	require.NoError(t, err)
	_, _, err = b.SetRole(ctx, models.RoleAdmin)
	require.NoError(t, err)

	clock.advance(20 * time.Minute)
	_, err = m.Store("a")
	require.NoError(t, err)
	clock.advance(20 * time.Minute)

	assert.Equal(t, 1, m.EvictIdle())
	assert.Equal(t, 1, m.Sessions())

	a2, err := m.Store("a")
	require.NoError(t, err)
	assert.Same(t, a, a2)

	b2, err := m.Store("b")
	require.NoError(t, err)
	assert.NotSame(t, b, b2)
	assert.Equal(t, models.RoleAdmin, b2.Get(ctx).Role)
}

func TestManagerWithoutIdleTimeoutKeepsSessions(t *testing.T) {
	m := NewManager(nil, zerolog.Nop(), nil)
	defer m.Close()

	_, err := m.Store("a")
	require.NoError(t, err)
	assert.Equal(t, 0, m.EvictIdle())
	assert.Equal(t, 1, m.Sessions())
}

func TestManagerEvictsLeastRecentlyUsed(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(nil, zerolog.Nop(), nil, WithMaxSessions(2), withClock(clock.now))

	a, err := m.Store("a")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = m.Store("b")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = m.Store("a")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = m.Store("c")
	require.NoError(t, err)

	assert.Equal(t, 2, m.Sessions())
	a2, err := m.Store("a")
	require.NoError(t, err)
	assert.Same(t, a, a2)
}

func TestManagerStaysBoundedUnderSessionChurn(t *testing.T) {
	m := NewManager(nil, zerolog.Nop(), nil, WithMaxSessions(100))

	for i := 0; i < 10000; i++ {
		_, err := m.Store(fmt.Sprintf("session-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 100, m.Sessions())
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	m := NewManager(nil, zerolog.Nop(), nil, WithIdleTimeout(time.Minute))
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}
