package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReadWriteRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()

	_, ok, err := s.Read(ctx, "axis-role")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "axis-role", "doctor"))
	v, ok, err := s.Read(ctx, "axis-role")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "doctor", v)

	require.NoError(t, s.Write(ctx, "axis-role", "owner"))
	v, _, _ = s.Read(ctx, "axis-role")
	assert.Equal(t, "owner", v)

	require.NoError(t, s.Remove(ctx, "axis-role"))
	_, ok, _ = s.Read(ctx, "axis-role")
	assert.False(t, ok)

	// removing a missing key is fine
	require.NoError(t, s.Remove(ctx, "axis-role"))
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20 * time.Millisecond)
	defer s.Close()

	require.NoError(t, s.Write(ctx, "k", "v"))
	assert.Equal(t, 1, s.Len())

	time.Sleep(40 * time.Millisecond)

	_, ok, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreCloseTwice(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestPrefixedStore(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore(0)
	defer base.Close()

	a := Prefixed(base, "session:a")
	b := Prefixed(base, "session:b")

	require.NoError(t, a.Write(ctx, "axis-role", "doctor"))
	require.NoError(t, b.Write(ctx, "axis-role", "admin"))

	v, ok, _ := base.Read(ctx, "session:a:axis-role")
	assert.True(t, ok)
	assert.Equal(t, "doctor", v)

	v, _, _ = b.Read(ctx, "axis-role")
	assert.Equal(t, "admin", v)

	require.NoError(t, a.Remove(ctx, "axis-role"))
	_, ok, _ = a.Read(ctx, "axis-role")
	assert.False(t, ok)
	_, ok, _ = b.Read(ctx, "axis-role")
	assert.True(t, ok)

	// closing a view leaves the base usable
	require.NoError(t, a.Close())
	require.NoError(t, base.Ping(ctx))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "session:abc:axis-role", Key("session", "abc", "axis-role"))
	assert.Equal(t, "axis-role", Key("", "axis-role"))
	assert.Equal(t, "", Key())
}
