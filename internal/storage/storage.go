package storage

import (
	"context"
	"strings"
)

// Store is the key/value collaborator that session identity persists through
type Store interface {
	// Read returns the stored value and whether it was present
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key joins non-empty parts with ':'
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ":")
}

// PrefixedStore namespaces every key of an underlying store
type PrefixedStore struct {
	inner  Store
	prefix string
}

// Prefixed returns a view of inner where every key is prefixed with prefix and ':'
func Prefixed(inner Store, prefix string) *PrefixedStore {
	return &PrefixedStore{inner: inner, prefix: prefix}
}

func (p *PrefixedStore) key(k string) string {
	return Key(p.prefix, k)
}

func (p *PrefixedStore) Read(ctx context.Context, key string) (string, bool, error) {
	return p.inner.Read(ctx, p.key(key))
}

func (p *PrefixedStore) Write(ctx context.Context, key, value string) error {
	return p.inner.Write(ctx, p.key(key), value)
}

func (p *PrefixedStore) Remove(ctx context.Context, key string) error {
	return p.inner.Remove(ctx, p.key(key))
}

func (p *PrefixedStore) Ping(ctx context.Context) error {
	return p.inner.Ping(ctx)
}

// Close is a no-op, the underlying store is owned by whoever created it
func (p *PrefixedStore) Close() error {
	return nil
}
