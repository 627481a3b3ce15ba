package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*memoryItem
	ttl  time.Duration
	done chan struct{}
	once sync.Once
}

type memoryItem struct {
	value      string
	expiration time.Time // zero means no expiry
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// NewMemoryStore creates a new in-memory store. A zero ttl keeps values forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	ms := &MemoryStore{
		data: make(map[string]*memoryItem),
		ttl:  ttl,
		done: make(chan struct{}),
	}

	if ttl > 0 {
		go ms.cleanup(time.Minute)
	}

	return ms
}

// Read retrieves a value
func (m *MemoryStore) Read(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, exists := m.data[key]
	if !exists || item.expired(time.Now()) {
		return "", false, nil
	}

	return item.value, true, nil
}

// Write stores a value
func (m *MemoryStore) Write(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := &memoryItem{value: value}
	if m.ttl > 0 {
		item.expiration = time.Now().Add(m.ttl)
	}
	m.data[key] = item

	return nil
}

// Remove deletes a value
func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of live entries
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	n := 0
	for _, item := range m.data {
		if !item.expired(now) {
			n++
		}
	}
	return n
}

// cleanup periodically removes expired items
func (m *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, item := range m.data {
				if item.expired(now) {
					delete(m.data, key)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}
