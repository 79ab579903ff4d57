// Package cache provides the read-through response cache used by the feed
// controllers.
//
// The cache is an optimization, never a correctness dependency: every read,
// parse, or write failure falls through to the network. The backing store is
// injected so the fetcher can run headless in tests with a fake store, or
// with no store at all.
package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Get when the key has no entry.
var ErrNotFound = errors.New("cache: key not found")

// Store is the minimal key-value contract a cache backend must satisfy.
// Values are opaque bytes; keys are caller-chosen opaque strings.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Entry is the envelope written to the store: the raw payload plus the
// time it was fetched, in unix milliseconds. An entry is valid only while
// now - Timestamp < ttl; stale entries are treated as absent.
type Entry struct {
	Timestamp int64  `json:"timestamp"`
	Payload   []byte `json:"payload"`
}

// MemoryStore is an in-process Store. It backs the default cache and the
// tests. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.entries[key] = v
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}
