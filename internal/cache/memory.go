package cache

import (
	"context"
	"sync"
	"time"
)

// maxMemoryEntries caps the in-memory cache to bound growth under
// long-running dashboards.
const maxMemoryEntries = 10000

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache backend.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemory creates an in-memory backend. A zero TTL means entries
// never expire.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= maxMemoryEntries {
		m.sweepLocked()
	}

	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = time.Now().Add(m.ttl)
	}
	m.entries[key] = memoryEntry{data: value, expiresAt: expiresAt}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// sweepLocked drops expired entries; if none are expired it drops an
// arbitrary entry to make room. Caller holds the lock.
func (m *Memory) sweepLocked() {
	now := time.Now()
	removed := false
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, k)
			removed = true
		}
	}
	if !removed {
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
}
