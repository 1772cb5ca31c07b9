package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Memory is the in-process backend: a mutex-guarded map with pure
// elapsed-time expiry. There is no size-based eviction; the key space
// is a handful of views times page numbers.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}

	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)

		return nil, false
	}

	return entry.payload, true
}

func (m *Memory) Put(_ context.Context, key string, payload []byte, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		payload:   payload,
		expiresAt: now.Add(ttl),
	}

	m.evictExpiredLocked(now)
}

func (m *Memory) InvalidateAll(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.entries)
}

func (m *Memory) evictExpiredLocked(now time.Time) {
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}
