package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type memoryEntry struct {
	value      []byte
	insertedAt time.Time
	ttl        time.Duration
}

// Memory is the in-process Store. The keyed domain is small and finite
// (islands × data types), so expired entries are kept for stale reads and
// no eviction beyond overwrite is needed.
type Memory struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory creates an in-memory store. Pass nil to use the real clock;
// tests inject a fake for deterministic TTL behavior.
func NewMemory(clock clockwork.Clock) *Memory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memory{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.clock.Since(e.insertedAt) >= e.ttl {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) GetStale(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:      value,
		insertedAt: m.clock.Now(),
		ttl:        ttl,
	}
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	return nil
}
