package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    []byte
	fresh    bool
	storedAt time.Time
}

// MemoryBackend keeps entries in process, grouped by entity. Invalidation
// flips the fresh flag instead of deleting.
type MemoryBackend struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]map[string]*memoryEntry
}

// NewMemoryBackend returns a backend whose entries expire after ttl; zero means never.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]map[string]*memoryEntry),
	}
}

func (b *MemoryBackend) Get(_ context.Context, key Key) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.entries[key.Entity][key.Filter]
	if !ok || !entry.fresh {
		return nil, false, nil
	}
	if b.ttl > 0 && b.now().Sub(entry.storedAt) > b.ttl {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key Key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	byFilter, ok := b.entries[key.Entity]
	if !ok {
		byFilter = make(map[string]*memoryEntry)
		b.entries[key.Entity] = byFilter
	}
	byFilter[key.Filter] = &memoryEntry{value: value, fresh: true, storedAt: b.now()}
	return nil
}

func (b *MemoryBackend) Invalidate(_ context.Context, entity string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, entry := range b.entries[entity] {
		entry.fresh = false
	}
	return nil
}
