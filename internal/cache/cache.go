package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Cache defines the interface for caching services.
type Cache interface {
	// Get returns the cached value, or "" when the key does not exist.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr increments a counter, starting its expiry window on first use.
	// Used for fixed-window rate limiting.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// memoryEntry holds one cached value and its expiry deadline.
type memoryEntry struct {
	value     string
	counter   int64
	expiresAt time.Time
}

// MemoryCache is an in-process implementation of the Cache interface. It is
// used when no Redis address is configured and in tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates a new MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCache) live(key string) *memoryEntry {
	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil
	}
	return entry
}

// Get retrieves a value from the in-process map.
func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.live(key)
	if entry == nil {
		return "", nil
	}
	return entry.value, nil
}

// Set stores a value in the in-process map.
func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := &memoryEntry{value: toString(value)}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}
	m.entries[key] = entry
	return nil
}

// Delete removes a value from the in-process map.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Incr increments a counter, starting its window on the first increment.
func (m *MemoryCache) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.live(key)
	if entry == nil {
		entry = &memoryEntry{}
		if window > 0 {
			entry.expiresAt = m.now().Add(window)
		}
		m.entries[key] = entry
	}
	entry.counter++
	return entry.counter, nil
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
