package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore is an in-memory Store with TTL expiry and strict
// insertion-order (FIFO) capacity eviction. Reads do not bump entries;
// expired entries are removed lazily on lookup.
//
// MemoryStore is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string]*list.Element
	order *list.List // oldest insertion at the front

	maxSize    int
	defaultTTL time.Duration

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryConfig holds configuration for MemoryStore.
type MemoryConfig struct {
	MaxSize    int           // maximum number of entries (default: 100)
	DefaultTTL time.Duration // default entry lifetime (default: 24h)
}

// DefaultMemoryConfig returns the stock sizing.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		MaxSize:    100,
		DefaultTTL: 24 * time.Hour,
	}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 24 * time.Hour
	}

	return &MemoryStore{
		data:       make(map[string]*list.Element),
		order:      list.New(),
		maxSize:    cfg.MaxSize,
		defaultTTL: cfg.DefaultTTL,
	}
}

// Get retrieves a value. An entry whose TTL has passed is treated as absent
// and removed.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.data[key]
	if !ok {
		s.misses.Add(1)
		return nil, nil
	}

	entry := elem.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		s.removeLocked(elem)
		s.misses.Add(1)
		return nil, nil
	}

	s.hits.Add(1)
	// Copy to prevent caller mutation of the stored value.
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a value. When the store is at capacity, the oldest-inserted
// entry still present is evicted first. Overwriting an existing key refreshes
// its insertion position.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.data[key]; ok {
		s.removeLocked(elem)
	}

	if len(s.data) >= s.maxSize {
		if oldest := s.order.Front(); oldest != nil {
			s.removeLocked(oldest)
			s.evictions.Add(1)
		}
	}

	elem := s.order.PushBack(&memoryEntry{
		key:       key,
		value:     stored,
		expiresAt: time.Now().Add(ttl),
	})
	s.data[key] = elem

	s.sets.Add(1)
	return nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.data[key]; ok {
		s.removeLocked(elem)
	}
	return nil
}

// Clear empties the store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]*list.Element)
	s.order.Init()
	return nil
}

// Close implements Store. The memory store holds no external resources.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of entries currently stored, including entries that
// have expired but not yet been looked up.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Stats returns cache counters.
func (s *MemoryStore) Stats() Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		Sets:      s.sets.Load(),
		Evictions: s.evictions.Load(),
		HitRate:   hitRate,
	}
}

func (s *MemoryStore) removeLocked(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	s.order.Remove(elem)
	delete(s.data, entry.key)
}
