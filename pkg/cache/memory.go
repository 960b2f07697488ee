package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	now        func() time.Time
	defaultTTL time.Duration
	maxEntries int
}

// WithDefaultTTL sets the expiry used when Set receives a zero ttl.
// Default: 5 minutes.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.defaultTTL = d
	}
}

// WithMaxEntries bounds the cache; the least recently used entry is evicted
// first. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) {
		c.maxEntries = max(n, 0)
	}
}

// WithMemoryClock overrides the time source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

type memoryEntry[V any] struct {
	expiresAt time.Time
	value     V
	key       string
}

// Memory is a process-local cache with TTL expiry and LRU eviction.
// Expired entries are dropped lazily on access.
type Memory[V any] struct {
	items map[string]*list.Element
	order *list.List
	cfg   memoryConfig
	mu    sync.Mutex
}

// NewMemory creates an empty in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{now: time.Now, defaultTTL: 5 * time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
		cfg:   cfg,
	}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	e := el.Value.(*memoryEntry[V])
	if !e.expiresAt.IsZero() && !m.cfg.now().Before(e.expiresAt) {
		m.remove(el)
		return zero, ErrNotFound
	}
	m.order.MoveToFront(el)
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = m.cfg.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.cfg.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		e := el.Value.(*memoryEntry[V])
		e.value, e.expiresAt = value, expiresAt
		m.order.MoveToFront(el)
		return nil
	}

	m.items[key] = m.order.PushFront(&memoryEntry[V]{key: key, value: value, expiresAt: expiresAt})
	if m.cfg.maxEntries > 0 && m.order.Len() > m.cfg.maxEntries {
		m.remove(m.order.Back())
	}
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		m.remove(el)
	}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// dropped.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory[V]) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*memoryEntry[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
