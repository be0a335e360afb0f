package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tenantgate_authz_cache_requests_total",
		Help: "Cache lookups by cache name and result",
	},
	[]string{"cache", "result"},
)

// Loader fetches the value for key on a cache miss. It receives the caller's
// context, so a cancelled request cancels the pending lookup.
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

type entry[V any] struct {
	value    V
	storedAt time.Time
	// lastAccess is unix nanos, touched atomically on every hit so reads
	// stay under the shared read lock.
	lastAccess atomic.Int64
}

// Store is a read-heavy loader cache with an absolute TTL and a shorter idle
// refresh window: an entry expires at storedAt+ttl, or earlier if it has not
// been accessed for refresh. Entries are independent per key; racing misses
// for the same key resolve last-write-wins, since both writers compute the
// same value from the same source at nearly the same time.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[V]
	ttl     time.Duration
	refresh time.Duration
	name    string
}

// New creates a cache. name labels the metrics. ttl <= 0 defaults to 30m,
// refresh <= 0 to 10m.
func New[K comparable, V any](name string, ttl, refresh time.Duration) *Store[K, V] {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if refresh <= 0 {
		refresh = 10 * time.Minute
	}
	return &Store[K, V]{
		entries: make(map[K]*entry[V]),
		ttl:     ttl,
		refresh: refresh,
		name:    name,
	}
}

// Get returns the cached value for key, or invokes loader, stores the result
// and returns it. Loader errors are returned as-is and never cached; a
// successful not-found result (zero value, nil error) is cached like any
// other value so repeated probes for unknown keys do not hammer the store.
func (s *Store[K, V]) Get(ctx context.Context, key K, loader Loader[K, V]) (V, error) {
	if v, ok := s.lookup(key); ok {
		cacheRequests.WithLabelValues(s.name, "hit").Inc()
		return v, nil
	}
	cacheRequests.WithLabelValues(s.name, "miss").Inc()

	v, err := loader(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}

	e := &entry[V]{value: v, storedAt: time.Now()}
	e.lastAccess.Store(e.storedAt.UnixNano())
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return v, nil
}

func (s *Store[K, V]) lookup(key K) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	var zero V
	if !ok {
		return zero, false
	}
	now := time.Now()
	if now.Sub(e.storedAt) > s.ttl {
		s.evict(key, e)
		return zero, false
	}
	last := time.Unix(0, e.lastAccess.Load())
	if now.Sub(last) > s.refresh {
		s.evict(key, e)
		return zero, false
	}
	e.lastAccess.Store(now.UnixNano())
	return e.value, true
}

// evict removes key only if it still maps to the same entry, so an eviction
// never discards a fresher value written by a concurrent miss.
func (s *Store[K, V]) evict(key K, stale *entry[V]) {
	s.mu.Lock()
	if cur, ok := s.entries[key]; ok && cur == stale {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// Invalidate removes the entry for key immediately. It affects requests
// issued after the call; in-flight requests that already read the stale
// value are not retroactively corrected.
func (s *Store[K, V]) Invalidate(key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Purge drops every entry.
func (s *Store[K, V]) Purge() {
	s.mu.Lock()
	s.entries = make(map[K]*entry[V])
	s.mu.Unlock()
}

// Len reports the number of live entries, expired or not.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
