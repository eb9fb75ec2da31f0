// Package cache provides a small in-memory TTL cache used to keep
// recently assembled activity views hot, mirroring the five minute
// cache the dashboard applies to its data loaders.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// entry is a stored value with its expiry deadline.
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Store is a mutex-guarded TTL cache. Values expire after the store's TTL
// and are removed by a background cleanup goroutine.
type Store struct {
	// entries maps cache keys to stored values
	entries map[string]entry

	// ttl is how long a value stays valid after Set
	ttl time.Duration

	// maxEntries caps the map size to bound memory use
	maxEntries int

	// mu protects concurrent access to the entries map
	mu sync.RWMutex

	// stop terminates the cleanup goroutine
	stop chan struct{}
}

// NewStore creates a new TTL cache.
//
// Parameters:
//   - ttl: How long values stay valid
//   - cleanupInterval: How often expired values are removed
//   - maxEntries: Upper bound on stored values (0 means 1024)
//
// Returns:
//   - A configured cache store with its cleanup routine running
func NewStore(ttl, cleanupInterval time.Duration, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 1024
	}

	store := &Store{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}

	go store.cleanupRoutine(cleanupInterval)

	return store
}

// Get returns the cached value for key, or false when the key is absent
// or expired.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	e, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key with the store's TTL. When the cache is
// full the whole map is reset rather than evicting one entry; cached
// views are cheap to rebuild from the database.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxEntries {
		log.Warn().Int("entries", len(s.entries)).Msg("Cache store full, resetting")
		s.entries = make(map[string]entry)
	}

	s.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Delete removes a single key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Flush removes all cached values.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Len returns the number of stored values, including ones that expired
// but have not been cleaned up yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine.
func (s *Store) Close() {
	close(s.stop)
}

// cleanupRoutine periodically removes expired entries to prevent the map
// from growing with one-off query shapes. Runs in its own goroutine.
func (s *Store) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

// cleanup removes entries whose deadline has passed.
func (s *Store) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}
