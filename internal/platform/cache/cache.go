package cache

import (
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is an in-memory TTL cache for computed analytics results.
type Store struct {
	cache *gocache.Cache
}

// New creates a Store with the given default TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Store {
	return &Store{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (s *Store) Get(key string) (interface{}, bool) {
	return s.cache.Get(key)
}

// Set stores a value in the cache with the given TTL. A zero TTL uses
// the store's default.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	s.cache.Set(key, value, ttl)
}

// Delete removes a value from the cache.
func (s *Store) Delete(key string) {
	s.cache.Delete(key)
}

// Flush removes all values from the cache.
func (s *Store) Flush() {
	s.cache.Flush()
}

// GetJSON retrieves a JSON-encoded value and unmarshals it into out.
func (s *Store) GetJSON(key string, out interface{}) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}
	data, ok := val.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON marshals v and stores it under key. Marshal failures are dropped;
// the cache is an optimization, never a source of truth.
func (s *Store) SetJSON(key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Set(key, data, ttl)
}
