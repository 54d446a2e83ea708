package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a typed in-memory TTL cache. A nil *Store is valid and caches nothing.
type Store[T any] struct {
	c *gocache.Cache
}

// New returns a Store whose entries live for ttl. A non-positive ttl returns
// nil, which disables caching.
func New[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		return nil
	}
	cleanup := ttl / 4
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store[T]{c: gocache.New(ttl, cleanup)}
}

func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	v, ok := s.c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func (s *Store[T]) Set(key string, value T) {
	if s == nil {
		return
	}
	s.c.SetDefault(key, value)
}

func (s *Store[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.c.ItemCount()
}
