package caches

import (
	"sync"
)

// Cache memoizes values by key. Concurrent loads of the same key run the loader only once.
// Failed loads are not kept, so a later Get retries them.
type Cache[K comparable, V any] struct {
	mutex sync.RWMutex
	m     map[K]*Lazy[V]
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		m: make(map[K]*Lazy[V], 1000),
	}
}

func (c *Cache[K, V]) Get(key K, loader func(K) (V, error)) (V, error) {
	c.mutex.RLock()
	val, ok := c.m[key]
	c.mutex.RUnlock()

	if !ok {
		c.mutex.Lock()
		val, ok = c.m[key]
		if !ok {
			val = NewLazy[V](func() (V, error) { return loader(key) })
			c.m[key] = val
		}
		c.mutex.Unlock()
	}

	result, err := val.Get()
	if err != nil {
		c.mutex.Lock()
		if c.m[key] == val {
			delete(c.m, key)
		}
		c.mutex.Unlock()
	}

	return result, err
}

func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mutex.RLock()
	val, ok := c.m[key]
	c.mutex.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}

	result, err := val.Get()
	return result, err == nil
}

func (c *Cache[K, V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.m)
}
