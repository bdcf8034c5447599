// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package cache

import (
	"sync"

	"github.com/luxfi/geth/common/lru"
)

// LRUCache memoizes values that never change for a key, such as contract
// proxies bound to an address.
type LRUCache[K comparable, V any] struct {
	cache *lru.Cache[K, V]
	lock  sync.Mutex
}

func NewLRUCache[K comparable, V any](size int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		cache: lru.NewCache[K, V](size),
	}
}

// Get returns the cached value for key, or builds it with fetchFunc and caches
// it. Errors are not cached.
func (c *LRUCache[K, V]) Get(key K, fetchFunc func(K) (V, error)) (V, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if value, found := c.cache.Get(key); found {
		return value, nil
	}
	value, err := fetchFunc(key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.cache.Add(key, value)
	return value, nil
}

// Len returns the number of cached values
func (c *LRUCache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.cache.Len()
}
