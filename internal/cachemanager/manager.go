// Package cachemanager wraps go-cache behind a typed interface and adds a
// read-through helper for values that are expensive to derive from an input.
package cachemanager

import "time"

// CacheManager is a typed key/value cache with per-entry expiration.
type CacheManager[K ~string, V any] interface {
	Get(key K) (V, bool)
	GetWithRefresh(key K, ttl time.Duration) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(keys ...K)
	Flush()
	ItemCount() int
}
