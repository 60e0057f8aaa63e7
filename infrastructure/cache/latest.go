// Package cache holds in-memory caches shared by request handlers.
package cache

import "sync"

// Versioned is anything stamped with a monotonically increasing generation.
type Versioned interface {
	Gen() uint64
}

// Latest keeps the newest value it has been offered. Values older than or
// equal to the stored generation are discarded, so a slow pass that finishes
// after a faster, newer one cannot overwrite it.
type Latest[T Versioned] struct {
	mu    sync.RWMutex
	value T
	set   bool
}

func NewLatest[T Versioned]() *Latest[T] {
	return &Latest[T]{}
}

// Offer stores v when it is newer than the current value and reports whether
// it was stored.
func (c *Latest[T]) Offer(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set && v.Gen() <= c.value.Gen() {
		return false
	}
	c.value = v
	c.set = true
	return true
}

// Get returns the stored value.
func (c *Latest[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.set
}
