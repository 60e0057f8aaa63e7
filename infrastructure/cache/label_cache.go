package cache

import "sync"

// LabelCache caches rendered rack label PDFs by exact rack name. Entries rendered
// from an older snapshot generation are treated as misses.
type LabelCache struct {
	mu     sync.RWMutex
	labels map[string]labelEntry
}

type labelEntry struct {
	gen uint64
	pdf []byte
}

func NewLabelCache() *LabelCache {
	return &LabelCache{labels: make(map[string]labelEntry)}
}

func (c *LabelCache) Add(rack string, gen uint64, pdf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels[rack] = labelEntry{gen: gen, pdf: pdf}
}

func (c *LabelCache) Get(rack string, gen uint64) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.labels[rack]
	if !ok || e.gen != gen {
		return nil, false
	}
	return e.pdf, true
}

// Len is the number of cached racks.
func (c *LabelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.labels)
}
