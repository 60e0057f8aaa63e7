package cache

import (
	"sync"
	"testing"
)

type stamped struct {
	gen  uint64
	name string
}

func (s stamped) Gen() uint64 { return s.gen }

func TestLatest_DiscardsStaleValues(t *testing.T) {
	c := NewLatest[stamped]()
	if _, ok := c.Get(); ok {
		t.Fatalf("expected empty cache")
	}
	if !c.Offer(stamped{gen: 2, name: "second"}) {
		t.Fatalf("first offer must be stored")
	}
	if c.Offer(stamped{gen: 1, name: "first"}) {
		t.Fatalf("older generation must be discarded")
	}
	if c.Offer(stamped{gen: 2, name: "dup"}) {
		t.Fatalf("equal generation must be discarded")
	}
	got, ok := c.Get()
	if !ok || got.name != "second" {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestLatest_ConcurrentOffersKeepNewest(t *testing.T) {
	c := NewLatest[stamped]()
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(gen uint64) {
			defer wg.Done()
			c.Offer(stamped{gen: gen})
		}(uint64(i))
	}
	wg.Wait()
	if got, _ := c.Get(); got.gen != 50 {
		t.Fatalf("expected newest generation 50, got %d", got.gen)
	}
}

func TestLabelCache_GenerationMismatchMisses(t *testing.T) {
	c := NewLabelCache()
	c.Add("C1", 3, []byte("%PDF"))
	if _, ok := c.Get("C1", 3); !ok {
		t.Fatalf("expected hit for the same generation")
	}
	if _, ok := c.Get("C1", 4); ok {
		t.Fatalf("expected miss for newer generation")
	}
	if c.Len() != 1 {
		t.Fatalf("expected one entry, got %d", c.Len())
	}

	c.Add("c1", 3, []byte("%PDF-lower"))
	upper, _ := c.Get("C1", 3)
	lower, _ := c.Get("c1", 3)
	if string(upper) != "%PDF" || string(lower) != "%PDF-lower" {
		t.Fatalf("racks differing only in case must not share an entry: %q %q", upper, lower)
	}
}
