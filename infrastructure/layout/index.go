package layout

import (
	"log/slog"
	"sort"
)

// Index groups occupancy records by their resolved location key.
type Index struct {
	buckets map[Key][]OccupancyRecord
	dropped int
}

// BuildIndex indexes records by key. Records without a resolvable key are
// dropped and logged; the build itself never fails. Bucket order follows
// input order.
func BuildIndex(records []OccupancyRecord) *Index {
	idx := &Index{buckets: make(map[Key][]OccupancyRecord)}
	for _, rec := range records {
		k, ok := ResolveKey(rec.Ident)
		if !ok {
			idx.dropped++
			continue
		}
		idx.buckets[k] = append(idx.buckets[k], rec)
	}
	if idx.dropped > 0 {
		slog.Warn("occupancy records without location key dropped", slog.Int("dropped", idx.dropped), slog.Int("total", len(records)))
	}
	return idx
}

// Has reports whether any occupancy exists at the location under either its
// id-based or its code-based key.
func (idx *Index) Has(ident Ident) bool {
	if idx == nil {
		return false
	}
	if k, ok := IDKey(ident); ok {
		if len(idx.buckets[k]) > 0 {
			return true
		}
	}
	if k, ok := CodeKey(ident); ok {
		if len(idx.buckets[k]) > 0 {
			return true
		}
	}
	return false
}

// At returns every occupancy record at the location: the id bucket first,
// then the code bucket. The result is a copy.
func (idx *Index) At(ident Ident) []OccupancyRecord {
	out := make([]OccupancyRecord, 0)
	if idx == nil {
		return out
	}
	if k, ok := IDKey(ident); ok {
		out = append(out, idx.buckets[k]...)
	}
	if k, ok := CodeKey(ident); ok {
		out = append(out, idx.buckets[k]...)
	}
	return out
}

// Lookup returns a copy of the bucket stored under k.
func (idx *Index) Lookup(k Key) []OccupancyRecord {
	if idx == nil {
		return []OccupancyRecord{}
	}
	return append([]OccupancyRecord{}, idx.buckets[k]...)
}

// Keys returns the indexed keys in lexical order.
func (idx *Index) Keys() []Key {
	if idx == nil {
		return nil
	}
	keys := make([]Key, 0, len(idx.buckets))
	for k := range idx.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len is the number of distinct keys.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.buckets)
}

// Dropped is the number of records that had no resolvable key.
func (idx *Index) Dropped() int {
	if idx == nil {
		return 0
	}
	return idx.dropped
}

func (idx *Index) each(fn func(Key, []OccupancyRecord)) {
	if idx == nil {
		return
	}
	for k, bucket := range idx.buckets {
		fn(k, bucket)
	}
}
