package layout

import (
	"sort"
	"strings"
)

// Field selects which occupancy attribute a location search matches against.
type Field string

const (
	FieldPallet  Field = "pallet"
	FieldInvoice Field = "invoice"
	FieldLot     Field = "lot"
	FieldItem    Field = "item"
)

// ParseField maps a request value to a Field, defaulting to the pallet number.
func ParseField(v string) Field {
	switch Field(strings.ToLower(strings.TrimSpace(v))) {
	case FieldInvoice:
		return FieldInvoice
	case FieldLot:
		return FieldLot
	case FieldItem:
		return FieldItem
	default:
		return FieldPallet
	}
}

func (f Field) value(rec OccupancyRecord) string {
	switch f {
	case FieldInvoice:
		return rec.InvoiceNo
	case FieldLot:
		return rec.LotNo
	case FieldItem:
		return rec.ItemCode
	default:
		return rec.PalletNo
	}
}

// StringSet is a set of rack names.
type StringSet map[string]struct{}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// KeySet is a set of location keys.
type KeySet map[Key]struct{}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// HasLocation reports whether either key of the location is in the set.
func (s KeySet) HasLocation(ident Ident) bool {
	if k, ok := IDKey(ident); ok && s.Has(k) {
		return true
	}
	if k, ok := CodeKey(ident); ok && s.Has(k) {
		return true
	}
	return false
}

// Sorted returns the members in lexical order.
func (s KeySet) Sorted() []Key {
	out := make([]Key, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HighlightRacks returns the names of racks containing query, case-insensitively.
// An empty query highlights nothing.
func HighlightRacks(query string, records []LocationRecord) StringSet {
	out := make(StringSet)
	q := normalizeQuery(query)
	if q == "" {
		return out
	}
	for _, rec := range records {
		rack := strings.TrimSpace(rec.Rack)
		if rack == "" {
			continue
		}
		if strings.Contains(strings.ToLower(rack), q) {
			out[rack] = struct{}{}
		}
	}
	return out
}

// HighlightLocations returns keys whose occupancy has a pallet number
// containing query.
func HighlightLocations(query string, idx *Index) KeySet {
	return HighlightLocationsBy(query, idx, FieldPallet)
}

// HighlightLocationsBy is HighlightLocations over a chosen field.
func HighlightLocationsBy(query string, idx *Index, field Field) KeySet {
	out := make(KeySet)
	q := normalizeQuery(query)
	if q == "" {
		return out
	}
	idx.each(func(k Key, bucket []OccupancyRecord) {
		for _, rec := range bucket {
			if strings.Contains(strings.ToLower(field.value(rec)), q) {
				out[k] = struct{}{}
				return
			}
		}
	})
	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
