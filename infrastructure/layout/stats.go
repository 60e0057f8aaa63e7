package layout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a rack family reported in the statistics table.
type Category string

// Only these two families are reported. Racks whose names start with any
// other character are left out of the statistics.
const (
	CategoryC Category = "C"
	CategoryB Category = "B"
)

// Categories lists the reported families in display order.
var Categories = []Category{CategoryC, CategoryB}

// Stat is the occupancy of one category.
type Stat struct {
	Total      int    `json:"total"`
	Used       int    `json:"used"`
	Empty      int    `json:"empty"`
	Percentage string `json:"percentage"`
}

// Stats maps each category to its occupancy. Every category is present.
type Stats map[Category]Stat

// CategoryOf classifies a rack name. ok is false for unreported names.
func CategoryOf(rack string) (Category, bool) {
	rack = strings.ToUpper(strings.TrimSpace(rack))
	if rack == "" {
		return "", false
	}
	for _, c := range Categories {
		if strings.HasPrefix(rack, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ComputeStats counts used and empty slots per category. Placeholder cells
// with no item are not counted.
func ComputeStats(pieces []BoardPiece, idx *Index) Stats {
	counts := make(map[Category]*Stat, len(Categories))
	for _, c := range Categories {
		counts[c] = &Stat{}
	}
	for _, p := range pieces {
		if p.Item == nil {
			continue
		}
		rack := p.Rack
		if rack == "" {
			rack = p.Item.Rack
		}
		c, ok := CategoryOf(rack)
		if !ok {
			continue
		}
		st := counts[c]
		st.Total++
		if idx.Has(p.Item.Ident) {
			st.Used++
		}
	}

	out := make(Stats, len(counts))
	for c, st := range counts {
		st.Empty = st.Total - st.Used
		st.Percentage = Percentage(st.Used, st.Total)
		out[c] = *st
	}
	return out
}

// Percentage formats used/total*100 with two decimals, "0.00" when total is 0.
func Percentage(used, total int) string {
	if total <= 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(int64(used)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		StringFixed(2)
}
