package layout

import (
	"cmp"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// unparseableBay sorts bays that are neither a letter nor a number last.
const unparseableBay = 9999

var digitRun = regexp.MustCompile(`\d+`)

// RackGroup is one rack's slots in board order.
type RackGroup struct {
	Rack  string           `json:"rack"`
	Cols  int              `json:"cols"`
	Rows  int              `json:"rows"`
	Items []LocationRecord `json:"items"`
}

// GroupRacks partitions records by trimmed rack name, sorts each rack's slots
// and orders the racks for the board. Records with no rack are left out.
func GroupRacks(records []LocationRecord) []RackGroup {
	byRack := make(map[string][]LocationRecord)
	order := make([]string, 0)
	for _, rec := range records {
		rack := strings.TrimSpace(rec.Rack)
		if rack == "" {
			continue
		}
		if _, seen := byRack[rack]; !seen {
			order = append(order, rack)
		}
		byRack[rack] = append(byRack[rack], rec)
	}

	groups := make([]RackGroup, 0, len(order))
	for _, rack := range order {
		items := byRack[rack]
		sortSlots(items)

		cols := 1
		for _, it := range items {
			if it.SubLocation > cols {
				cols = it.SubLocation
			}
		}
		groups = append(groups, RackGroup{
			Rack:  rack,
			Cols:  cols,
			Rows:  (len(items) + cols - 1) / cols,
			Items: items,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return compareRacks(groups[i].Rack, groups[j].Rack) < 0
	})
	return groups
}

func sortSlots(items []LocationRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		return compareSlots(items[i], items[j]) < 0
	})
}

func compareSlots(a, b LocationRecord) int {
	if c := cmp.Compare(a.Shelf, b.Shelf); c != 0 {
		return c
	}
	if c := cmp.Compare(BayOrder(a.Bay), BayOrder(b.Bay)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SubBay, b.SubBay); c != 0 {
		return c
	}
	return naturalCompare(a.Code(), b.Code())
}

// BayOrder maps a bay label to its sort position: a single letter is its
// alphabet position (A=1 .. Z=26), anything else its numeric value, and
// unparseable labels sort last.
func BayOrder(bay string) float64 {
	bay = strings.TrimSpace(bay)
	if len(bay) == 1 {
		ch := bay[0]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch >= 'A' && ch <= 'Z' {
			return float64(ch-'A') + 1
		}
	}
	v, err := strconv.ParseFloat(bay, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return unparseableBay
	}
	return v
}

// compareRacks puts the highest embedded number first, then natural order.
func compareRacks(a, b string) int {
	if c := cmp.Compare(maxEmbeddedInt(b), maxEmbeddedInt(a)); c != 0 {
		return c
	}
	return naturalCompare(a, b)
}

// maxEmbeddedInt returns the largest integer appearing in s, or 0.
func maxEmbeddedInt(s string) int64 {
	var best int64
	for _, run := range digitRun.FindAllString(s, -1) {
		v, err := strconv.ParseInt(run, 10, 64)
		if err != nil {
			v = math.MaxInt64
		}
		if v > best {
			best = v
		}
	}
	return best
}

// naturalCompare orders case-insensitively with digit runs compared by value.
// Strings equal under that rule fall back to byte order so the result is total.
func naturalCompare(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case natural.Less(la, lb):
		return -1
	case natural.Less(lb, la):
		return 1
	}
	return strings.Compare(a, b)
}
