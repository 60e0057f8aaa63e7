package layout

import (
	"reflect"
	"testing"
)

func loc(rack, code string, shelf int, bay string, subBay, subLocation int) LocationRecord {
	return LocationRecord{
		Ident:       Ident{LocationCode: code},
		Rack:        rack,
		Shelf:       shelf,
		Bay:         bay,
		SubBay:      subBay,
		SubLocation: subLocation,
	}
}

func codes(items []LocationRecord) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.LocationCode)
	}
	return out
}

func TestGroupRacks_SortsSlotsByCompositeKey(t *testing.T) {
	groups := GroupRacks([]LocationRecord{
		loc("C1", "C1-03", 1, "B", 1, 2),
		loc("C1", "C1-01", 1, "A", 2, 2),
		loc("C1", "C1-02", 1, "A", 1, 1),
		loc("C1", "C1-10", 0, "2", 0, 0),
		loc("C1", "C1-04", 2, "x1", 0, 0),
		loc("C1", "C1-05", 2, "3", 0, 0),
	})
	if len(groups) != 1 {
		t.Fatalf("expected 1 rack group, got %d", len(groups))
	}
	g := groups[0]
	want := []string{"C1-10", "C1-02", "C1-01", "C1-03", "C1-05", "C1-04"}
	if got := codes(g.Items); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected slot order:\n got %v\nwant %v", got, want)
	}
	if g.Cols != 2 || g.Rows != 3 {
		t.Fatalf("expected cols=2 rows=3, got cols=%d rows=%d", g.Cols, g.Rows)
	}
}

func TestGroupRacks_TieBreaksOnNaturalCode(t *testing.T) {
	groups := GroupRacks([]LocationRecord{
		loc("S", "S-10", 1, "A", 1, 1),
		loc("S", "s-2", 1, "A", 1, 1),
		loc("S", "S-1", 1, "A", 1, 1),
	})
	want := []string{"S-1", "s-2", "S-10"}
	if got := codes(groups[0].Items); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tie order: got %v want %v", got, want)
	}
}

func TestGroupRacks_ColsDefaultToOne(t *testing.T) {
	groups := GroupRacks([]LocationRecord{
		loc("B7", "B7-1", 1, "A", 1, 0),
		loc("B7", "B7-2", 2, "A", 1, -4),
	})
	if groups[0].Cols != 1 || groups[0].Rows != 2 {
		t.Fatalf("expected cols=1 rows=2, got %+v", groups[0])
	}
}

func TestGroupRacks_OrdersRacksByEmbeddedNumberDescending(t *testing.T) {
	inputs := [][]string{
		{"C-2", "B-5", "C-10"},
		{"C-10", "C-2", "B-5"},
		{"B-5", "C-10", "C-2"},
	}
	want := []string{"C-10", "B-5", "C-2"}
	for _, racks := range inputs {
		records := make([]LocationRecord, 0, len(racks))
		for _, r := range racks {
			records = append(records, loc(r, r+"-01", 1, "A", 1, 1))
		}
		groups := GroupRacks(records)
		got := make([]string, 0, len(groups))
		for _, g := range groups {
			got = append(got, g.Rack)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("input %v: got %v want %v", racks, got, want)
		}
	}
}

func TestGroupRacks_RackTiesUseNaturalOrder(t *testing.T) {
	groups := GroupRacks([]LocationRecord{
		loc("X", "X-a", 1, "A", 1, 1),
		loc("b1", "b1-a", 1, "A", 1, 1),
		loc("A1", "A1-a", 1, "A", 1, 1),
		loc("A01-9", "A01-9-a", 1, "A", 1, 1),
	})
	got := make([]string, 0, len(groups))
	for _, g := range groups {
		got = append(got, g.Rack)
	}
	want := []string{"A01-9", "A1", "b1", "X"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestGroupRacks_SkipsEmptyRackAndTrims(t *testing.T) {
	groups := GroupRacks([]LocationRecord{
		loc("  ", "nowhere", 1, "A", 1, 1),
		loc(" C3 ", "C3-1", 1, "A", 1, 1),
		loc("C3", "C3-2", 1, "B", 1, 1),
	})
	if len(groups) != 1 || groups[0].Rack != "C3" || len(groups[0].Items) != 2 {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestGroupRacks_DeterministicAndNonMutating(t *testing.T) {
	input := []LocationRecord{
		loc("C2", "C2-2", 2, "A", 1, 2),
		loc("B9", "B9-1", 1, "1", 1, 1),
		loc("C2", "C2-1", 1, "A", 1, 2),
	}
	snapshot := append([]LocationRecord{}, input...)

	first := GroupRacks(input)
	second := GroupRacks(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input")
	}
	if !reflect.DeepEqual(input, snapshot) {
		t.Fatalf("input slice was mutated")
	}
	if !reflect.DeepEqual(BuildBoard(first), BuildBoard(second)) {
		t.Fatalf("expected identical cell assignment")
	}
}

func TestBayOrder(t *testing.T) {
	cases := map[string]float64{
		"A":   1,
		"z":   26,
		" C ": 3,
		"12":  12,
		"2.5": 2.5,
		"AB":  9999,
		"":    9999,
		"-":   9999,
	}
	for in, want := range cases {
		if got := BayOrder(in); got != want {
			t.Fatalf("BayOrder(%q) = %v, want %v", in, got, want)
		}
	}
}
