package layout

import "testing"

func TestHighlightRacks(t *testing.T) {
	records := []LocationRecord{
		loc("C1", "C1-1", 1, "A", 1, 1),
		loc(" c12 ", "C12-1", 1, "A", 1, 1),
		loc("B1", "B1-1", 1, "A", 1, 1),
		loc("", "orphan", 1, "A", 1, 1),
	}

	got := HighlightRacks("c1", records)
	if len(got) != 2 || !got.Has("C1") || !got.Has("c12") {
		t.Fatalf("unexpected rack highlight: %v", got.Sorted())
	}
	if got := HighlightRacks("   ", records); len(got) != 0 {
		t.Fatalf("empty query must highlight nothing, got %v", got.Sorted())
	}
	if got := HighlightRacks("zz", records); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got.Sorted())
	}
}

func TestHighlightLocations(t *testing.T) {
	idx := BuildIndex([]OccupancyRecord{
		{Ident: Ident{LocationID: 1}, PalletNo: "PLT-0001", InvoiceNo: "INV-9"},
		{Ident: Ident{LocationID: 1}, PalletNo: "PLT-0002"},
		{Ident: Ident{LocationCode: "b1-1"}, PalletNo: "plt-0050", LotNo: "LOT-A"},
		{Ident: Ident{LocationID: 2}, PalletNo: "X-1"},
	})

	got := HighlightLocations("plt-00", idx)
	if len(got) != 2 || !got.Has("id:1") || !got.Has("code:B1-1") {
		t.Fatalf("unexpected location highlight: %v", got.Sorted())
	}
	if !got.HasLocation(Ident{LocationID: 99, LocationCode: "B1-1"}) {
		t.Fatalf("expected highlight lookup by code fallback")
	}
	if got := HighlightLocations("", idx); len(got) != 0 {
		t.Fatalf("empty query must highlight nothing")
	}

	byInvoice := HighlightLocationsBy("inv", idx, FieldInvoice)
	if len(byInvoice) != 1 || !byInvoice.Has("id:1") {
		t.Fatalf("unexpected invoice highlight: %v", byInvoice.Sorted())
	}
	byLot := HighlightLocationsBy("lot-a", idx, ParseField("LOT"))
	if len(byLot) != 1 || !byLot.Has("code:B1-1") {
		t.Fatalf("unexpected lot highlight: %v", byLot.Sorted())
	}
}

func TestHighlight_EmptyDataset(t *testing.T) {
	if len(HighlightRacks("C", nil)) != 0 {
		t.Fatalf("expected empty rack set")
	}
	if len(HighlightLocations("P", BuildIndex(nil))) != 0 {
		t.Fatalf("expected empty location set")
	}
}

func TestParseField(t *testing.T) {
	cases := map[string]Field{
		"":         FieldPallet,
		"pallet":   FieldPallet,
		" Invoice": FieldInvoice,
		"lot":      FieldLot,
		"item":     FieldItem,
		"bogus":    FieldPallet,
	}
	for in, want := range cases {
		if got := ParseField(in); got != want {
			t.Fatalf("ParseField(%q) = %q, want %q", in, got, want)
		}
	}
}
