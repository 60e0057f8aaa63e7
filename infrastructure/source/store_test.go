package source

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"slotboard/infrastructure/layout"
	"slotboard/infrastructure/sqlite"

	"github.com/uptrace/bun"
)

func openSourceTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "source-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestStore_FetchesBothDatasets(t *testing.T) {
	db := openSourceTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO locations (location_id, location_code, rack, shelf, bay, sub_bay, sub_location) VALUES
	(101, 'C1-01', 'C1', 1, 'A', 0, 2),
	(NULL, 'C1-02', 'C1', 1, 'B', 0, 2)`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO occupancy (location_id, location_code, pallet_no, invoice_no, qty, received_at) VALUES
	(101, '', 'PLT-1', 'INV-1', 10, '2024-03-01 08:00:00'),
	(NULL, 'c1-02', 'PLT-2', '', 2.5, '2024-03-02 09:00:00')`)
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := NewStore(db)
	locs, err := store.FetchLocations(context.Background())
	if err != nil {
		t.Fatalf("fetch locations: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locs))
	}
	if locs[0].LocationID != 101 || locs[0].Rack != "C1" || locs[0].SubLocation != 2 {
		t.Fatalf("unexpected first location: %+v", locs[0])
	}
	if locs[1].LocationID != 0 || locs[1].LocationCode != "C1-02" {
		t.Fatalf("null external id must map to zero: %+v", locs[1])
	}

	occ, err := store.FetchOccupancy(context.Background())
	if err != nil {
		t.Fatalf("fetch occupancy: %v", err)
	}
	if len(occ) != 2 || occ[0].PalletNo != "PLT-1" || occ[1].Qty != 2.5 {
		t.Fatalf("unexpected occupancy: %+v", occ)
	}

	idx := layout.BuildIndex(occ)
	for _, l := range locs {
		if !idx.Has(l.Ident) {
			t.Fatalf("expected location %s to join its occupancy", l.LocationCode)
		}
	}
}

func TestStore_EmptyTables(t *testing.T) {
	store := NewStore(openSourceTestDB(t))
	locs, err := store.FetchLocations(context.Background())
	if err != nil || len(locs) != 0 {
		t.Fatalf("expected empty locations, got %v %v", locs, err)
	}
	occ, err := store.FetchOccupancy(context.Background())
	if err != nil || len(occ) != 0 {
		t.Fatalf("expected empty occupancy, got %v %v", occ, err)
	}
}
