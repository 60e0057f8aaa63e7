package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"slotboard/infrastructure/audit"
	"slotboard/infrastructure/sqlite"
	"slotboard/models"

	"github.com/uptrace/bun"
)

var (
	demoRacks  = []string{"C1", "C2", "C3", "B1", "B2"}
	demoBays   = []string{"A", "B", "C"}
	demoShelfs = 4
)

func main() {
	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	defaultDBPath := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(migrationsDir))), "slotboard.db")
	dbPath := getenv("SQLITE_PATH", defaultDBPath)

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	locs, occ, err := seedDemo(context.Background(), db, audit.NewService(), time.Now().UTC())
	if err != nil {
		log.Fatalf("seed demo: %v", err)
	}
	if locs == 0 {
		fmt.Println("locations already present; nothing seeded")
		return
	}
	fmt.Printf("seeded %d locations and %d pallets\n", locs, occ)
}

// seedDemo fills an empty store with a small demo warehouse. Every seventh
// slot has no external id so the code-based join is exercised, and every
// other pallet refers to its slot by lower-cased code.
func seedDemo(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, now time.Time) (int, int, error) {
	var locations []models.Location
	var pallets []models.Occupancy

	n := 0
	for _, rack := range demoRacks {
		for shelf := 1; shelf <= demoShelfs; shelf++ {
			for _, bay := range demoBays {
				n++
				code := fmt.Sprintf("%s-%d%s", rack, shelf, bay)
				loc := models.Location{
					LocationCode: code,
					Rack:         rack,
					Shelf:        shelf,
					Bay:          bay,
					SubLocation:  len(demoBays),
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if n%7 != 0 {
					id := int64(1000 + n)
					loc.LocationID = &id
				}
				locations = append(locations, loc)

				if (n*7)%10 >= 6 {
					continue
				}
				p := models.Occupancy{
					PalletNo:    fmt.Sprintf("PLT-%05d", n),
					InvoiceNo:   fmt.Sprintf("INV-%03d", n%40),
					LotNo:       fmt.Sprintf("LOT-%s%d", rack, shelf),
					ItemCode:    fmt.Sprintf("SKU-%02d", n%17),
					Description: "Demo stock " + code,
					Qty:         float64(10 + n%25),
					ReceivedAt:  now.Add(-time.Duration(n) * time.Hour),
				}
				if loc.LocationID != nil && n%2 == 0 {
					p.LocationID = loc.LocationID
				} else {
					p.LocationCode = strings.ToLower(code)
				}
				pallets = append(pallets, p)
			}
		}
	}

	seeded := false
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := tx.NewSelect().Model((*models.Location)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&locations).Exec(ctx); err != nil {
			return fmt.Errorf("insert locations: %w", err)
		}
		if _, err := tx.NewInsert().Model(&pallets).Exec(ctx); err != nil {
			return fmt.Errorf("insert occupancy: %w", err)
		}
		seeded = true
		if auditSvc != nil {
			after := map[string]any{"locations": len(locations), "occupancy": len(pallets)}
			return auditSvc.Write(ctx, tx, "seedDemo", audit.ActionSeed, "locations", "demo", nil, after)
		}
		return nil
	})
	if err != nil || !seeded {
		return 0, 0, err
	}
	return len(locations), len(pallets), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		filepath.Join("infrastructure", "sqlite", "migrations"),
		filepath.Join("..", "..", "infrastructure", "sqlite", "migrations"),
	}

	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations"))
	}

	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		tried = append(tried, absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return absPath, nil
		}
	}

	return "", fmt.Errorf("migrations dir not found; tried: %s", strings.Join(tried, ", "))
}
