package source

import (
	"context"
	"fmt"

	"slotboard/infrastructure/layout"
	"slotboard/infrastructure/sqlite"
	"slotboard/models"

	"github.com/uptrace/bun"
)

// Store reads both datasets from the local SQLite store.
type Store struct {
	db *sqlite.DB
}

func NewStore(db *sqlite.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FetchLocations(ctx context.Context) ([]layout.LocationRecord, error) {
	var rows []models.Location
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).OrderExpr("l.id ASC").Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}

	out := make([]layout.LocationRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, layout.LocationRecord{
			Ident:       layout.Ident{LocationID: deref(r.LocationID), LocationCode: r.LocationCode},
			Rack:        r.Rack,
			Shelf:       r.Shelf,
			Bay:         r.Bay,
			SubBay:      r.SubBay,
			SubLocation: r.SubLocation,
		})
	}
	return out, nil
}

func (s *Store) FetchOccupancy(ctx context.Context) ([]layout.OccupancyRecord, error) {
	var rows []models.Occupancy
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).OrderExpr("o.id ASC").Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("select occupancy: %w", err)
	}

	out := make([]layout.OccupancyRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, layout.OccupancyRecord{
			Ident:       layout.Ident{LocationID: deref(r.LocationID), LocationCode: r.LocationCode},
			PalletNo:    r.PalletNo,
			InvoiceNo:   r.InvoiceNo,
			LotNo:       r.LotNo,
			ItemCode:    r.ItemCode,
			Description: r.Description,
			Qty:         r.Qty,
			ReceivedAt:  r.ReceivedAt.UTC(),
		})
	}
	return out, nil
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
