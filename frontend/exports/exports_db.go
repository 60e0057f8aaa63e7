package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"slotboard/infrastructure/layout"
	"slotboard/infrastructure/snapshot"
	"slotboard/infrastructure/sqlite"
	"slotboard/models"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

var (
	slotColumns  = []string{"rack", "location_code", "location_id", "shelf", "bay", "sub_bay", "sub_location", "occupied", "pallet_count", "pallet_nos", "qty_total"}
	statsColumns = []string{"category", "total", "used", "empty", "percentage"}
)

// writeSlotsCSV writes one row per slot of snap in board order. A non-empty
// rack limits the export to the group with exactly that name. It returns the
// number of data rows.
func writeSlotsCSV(w io.Writer, snap *snapshot.Snapshot, rack string) (int, error) {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write(slotColumns); err != nil {
		return 0, err
	}

	count := 0
	for _, group := range snap.Groups {
		if rack != "" && group.Rack != rack {
			continue
		}
		for _, item := range group.Items {
			units := snap.Index.At(item.Ident)
			pallets := make([]string, 0, len(units))
			qty := decimal.Zero
			for _, u := range units {
				if u.PalletNo != "" {
					pallets = append(pallets, u.PalletNo)
				}
				qty = qty.Add(decimal.NewFromFloat(u.Qty))
			}
			locationID := ""
			if item.LocationID > 0 {
				locationID = toString(item.LocationID)
			}
			record := []string{
				group.Rack,
				item.Code(),
				locationID,
				strconv.Itoa(item.Shelf),
				item.Bay,
				strconv.Itoa(item.SubBay),
				strconv.Itoa(item.SubLocation),
				strconv.FormatBool(len(units) > 0),
				strconv.Itoa(len(units)),
				strings.Join(pallets, "|"),
				qty.String(),
			}
			if err := writer.Write(record); err != nil {
				return count, err
			}
			count++
		}
	}
	writer.Flush()
	return count, writer.Error()
}

func writeStatsCSV(w io.Writer, stats layout.Stats) (int, error) {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write(statsColumns); err != nil {
		return 0, err
	}
	for _, c := range layout.Categories {
		st := stats[c]
		record := []string{string(c), strconv.Itoa(st.Total), strconv.Itoa(st.Used), strconv.Itoa(st.Empty), st.Percentage}
		if err := writer.Write(record); err != nil {
			return 0, err
		}
	}
	writer.Flush()
	return len(layout.Categories), writer.Error()
}

func recordExportRun(ctx context.Context, db *sqlite.DB, snap *snapshot.Snapshot, exportType, requestedBy string, rows int) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		run := &models.ExportRun{
			ExportType:  exportType,
			SnapshotID:  snap.ID,
			Generation:  int64(snap.Generation),
			RowCount:    rows,
			RequestedBy: requestedBy,
		}
		_, err := tx.NewInsert().Model(run).Exec(ctx)
		return err
	})
}

func ListExportRuns(ctx context.Context, db *sqlite.DB, limit int) ([]ExportRunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows := make([]ExportRunRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, export_type, snapshot_id, generation, row_count, requested_by,
       strftime('%d/%m/%Y %H:%M', created_at) AS created_at
FROM export_runs
ORDER BY id DESC
LIMIT ?`, limit).Scan(ctx, &rows)
	})
	return rows, err
}

func toString(v int64) string {
	return strconv.FormatInt(v, 10)
}
