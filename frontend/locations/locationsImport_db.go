package locations

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"slotboard/infrastructure/audit"
	"slotboard/infrastructure/sqlite"

	"github.com/spf13/cast"
	"github.com/uptrace/bun"
)

var (
	locationColumns  = []string{"location_id", "location_code", "rack", "shelf", "bay", "sub_bay", "sub_location"}
	occupancyColumns = []string{"location_id", "location_code", "pallet_no", "invoice_no", "lot_no", "item_code", "description", "qty"}

	ErrUnknownKind = errors.New("unknown import kind")
)

// Header returns the expected CSV header for kind.
func Header(kind string) ([]string, error) {
	switch kind {
	case KindLocations:
		return locationColumns, nil
	case KindOccupancy:
		return occupancyColumns, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func ListImportRuns(ctx context.Context, db *sqlite.DB, limit int) ([]ImportRunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows := make([]ImportRunRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, kind, file_name, inserted, updated, errors, imported_by,
       strftime('%d/%m/%Y %H:%M', created_at) AS created_at
FROM import_runs
ORDER BY id DESC
LIMIT ?`, limit).Scan(ctx, &rows)
	})
	return rows, err
}

// ImportCSV loads one CSV file. Location rows are upserted by location code.
// An occupancy file is a full snapshot and replaces every stored occupancy
// row. Bad rows are counted, not fatal.
func ImportCSV(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor, kind, fileName string, reader io.Reader) (ImportSummary, error) {
	summary := ImportSummary{Kind: kind}
	want, err := Header(kind)
	if err != nil {
		return summary, err
	}

	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return summary, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, want)
	if err != nil {
		return summary, err
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before any
		if kind == KindOccupancy {
			var existing int
			if err := tx.NewRaw(`SELECT COUNT(1) FROM occupancy`).Scan(ctx, &existing); err != nil {
				return err
			}
			before = map[string]any{"rows": existing}
			if _, err := tx.ExecContext(ctx, `DELETE FROM occupancy`); err != nil {
				return err
			}
		}

		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				summary.Errors++
				continue
			}
			row := cols.row(record)

			var rowErr error
			switch kind {
			case KindLocations:
				rowErr = upsertLocation(ctx, tx, row, &summary)
			case KindOccupancy:
				rowErr = insertOccupancy(ctx, tx, row, &summary)
			}
			if rowErr != nil {
				summary.Errors++
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO import_runs (kind, file_name, inserted, updated, errors, imported_by)
VALUES (?, ?, ?, ?, ?, ?)`, kind, fileName, summary.Inserted, summary.Updated, summary.Errors, actor); err != nil {
			return err
		}

		if auditSvc != nil {
			action := audit.ActionImportLocations
			if kind == KindOccupancy {
				action = audit.ActionImportOccupancy
			}
			after := map[string]any{"file": fileName, "inserted": summary.Inserted, "updated": summary.Updated, "errors": summary.Errors}
			if err := auditSvc.Write(ctx, tx, actor, action, "import_runs", "latest", before, after); err != nil {
				return err
			}
		}
		return nil
	})
	return summary, err
}

var errInvalidRow = errors.New("invalid row")

func upsertLocation(ctx context.Context, tx bun.Tx, row map[string]string, summary *ImportSummary) error {
	code := row["location_code"]
	rack := row["rack"]
	if code == "" || rack == "" {
		return errInvalidRow
	}
	locationID, ok := optionalID(row["location_id"])
	if !ok {
		return errInvalidRow
	}

	var exists int
	if err := tx.NewRaw("SELECT COUNT(1) FROM locations WHERE location_code = ?", code).Scan(ctx, &exists); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO locations (location_id, location_code, rack, shelf, bay, sub_bay, sub_location, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(location_code) DO UPDATE SET
  location_id = excluded.location_id,
  rack = excluded.rack,
  shelf = excluded.shelf,
  bay = excluded.bay,
  sub_bay = excluded.sub_bay,
  sub_location = excluded.sub_location,
  updated_at = CURRENT_TIMESTAMP`,
		locationID, code, rack, toInt(row["shelf"]), row["bay"], toInt(row["sub_bay"]), toInt(row["sub_location"])); err != nil {
		return err
	}

	if exists > 0 {
		summary.Updated++
	} else {
		summary.Inserted++
	}
	return nil
}

func insertOccupancy(ctx context.Context, tx bun.Tx, row map[string]string, summary *ImportSummary) error {
	locationID, ok := optionalID(row["location_id"])
	if !ok || (locationID == nil && row["location_code"] == "") || row["pallet_no"] == "" {
		return errInvalidRow
	}
	qty, err := cast.ToFloat64E(row["qty"])
	if row["qty"] == "" {
		qty, err = 0, nil
	}
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return errInvalidRow
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO occupancy (location_id, location_code, pallet_no, invoice_no, lot_no, item_code, description, qty, received_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		locationID, row["location_code"], row["pallet_no"], row["invoice_no"], row["lot_no"], row["item_code"], row["description"], qty); err != nil {
		return err
	}
	summary.Inserted++
	return nil
}

type columns map[string]int

// columnIndex maps header names to positions. Every wanted column must be
// present; order and extra columns do not matter.
func columnIndex(header, want []string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, w := range want {
		if _, ok := cols[w]; !ok {
			return nil, fmt.Errorf("invalid CSV header; expected %s", strings.Join(want, ","))
		}
	}
	return cols, nil
}

func (c columns) row(record []string) map[string]string {
	row := make(map[string]string, len(c))
	for name, i := range c {
		if i < len(record) {
			row[name] = strings.TrimSpace(record[i])
		}
	}
	return row
}

// optionalID parses an optional positive integer id. ok is false when the
// value is present but unusable.
func optionalID(raw string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return nil, false
	}
	id := int64(f)
	return &id, true
}

func toInt(raw string) int {
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
