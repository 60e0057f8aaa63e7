package ingest

import (
	"math"
	"strings"
	"time"

	"slotboard/infrastructure/layout"

	"github.com/spf13/cast"
)

var (
	idFields          = []string{"locationId", "location_id", "id"}
	codeFields        = []string{"locationCode", "location_code", "code"}
	nameFields        = []string{"locationName", "location_name", "location"}
	rackFields        = []string{"rack", "rackName", "rack_name"}
	shelfFields       = []string{"shelf"}
	bayFields         = []string{"bay"}
	subBayFields      = []string{"subBay", "sub_bay"}
	subLocationFields = []string{"subLocation", "sub_location"}

	palletFields      = []string{"palletNo", "pallet_no", "pallet"}
	invoiceFields     = []string{"invoiceNo", "invoice_no", "invoice"}
	lotFields         = []string{"lotNo", "lot_no", "lot"}
	itemFields        = []string{"itemCode", "item_code", "sku"}
	descriptionFields = []string{"description", "desc"}
	qtyFields         = []string{"qty", "quantity"}
	receivedFields    = []string{"receivedAt", "received_at"}
)

// Locations decodes location rows.
func Locations(rows []map[string]any) []layout.LocationRecord {
	out := make([]layout.LocationRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, layout.LocationRecord{
			Ident:       ident(row),
			Rack:        str(row, rackFields),
			Shelf:       integer(row, shelfFields),
			Bay:         str(row, bayFields),
			SubBay:      integer(row, subBayFields),
			SubLocation: integer(row, subLocationFields),
		})
	}
	return out
}

// Occupancy decodes occupancy rows.
func Occupancy(rows []map[string]any) []layout.OccupancyRecord {
	out := make([]layout.OccupancyRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, layout.OccupancyRecord{
			Ident:       ident(row),
			PalletNo:    str(row, palletFields),
			InvoiceNo:   str(row, invoiceFields),
			LotNo:       str(row, lotFields),
			ItemCode:    str(row, itemFields),
			Description: str(row, descriptionFields),
			Qty:         number(row, qtyFields),
			ReceivedAt:  timestamp(row, receivedFields),
		})
	}
	return out
}

// ident reads the identification fields. A many2one pair such as
// [12, "WH/C1-01"] supplies both the id and the display name.
func ident(row map[string]any) layout.Ident {
	id := layout.Ident{
		LocationCode: str(row, codeFields),
		LocationName: str(row, nameFields),
	}
	raw, ok := first(row, idFields)
	if pair, isPair := raw.([]any); ok && isPair {
		if len(pair) > 0 {
			raw = pair[0]
		}
		if len(pair) > 1 && id.LocationName == "" {
			id.LocationName = strings.TrimSpace(cast.ToString(pair[1]))
		}
	}
	if ok {
		id.LocationID = positiveID(raw)
	}
	return id
}

// positiveID accepts a finite, positive, integral number or numeric string.
// Everything else, including booleans, is treated as absent.
func positiveID(v any) int64 {
	if _, isBool := v.(bool); isBool {
		return 0
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0
	}
	return int64(f)
}

func first(row map[string]any, fields []string) (any, bool) {
	for _, f := range fields {
		if v, ok := row[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func str(row map[string]any, fields []string) string {
	for _, f := range fields {
		v, ok := row[f]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func number(row map[string]any, fields []string) float64 {
	v, ok := first(row, fields)
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func integer(row map[string]any, fields []string) int {
	f := number(row, fields)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func timestamp(row map[string]any, fields []string) time.Time {
	v, ok := first(row, fields)
	if !ok {
		return time.Time{}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
