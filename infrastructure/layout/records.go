// Package layout turns location and occupancy snapshots into the rack board:
// key resolution, the occupancy join, rack grouping, grid placement,
// search highlights and occupancy statistics.
//
// Every function here is pure. Inputs are never mutated and every call returns
// freshly allocated derived structures.
package layout

import "time"

// Ident carries the identification fields a LocationKey is derived from.
// Both record types embed it so the two datasets resolve keys through the
// same code path.
type Ident struct {
	LocationID   int64  `json:"locationId,omitempty"`
	LocationCode string `json:"locationCode,omitempty"`
	LocationName string `json:"locationName,omitempty"`
}

// LocationRecord is one physical storage slot.
type LocationRecord struct {
	Ident
	Rack        string `json:"rack"`
	Shelf       int    `json:"shelf"`
	Bay         string `json:"bay"`
	SubBay      int    `json:"subBay"`
	SubLocation int    `json:"subLocation"`
}

// OccupancyRecord is a stored unit (usually a pallet) currently at a location.
type OccupancyRecord struct {
	Ident
	PalletNo    string    `json:"palletNo,omitempty"`
	InvoiceNo   string    `json:"invoiceNo,omitempty"`
	LotNo       string    `json:"lotNo,omitempty"`
	ItemCode    string    `json:"itemCode,omitempty"`
	Description string    `json:"description,omitempty"`
	Qty         float64   `json:"qty"`
	ReceivedAt  time.Time `json:"receivedAt,omitempty"`
}
