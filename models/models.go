package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Location is a stored storage slot. LocationID is the external warehouse id
// and may be null; ID is the local surrogate key.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:l"`

	ID           int64     `bun:"id,pk,autoincrement"`
	LocationID   *int64    `bun:"location_id,unique"`
	LocationCode string    `bun:"location_code,notnull,unique"`
	Rack         string    `bun:"rack,notnull"`
	Shelf        int       `bun:"shelf,notnull,default:0"`
	Bay          string    `bun:"bay,notnull,default:''"`
	SubBay       int       `bun:"sub_bay,notnull,default:0"`
	SubLocation  int       `bun:"sub_location,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Occupancy is a stored unit currently at a location.
type Occupancy struct {
	bun.BaseModel `bun:"table:occupancy,alias:o"`

	ID           int64     `bun:"id,pk,autoincrement"`
	LocationID   *int64    `bun:"location_id"`
	LocationCode string    `bun:"location_code,notnull,default:''"`
	PalletNo     string    `bun:"pallet_no,notnull"`
	InvoiceNo    string    `bun:"invoice_no,notnull,default:''"`
	LotNo        string    `bun:"lot_no,notnull,default:''"`
	ItemCode     string    `bun:"item_code,notnull,default:''"`
	Description  string    `bun:"description,notnull,default:''"`
	Qty          float64   `bun:"qty,notnull,default:0"`
	ReceivedAt   time.Time `bun:"received_at,notnull,default:current_timestamp"`
}

// ImportRun records one CSV import.
type ImportRun struct {
	bun.BaseModel `bun:"table:import_runs,alias:ir"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Kind       string    `bun:"kind,notnull"`
	FileName   string    `bun:"file_name,notnull"`
	Inserted   int       `bun:"inserted,notnull,default:0"`
	Updated    int       `bun:"updated,notnull,default:0"`
	Errors     int       `bun:"errors,notnull,default:0"`
	ImportedBy string    `bun:"imported_by,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ExportRun records one CSV export of a published snapshot.
type ExportRun struct {
	bun.BaseModel `bun:"table:export_runs,alias:er"`

	ID          int64     `bun:"id,pk,autoincrement"`
	ExportType  string    `bun:"export_type,notnull"`
	SnapshotID  string    `bun:"snapshot_id,notnull,default:''"`
	Generation  int64     `bun:"generation,notnull,default:0"`
	RowCount    int       `bun:"row_count,notnull,default:0"`
	RequestedBy string    `bun:"requested_by,notnull,default:''"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
