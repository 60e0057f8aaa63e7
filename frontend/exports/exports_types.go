package exports

// Export types recorded in export_runs.
const (
	TypeSlots = "slots_csv"
	TypeStats = "stats_csv"
)

type ExportRunRecord struct {
	ID          int64  `bun:"id" json:"id"`
	ExportType  string `bun:"export_type" json:"exportType"`
	SnapshotID  string `bun:"snapshot_id" json:"snapshotId"`
	Generation  int64  `bun:"generation" json:"generation"`
	RowCount    int    `bun:"row_count" json:"rowCount"`
	RequestedBy string `bun:"requested_by" json:"requestedBy"`
	CreatedAt   string `bun:"created_at" json:"createdAt"`
}
