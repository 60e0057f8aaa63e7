package locations

// Import kinds accepted by the upload form.
const (
	KindLocations = "locations"
	KindOccupancy = "occupancy"
)

type ImportSummary struct {
	Kind     string `json:"kind"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Errors   int    `json:"errors"`
}

type ImportRunRecord struct {
	ID         int64  `bun:"id" json:"id"`
	Kind       string `bun:"kind" json:"kind"`
	FileName   string `bun:"file_name" json:"fileName"`
	Inserted   int    `bun:"inserted" json:"inserted"`
	Updated    int    `bun:"updated" json:"updated"`
	Errors     int    `bun:"errors" json:"errors"`
	ImportedBy string `bun:"imported_by" json:"importedBy"`
	CreatedAt  string `bun:"created_at" json:"createdAt"`
}

type ImportResponse struct {
	Summary    ImportSummary `json:"summary"`
	SnapshotID string        `json:"snapshotId,omitempty"`
	Warning    string        `json:"warning,omitempty"`
}
