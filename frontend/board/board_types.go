package board

import (
	"time"

	"slotboard/infrastructure/layout"
)

// PieceView is a board cell annotated with its join state.
type PieceView struct {
	layout.BoardPiece
	Key      layout.Key `json:"key,omitempty"`
	Occupied bool       `json:"occupied"`
}

type BoardResponse struct {
	SnapshotID string             `json:"snapshotId"`
	Generation uint64             `json:"generation"`
	BuiltAt    time.Time          `json:"builtAt"`
	Groups     []layout.RackGroup `json:"groups"`
	Pieces     []PieceView        `json:"pieces"`
	Rows       int                `json:"boardRows"`
	TotalCols  int                `json:"totalCols"`
	CellSize   int                `json:"cellSize"`
	Stats      layout.Stats       `json:"stats"`
	Warnings   []string           `json:"warnings"`
}

type StatsResponse struct {
	SnapshotID string       `json:"snapshotId"`
	Stats      layout.Stats `json:"stats"`
}

type HighlightsResponse struct {
	SnapshotID string       `json:"snapshotId"`
	Query      string       `json:"query"`
	Field      layout.Field `json:"field"`
	Racks      []string     `json:"racks"`
	Locations  []layout.Key `json:"locations"`
}

type OccupancyResponse struct {
	Key       layout.Key               `json:"key"`
	Location  *layout.LocationRecord   `json:"location,omitempty"`
	Occupancy []layout.OccupancyRecord `json:"occupancy"`
}

type RefreshResponse struct {
	SnapshotID string   `json:"snapshotId"`
	Generation uint64   `json:"generation"`
	Warnings   []string `json:"warnings"`
	Error      string   `json:"error,omitempty"`
}

type ViewportResponse struct {
	Width     int  `json:"width"`
	TotalCols int  `json:"totalCols"`
	CellSize  int  `json:"cellSize"`
	Pending   bool `json:"pending"`
}
