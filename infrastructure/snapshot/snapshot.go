// Package snapshot runs the board pipeline: fetch both datasets, derive the
// layout, and publish an immutable Snapshot.
package snapshot

import (
	"fmt"
	"strings"
	"time"

	"slotboard/infrastructure/layout"

	"github.com/google/uuid"
)

// Snapshot is one complete pass over both datasets. It is never modified
// after Build returns.
type Snapshot struct {
	ID         string
	Generation uint64
	BuiltAt    time.Time
	Locations  []layout.LocationRecord
	Occupancy  []layout.OccupancyRecord
	Index      *layout.Index
	Groups     []layout.RackGroup
	Board      layout.Board
	Stats      layout.Stats
	Warnings   []string
}

// Highlights is the result of one search over a snapshot.
type Highlights struct {
	Query     string
	Field     layout.Field
	Racks     layout.StringSet
	Locations layout.KeySet
}

// Build derives every board structure from the two datasets.
func Build(gen uint64, locations []layout.LocationRecord, occupancy []layout.OccupancyRecord, warnings []string) *Snapshot {
	if locations == nil {
		locations = []layout.LocationRecord{}
	}
	if occupancy == nil {
		occupancy = []layout.OccupancyRecord{}
	}
	idx := layout.BuildIndex(occupancy)
	warnings = append([]string{}, warnings...)
	if dropped := idx.Dropped(); dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d occupancy records have no location key", dropped))
	}
	groups := layout.GroupRacks(locations)
	board := layout.BuildBoard(groups)
	return &Snapshot{
		ID:         uuid.NewString(),
		Generation: gen,
		BuiltAt:    time.Now().UTC(),
		Locations:  locations,
		Occupancy:  occupancy,
		Index:      idx,
		Groups:     groups,
		Board:      board,
		Stats:      layout.ComputeStats(board.Pieces, idx),
		Warnings:   warnings,
	}
}

func (s *Snapshot) Gen() uint64 {
	return s.Generation
}

// Highlights answers a search. Rack names always match against query; the
// location set matches against field.
func (s *Snapshot) Highlights(query string, field layout.Field) Highlights {
	return Highlights{
		Query:     query,
		Field:     field,
		Racks:     layout.HighlightRacks(query, s.Locations),
		Locations: layout.HighlightLocationsBy(query, s.Index, field),
	}
}

// OccupancyAt returns the occupancy at the location identified by k. When k
// names a known location, both of its keys are consulted.
func (s *Snapshot) OccupancyAt(k layout.Key) []layout.OccupancyRecord {
	if loc, ok := s.Location(k); ok {
		return s.Index.At(loc.Ident)
	}
	return s.Index.Lookup(k)
}

// Location finds the location record addressed by k under either key scheme.
func (s *Snapshot) Location(k layout.Key) (layout.LocationRecord, bool) {
	for _, loc := range s.Locations {
		if id, ok := layout.IDKey(loc.Ident); ok && id == k {
			return loc, true
		}
		if code, ok := layout.CodeKey(loc.Ident); ok && code == k {
			return loc, true
		}
	}
	return layout.LocationRecord{}, false
}

// Rack returns the group named rack. An exact name wins; otherwise the name
// matches case-insensitively only when exactly one group has it.
func (s *Snapshot) Rack(rack string) (layout.RackGroup, bool) {
	rack = strings.TrimSpace(rack)
	var folded []layout.RackGroup
	for _, g := range s.Groups {
		if g.Rack == rack {
			return g, true
		}
		if strings.EqualFold(g.Rack, rack) {
			folded = append(folded, g)
		}
	}
	if len(folded) == 1 {
		return folded[0], true
	}
	return layout.RackGroup{}, false
}
