// Package source fetches the two board datasets. Locations and occupancy are
// fetched independently and may come from different backends.
package source

import (
	"context"

	"slotboard/infrastructure/layout"
)

type LocationSource interface {
	FetchLocations(ctx context.Context) ([]layout.LocationRecord, error)
}

type OccupancySource interface {
	FetchOccupancy(ctx context.Context) ([]layout.OccupancyRecord, error)
}

// LocationsFunc adapts a function to LocationSource.
type LocationsFunc func(ctx context.Context) ([]layout.LocationRecord, error)

func (f LocationsFunc) FetchLocations(ctx context.Context) ([]layout.LocationRecord, error) {
	return f(ctx)
}

// OccupancyFunc adapts a function to OccupancySource.
type OccupancyFunc func(ctx context.Context) ([]layout.OccupancyRecord, error)

func (f OccupancyFunc) FetchOccupancy(ctx context.Context) ([]layout.OccupancyRecord, error) {
	return f(ctx)
}
