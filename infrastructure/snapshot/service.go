package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"slotboard/infrastructure/autofit"
	"slotboard/infrastructure/cache"
	"slotboard/infrastructure/layout"
	"slotboard/infrastructure/source"

	"golang.org/x/sync/errgroup"
)

// Options configures a Service.
type Options struct {
	// FetchTimeout bounds each refresh. Zero means no timeout.
	FetchTimeout time.Duration
	// Viewport, when set, is told the board width after every published pass.
	Viewport *autofit.Scheduler
}

// Service refreshes snapshots and keeps the newest one.
type Service struct {
	locations source.LocationSource
	occupancy source.OccupancySource
	opts      Options

	gen    atomic.Uint64
	latest *cache.Latest[*Snapshot]

	notifyMu sync.Mutex
}

func NewService(locations source.LocationSource, occupancy source.OccupancySource, opts Options) *Service {
	return &Service{
		locations: locations,
		occupancy: occupancy,
		opts:      opts,
		latest:    cache.NewLatest[*Snapshot](),
	}
}

// Refresh runs one pass. Both fetches run concurrently and the layout is only
// derived once both finished. A failed source contributes an empty dataset;
// the joined fetch errors are returned alongside the snapshot so the caller
// can report them. The returned snapshot is the newest published one, which
// may belong to a later pass than this call.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	gen := s.gen.Add(1)
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	started := time.Now()
	var (
		g              errgroup.Group
		locs           []layout.LocationRecord
		occ            []layout.OccupancyRecord
		locErr, occErr error
	)
	// A plain Group: one failed source must not cancel the other fetch.
	g.Go(func() error {
		locs, locErr = s.locations.FetchLocations(ctx)
		if locErr != nil {
			locErr = fmt.Errorf("fetch locations: %w", locErr)
		}
		return locErr
	})
	g.Go(func() error {
		occ, occErr = s.occupancy.FetchOccupancy(ctx)
		if occErr != nil {
			occErr = fmt.Errorf("fetch occupancy: %w", occErr)
		}
		return occErr
	})

	var errs []error
	var warnings []string
	if err := g.Wait(); err != nil {
		if locErr != nil {
			locs = nil
			errs = append(errs, locErr)
			warnings = append(warnings, "locations unavailable")
			slog.Error("fetch locations failed", slog.Uint64("generation", gen), slog.Any("err", locErr))
		}
		if occErr != nil {
			occ = nil
			errs = append(errs, occErr)
			warnings = append(warnings, "occupancy unavailable")
			slog.Error("fetch occupancy failed", slog.Uint64("generation", gen), slog.Any("err", occErr))
		}
	}

	snap := Build(gen, locs, occ, warnings)

	if s.latest.Offer(snap) {
		slog.Info("board snapshot published",
			slog.Uint64("generation", gen),
			slog.String("id", snap.ID),
			slog.Int("locations", len(snap.Locations)),
			slog.Int("occupancy", len(snap.Occupancy)),
			slog.Int("racks", len(snap.Groups)),
			slog.Duration("took", time.Since(started)),
		)
		s.notifyViewport()
	} else {
		slog.Info("stale board snapshot discarded", slog.Uint64("generation", gen))
	}

	current, _ := s.latest.Get()
	return current, errors.Join(errs...)
}

// notifyViewport reports the column count of the newest published snapshot,
// never that of the calling pass, so a superseded pass cannot resize the
// viewport for a board that is no longer served.
func (s *Service) notifyViewport() {
	if s.opts.Viewport == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if current, ok := s.latest.Get(); ok {
		s.opts.Viewport.Columns(current.Board.TotalCols)
	}
}

// Current returns the newest snapshot, or an empty one before the first
// refresh.
func (s *Service) Current() *Snapshot {
	if snap, ok := s.latest.Get(); ok {
		return snap
	}
	return Build(0, nil, nil, nil)
}

// Run refreshes every interval until ctx is done. A non-positive interval
// disables polling and Run returns immediately.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				slog.Warn("scheduled board refresh degraded", slog.Any("err", err))
			}
		}
	}
}
