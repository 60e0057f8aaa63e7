package board

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"slotboard/infrastructure/autofit"
	"slotboard/infrastructure/layout"
	"slotboard/infrastructure/snapshot"

	"github.com/go-chi/chi/v5"
)

// BoardQueryHandler returns the current board. ?width= sizes cells for that
// width without touching the shared viewport.
func BoardQueryHandler(svc *snapshot.Service, viewport *autofit.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Current()

		cellSize, err := cellSizeFor(r, viewport, snap.Board.TotalCols)
		if err != nil {
			http.Error(w, "invalid width", http.StatusBadRequest)
			return
		}

		pieces := make([]PieceView, 0, len(snap.Board.Pieces))
		for _, p := range snap.Board.Pieces {
			view := PieceView{BoardPiece: p}
			if p.Item != nil {
				view.Key, _ = layout.ResolveKey(p.Item.Ident)
				view.Occupied = snap.Index.Has(p.Item.Ident)
			}
			pieces = append(pieces, view)
		}

		writeJSON(w, http.StatusOK, BoardResponse{
			SnapshotID: snap.ID,
			Generation: snap.Generation,
			BuiltAt:    snap.BuiltAt,
			Groups:     snap.Groups,
			Pieces:     pieces,
			Rows:       snap.Board.Rows,
			TotalCols:  snap.Board.TotalCols,
			CellSize:   cellSize,
			Stats:      snap.Stats,
			Warnings:   snap.Warnings,
		})
	}
}

func StatsQueryHandler(svc *snapshot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Current()
		writeJSON(w, http.StatusOK, StatsResponse{SnapshotID: snap.ID, Stats: snap.Stats})
	}
}

// HighlightsQueryHandler searches rack names and the chosen occupancy field.
func HighlightsQueryHandler(svc *snapshot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Current()
		q := r.URL.Query().Get("q")
		h := snap.Highlights(q, layout.ParseField(r.URL.Query().Get("field")))
		writeJSON(w, http.StatusOK, HighlightsResponse{
			SnapshotID: snap.ID,
			Query:      strings.TrimSpace(q),
			Field:      h.Field,
			Racks:      h.Racks.Sorted(),
			Locations:  h.Locations.Sorted(),
		})
	}
}

// OccupancyQueryHandler lists what is stored at one location.
func OccupancyQueryHandler(svc *snapshot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := layout.ParseKey(chi.URLParam(r, "key"))
		if !ok {
			http.Error(w, "invalid location key", http.StatusBadRequest)
			return
		}
		snap := svc.Current()
		resp := OccupancyResponse{Key: key, Occupancy: snap.OccupancyAt(key)}
		if loc, found := snap.Location(key); found {
			resp.Location = &loc
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// RefreshCommandHandler runs a pass now. Fetch failures are reported in the
// body; the board still updates with whatever data was available.
func RefreshCommandHandler(svc *snapshot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Refresh(r.Context())
		resp := RefreshResponse{SnapshotID: snap.ID, Generation: snap.Generation, Warnings: snap.Warnings}
		if err != nil {
			slog.Warn("manual refresh degraded", slog.Any("err", err))
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ViewportCommandHandler records a resize of the shared display.
func ViewportCommandHandler(svc *snapshot.Service, viewport *autofit.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width, err := strconv.Atoi(strings.TrimSpace(r.FormValue("width")))
		if err != nil || width < 0 {
			http.Error(w, "width must be a non-negative integer", http.StatusBadRequest)
			return
		}
		viewport.Resize(width)

		totalCols := svc.Current().Board.TotalCols
		size, applied := viewport.Sizer().Size()
		if !applied {
			size = viewport.Sizer().Policy().CellSize(width, totalCols)
		}
		writeJSON(w, http.StatusAccepted, ViewportResponse{
			Width:     width,
			TotalCols: totalCols,
			CellSize:  size,
			Pending:   viewport.Pending(),
		})
	}
}

func cellSizeFor(r *http.Request, viewport *autofit.Scheduler, totalCols int) (int, error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("width")); raw != "" {
		width, err := strconv.Atoi(raw)
		if err != nil {
			return 0, err
		}
		return viewport.Sizer().Policy().CellSize(width, totalCols), nil
	}
	if size, ok := viewport.Sizer().Size(); ok {
		return size, nil
	}
	return viewport.Sizer().Policy().CellSize(0, totalCols), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", slog.Any("err", err))
	}
}
