package http

import (
	"slotboard/frontend/board"
	"slotboard/frontend/exports"
	"slotboard/frontend/locations"
	"slotboard/frontend/locations/labels"

	"github.com/go-chi/chi/v5"
)

// RegisterBoardRoutes registers the read side of the board and its two
// commands, refresh and viewport resize.
func (s *Server) RegisterBoardRoutes(r chi.Router) {
	r.Route("/board", func(r chi.Router) {
		r.Get("/", board.BoardQueryHandler(s.Board, s.Viewport))
		r.Get("/stats", board.StatsQueryHandler(s.Board))
		r.Get("/highlights", board.HighlightsQueryHandler(s.Board))
		r.Get("/locations/{key}/occupancy", board.OccupancyQueryHandler(s.Board))
		r.Post("/refresh", board.RefreshCommandHandler(s.Board))
		r.Post("/viewport", board.ViewportCommandHandler(s.Board, s.Viewport))
	})
}

func (s *Server) RegisterLocationRoutes(r chi.Router) {
	r.Post("/locations/import", locations.ImportCommandHandler(s.DB, s.Audit, s.Board))
	r.Get("/locations/imports", locations.ImportRunsQueryHandler(s.DB))
	r.Get("/racks/{rack}/labels.pdf", labels.RackLabelsQueryHandler(s.Board, s.Labels))
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	r.Get("/exports", exports.ExportRunsQueryHandler(s.DB))
	r.Get("/exports/slots.csv", exports.SlotsExportCSVHandler(s.DB, s.Board))
	r.Get("/exports/stats.csv", exports.StatsExportCSVHandler(s.DB, s.Board))
}
