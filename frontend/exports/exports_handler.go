package exports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"slotboard/infrastructure/snapshot"
	"slotboard/infrastructure/sqlite"
)

// SlotsExportCSVHandler streams the current snapshot's slots as CSV. The
// optional rack query parameter limits the export to one rack.
func SlotsExportCSVHandler(db *sqlite.DB, svc *snapshot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Current()
		rack := strings.TrimSpace(r.URL.Query().Get("rack"))
		if rack != "" {
			group, ok := snap.Rack(rack)
			if !ok {
				http.Error(w, "rack not found", http.StatusNotFound)
				return
			}
			rack = group.Rack
		}

		var buf bytes.Buffer
		rows, err := writeSlotsCSV(&buf, snap, rack)
		if err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		filename := "slots.csv"
		if rack != "" {
			filename = "slots-" + rack + ".csv"
		}
		writeCSV(w, filename, buf.Bytes())
		if err := recordExportRun(r.Context(), db, snap, TypeSlots, requestedBy(r), rows); err != nil {
			slog.Error("record export run failed", slog.String("type", TypeSlots), slog.Any("err", err))
		}
	}
}

func StatsExportCSVHandler(db *sqlite.DB, svc *snapshot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Current()
		var buf bytes.Buffer
		rows, err := writeStatsCSV(&buf, snap.Stats)
		if err != nil {
			http.Error(w, "failed to export stats csv", http.StatusInternalServerError)
			return
		}
		writeCSV(w, "stats.csv", buf.Bytes())
		if err := recordExportRun(r.Context(), db, snap, TypeStats, requestedBy(r), rows); err != nil {
			slog.Error("record export run failed", slog.String("type", TypeStats), slog.Any("err", err))
		}
	}
}

func ExportRunsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		runs, err := ListExportRuns(r.Context(), db, limit)
		if err != nil {
			http.Error(w, "failed to load export runs", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(runs)
	}
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func requestedBy(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get("actor")); v != "" {
		return v
	}
	return "api"
}
