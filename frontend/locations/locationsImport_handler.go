package locations

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"slotboard/infrastructure/audit"
	"slotboard/infrastructure/snapshot"
	"slotboard/infrastructure/sqlite"
)

const maxUploadBytes = 10 << 20

// ImportCommandHandler accepts a multipart upload with fields file, kind and
// an optional actor, imports it and refreshes the board.
func ImportCommandHandler(db *sqlite.DB, auditSvc *audit.Service, svc *snapshot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		kind := strings.ToLower(strings.TrimSpace(r.FormValue("kind")))
		if _, err := Header(kind); err != nil {
			http.Error(w, "kind must be locations or occupancy", http.StatusBadRequest)
			return
		}
		file, fh, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		actor := strings.TrimSpace(r.FormValue("actor"))
		if actor == "" {
			actor = "import"
		}

		summary, err := ImportCSV(r.Context(), db, auditSvc, actor, kind, fh.Filename, file)
		if err != nil {
			if errors.Is(err, ErrUnknownKind) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			slog.Error("csv import failed", slog.String("kind", kind), slog.String("file", fh.Filename), slog.Any("err", err))
			http.Error(w, "Error: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		slog.Info("csv imported",
			slog.String("kind", kind),
			slog.String("file", fh.Filename),
			slog.Int("inserted", summary.Inserted),
			slog.Int("updated", summary.Updated),
			slog.Int("errors", summary.Errors),
		)

		resp := ImportResponse{Summary: summary}
		if svc != nil {
			snap, err := svc.Refresh(r.Context())
			resp.SnapshotID = snap.ID
			if err != nil {
				resp.Warning = err.Error()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// ImportRunsQueryHandler lists recent imports, newest first.
func ImportRunsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		runs, err := ListImportRuns(r.Context(), db, limit)
		if err != nil {
			http.Error(w, "failed to load import runs", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(runs)
	}
}
