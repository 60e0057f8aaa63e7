package labels

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"slotboard/infrastructure/cache"
	"slotboard/infrastructure/snapshot"

	"github.com/go-chi/chi/v5"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// RackLabelsQueryHandler renders one label per slot of a rack. PDFs are
// cached until the next published snapshot.
func RackLabelsQueryHandler(svc *snapshot.Service, labelCache *cache.LabelCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Current()
		group, ok := snap.Rack(chi.URLParam(r, "rack"))
		if !ok || len(group.Items) == 0 {
			http.Error(w, "rack not found", http.StatusNotFound)
			return
		}

		pdf, hit := labelCache.Get(group.Rack, snap.Generation)
		if !hit {
			var err error
			pdf, err = renderSlotLabelsPDF(LabelsForRack(group, snap.Index), time.Now())
			if err != nil {
				slog.Error("render slot labels failed", slog.String("rack", group.Rack), slog.Any("err", err))
				http.Error(w, "failed to render labels", http.StatusInternalServerError)
				return
			}
			labelCache.Add(group.Rack, snap.Generation, pdf)
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "rack-"+unsafeFileChars.ReplaceAllString(group.Rack, "_")+"-labels.pdf"))
		_, _ = w.Write(pdf)
	}
}
