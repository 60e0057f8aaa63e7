package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"slotboard/frontend/board"
	"slotboard/frontend/exports"
	"slotboard/frontend/locations"
	"slotboard/infrastructure/audit"
	"slotboard/infrastructure/autofit"
	"slotboard/infrastructure/cache"
	"slotboard/infrastructure/snapshot"
	"slotboard/infrastructure/source"
	"slotboard/infrastructure/sqlite"
)

type integrationEnv struct {
	server *httptest.Server
	db     *sqlite.DB
	board  *snapshot.Service
	labels *cache.LabelCache
}

func setupIntegrationServer(t *testing.T) *integrationEnv {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "server-integration.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	store := source.NewStore(db)
	viewport := autofit.NewScheduler(autofit.NewSizer(autofit.DefaultPolicy(), nil), func(fn func()) { fn() })
	boardSvc := snapshot.NewService(store, store, snapshot.Options{Viewport: viewport})
	labelCache := cache.NewLabelCache()

	s := NewServer("127.0.0.1:0", db, boardSvc, viewport, labelCache, audit.NewService())
	ts := httptest.NewServer(s.Handler())
	env := &integrationEnv{server: ts, db: db, board: boardSvc, labels: labelCache}
	t.Cleanup(func() {
		env.server.Close()
		_ = env.db.Close()
	})
	return env
}

func (e *integrationEnv) upload(t *testing.T, kind, name, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("kind", kind); err != nil {
		t.Fatalf("write kind: %v", err)
	}
	if err := mw.WriteField("actor", "integration"); err != nil {
		t.Fatalf("write actor: %v", err)
	}
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	resp, err := http.Post(e.server.URL+"/api/locations/import", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post import: %v", err)
	}
	return resp
}

func getJSON[T any](t *testing.T, target string) T {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatalf("get %s: %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("get %s: status %d: %s", target, resp.StatusCode, b)
	}
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", target, err)
	}
	return v
}

const integrationLocations = `location_id,location_code,rack,shelf,bay,sub_bay,sub_location
1,C-10-01,C-10,1,A,0,2
2,C-10-02,C-10,1,B,0,2
3,C-10-03,C-10,2,A,0,2
,B-5-01,B-5,1,A,0,1
5,C-2-01,C-2,1,A,0,1
`

const integrationOccupancy = `location_id,location_code,pallet_no,invoice_no,lot_no,item_code,description,qty
1,,PLT-0001,INV-1,,SKU-1,Widgets,10
,b-5-01,PLT-0002,INV-2,,SKU-2,Gadgets,4
`

func TestHealth(t *testing.T) {
	env := setupIntegrationServer(t)
	resp, err := http.Get(env.server.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected secure headers")
	}
}

func TestEmptyBoardBeforeImport(t *testing.T) {
	env := setupIntegrationServer(t)
	resp := getJSON[board.BoardResponse](t, env.server.URL+"/api/board")
	if resp.TotalCols != 1 || resp.Rows != 1 || len(resp.Pieces) != 0 {
		t.Fatalf("expected minimum board, got %+v", resp)
	}
}

func TestImportInvalidKindRejected(t *testing.T) {
	env := setupIntegrationServer(t)
	resp := env.upload(t, "pallets", "x.csv", "a,b\n")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestImportInvalidHeaderRejected(t *testing.T) {
	env := setupIntegrationServer(t)
	resp := env.upload(t, locations.KindLocations, "bad.csv", "sku,description\nA,B\n")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "invalid CSV header") {
		t.Fatalf("expected header error message, got %q", b)
	}
}

func TestServerEndToEndCoreFlow(t *testing.T) {
	env := setupIntegrationServer(t)

	for _, f := range []struct{ kind, name, body string }{
		{locations.KindLocations, "locations.csv", integrationLocations},
		{locations.KindOccupancy, "occupancy.csv", integrationOccupancy},
	} {
		resp := env.upload(t, f.kind, f.name, f.body)
		var out locations.ImportResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode import response: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || out.Summary.Errors != 0 || out.SnapshotID == "" {
			t.Fatalf("unexpected import result for %s: %d %+v", f.kind, resp.StatusCode, out)
		}
	}

	b := getJSON[board.BoardResponse](t, env.server.URL+"/api/board?width=1016")
	racks := make([]string, 0, len(b.Groups))
	for _, g := range b.Groups {
		racks = append(racks, g.Rack)
	}
	if strings.Join(racks, ",") != "C-10,B-5,C-2" {
		t.Fatalf("unexpected rack order: %v", racks)
	}
	if b.TotalCols != 4 || b.Rows != 2 || len(b.Pieces) != 8 {
		t.Fatalf("unexpected board dims: cols=%d rows=%d pieces=%d", b.TotalCols, b.Rows, len(b.Pieces))
	}
	if b.CellSize != 200 {
		t.Fatalf("expected (1016-16)/(4+1)=200, got %d", b.CellSize)
	}

	if c := b.Stats["C"]; c.Total != 4 || c.Used != 1 || c.Percentage != "25.00" {
		t.Fatalf("unexpected C stats: %+v", c)
	}
	if st := b.Stats["B"]; st.Total != 1 || st.Used != 1 || st.Percentage != "100.00" {
		t.Fatalf("unexpected B stats: %+v", st)
	}

	h := getJSON[board.HighlightsResponse](t, env.server.URL+"/api/board/highlights?q=inv-2&field=invoice")
	if len(h.Locations) != 1 || h.Locations[0] != "code:B-5-01" {
		t.Fatalf("unexpected highlights: %+v", h)
	}

	occ := getJSON[board.OccupancyResponse](t, env.server.URL+"/api/board/locations/"+url.PathEscape("id:1")+"/occupancy")
	if len(occ.Occupancy) != 1 || occ.Occupancy[0].PalletNo != "PLT-0001" || occ.Location == nil || occ.Location.Rack != "C-10" {
		t.Fatalf("unexpected occupancy response: %+v", occ)
	}

	runs := getJSON[[]locations.ImportRunRecord](t, env.server.URL+"/api/locations/imports")
	if len(runs) != 2 || runs[0].Kind != locations.KindOccupancy || runs[0].ImportedBy != "integration" {
		t.Fatalf("unexpected import runs: %+v", runs)
	}

	labelResp, err := http.Get(env.server.URL + "/api/racks/c-10/labels.pdf")
	if err != nil {
		t.Fatalf("get labels: %v", err)
	}
	pdf, _ := io.ReadAll(labelResp.Body)
	labelResp.Body.Close()
	if labelResp.StatusCode != http.StatusOK || labelResp.Header.Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("unexpected label response: %d %q", labelResp.StatusCode, labelResp.Header.Get("Content-Type"))
	}
	if env.labels.Len() != 1 {
		t.Fatalf("expected rendered labels to be cached")
	}

	missing, err := http.Get(env.server.URL + "/api/racks/Z-9/labels.pdf")
	if err != nil {
		t.Fatalf("get missing labels: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown rack, got %d", missing.StatusCode)
	}
}

func TestRefreshAndViewportCommands(t *testing.T) {
	env := setupIntegrationServer(t)
	resp := env.upload(t, locations.KindLocations, "locations.csv", integrationLocations)
	resp.Body.Close()

	refresh, err := http.Post(env.server.URL+"/api/board/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("post refresh: %v", err)
	}
	var rr board.RefreshResponse
	if err := json.NewDecoder(refresh.Body).Decode(&rr); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	refresh.Body.Close()
	if rr.Generation != 2 || rr.Error != "" {
		t.Fatalf("unexpected refresh response: %+v", rr)
	}

	vp, err := http.PostForm(env.server.URL+"/api/board/viewport", url.Values{"width": {"1016"}})
	if err != nil {
		t.Fatalf("post viewport: %v", err)
	}
	vp.Body.Close()
	if vp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", vp.StatusCode)
	}

	b := getJSON[board.BoardResponse](t, env.server.URL+"/api/board")
	if b.CellSize != 200 {
		t.Fatalf("expected viewport-driven cell size 200, got %d", b.CellSize)
	}
}

func TestExportsAreRecorded(t *testing.T) {
	env := setupIntegrationServer(t)
	resp := env.upload(t, locations.KindLocations, "locations.csv", integrationLocations)
	resp.Body.Close()

	csvResp, err := http.Get(env.server.URL + "/api/exports/slots.csv")
	if err != nil {
		t.Fatalf("get slots export: %v", err)
	}
	body, _ := io.ReadAll(csvResp.Body)
	csvResp.Body.Close()
	if csvResp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "rack,location_code,") {
		t.Fatalf("unexpected slots export %d: %q", csvResp.StatusCode, body)
	}

	runs := getJSON[[]exports.ExportRunRecord](t, env.server.URL+"/api/exports")
	if len(runs) != 1 || runs[0].ExportType != exports.TypeSlots || runs[0].RowCount == 0 {
		t.Fatalf("unexpected export runs: %+v", runs)
	}
}
