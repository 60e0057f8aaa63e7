package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"slotboard/infrastructure/ingest"
	"slotboard/infrastructure/layout"
)

const maxPayloadBytes = 32 << 20

// HTTP fetches a JSON payload from URL and normalizes it through ingest. One
// value serves one endpoint; FetchLocations and FetchOccupancy only differ in
// how the rows are decoded.
type HTTP struct {
	URL    string
	Client *http.Client
}

func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (h *HTTP) FetchLocations(ctx context.Context) ([]layout.LocationRecord, error) {
	rows, err := h.rows(ctx)
	if err != nil {
		return nil, err
	}
	return ingest.Locations(rows), nil
}

func (h *HTTP) FetchOccupancy(ctx context.Context) ([]layout.OccupancyRecord, error) {
	rows, err := h.rows(ctx)
	if err != nil {
		return nil, err
	}
	return ingest.Occupancy(rows), nil
}

func (h *HTTP) rows(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %d", h.URL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.URL, err)
	}
	return ingest.Rows(body), nil
}
