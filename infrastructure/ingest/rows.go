// Package ingest normalizes loosely shaped JSON payloads from warehouse
// endpoints into layout records.
package ingest

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// wrapperKeys are checked in order when a payload is an object.
var wrapperKeys = []string{"result", "rows", "data", "items"}

// Rows extracts the row objects from payload. It accepts a bare array, an
// object carrying the array under result, result.rows, rows, data or items,
// or a single bare object. Anything else yields an empty slice; ingestion
// never fails.
func Rows(payload []byte) []map[string]any {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return []map[string]any{}
	}

	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		slog.Warn("ingest payload is not valid json", slog.Any("err", err))
		return []map[string]any{}
	}

	switch t := v.(type) {
	case []any:
		return objects(t)
	case map[string]any:
		if arr, ok := unwrap(t); ok {
			return objects(arr)
		}
		if hasWrapperKey(t) {
			slog.Warn("ingest envelope carries no row array")
			return []map[string]any{}
		}
		return []map[string]any{t}
	default:
		slog.Warn("ingest payload has unsupported shape")
		return []map[string]any{}
	}
}

func unwrap(obj map[string]any) ([]any, bool) {
	if arr, ok := obj["result"].([]any); ok {
		return arr, true
	}
	if inner, ok := obj["result"].(map[string]any); ok {
		if arr, ok := inner["rows"].([]any); ok {
			return arr, true
		}
	}
	for _, k := range wrapperKeys[1:] {
		if arr, ok := obj[k].([]any); ok {
			return arr, true
		}
	}
	return nil, false
}

func hasWrapperKey(obj map[string]any) bool {
	for _, k := range wrapperKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func objects(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	skipped := 0
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
			continue
		}
		skipped++
	}
	if skipped > 0 {
		slog.Warn("ingest skipped non-object rows", slog.Int("skipped", skipped))
	}
	return out
}
