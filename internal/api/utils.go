package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError and respondData wrap the success envelope the dashboard
// expects on every endpoint.
func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]any{"success": false, "error": msg})
}

func respondData(w http.ResponseWriter, code int, data any) {
	respondJSON(w, code, map[string]any{"success": true, "data": data})
}

// parseEntryDate validates a YYYY-MM-DD wire date. Future dates are
// rejected: entries and reports only ever cover days that have happened.
func parseEntryDate(raw string, now time.Time) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return time.Time{}, false
	}
	return d, true
}

func authUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value(userIDContextKey).(int64)
	return uid, ok
}
