package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cinedex/internal/logging"
)

// Envelope is the response body for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp string `json:"timestamp"`
	Total     *int   `json:"total,omitempty"`
	Page      *int   `json:"page,omitempty"`
}

// DeleteResult is the data payload for a successful delete.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// HealthStatus is the data payload for the health endpoint.
type HealthStatus struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

func newMeta(now time.Time) *Meta {
	return &Meta{Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00")}
}

func (m *Meta) withTotal(total int) *Meta {
	m.Total = &total
	return m
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", logging.Error(err))
	}
}

func writeSuccess(w http.ResponseWriter, logger *slog.Logger, status int, data any, meta *Meta) {
	if meta == nil {
		meta = newMeta(time.Now())
	}
	writeJSON(w, logger, status, Envelope{Success: true, Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, Envelope{Success: false, Data: nil, Error: message, Meta: newMeta(time.Now())})
}
