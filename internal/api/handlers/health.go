// Package handlers contains HTTP request handlers
package handlers

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	startTime time.Time
	stations  TableCounter
	complexes TableCounter
}

func NewHealthHandler(stations, complexes TableCounter) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		stations:  stations,
		complexes: complexes,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
		"uptime":    time.Since(h.startTime).String(),
		"tables": map[string]int{
			"stations":  h.stations.Count(),
			"complexes": h.complexes.Count(),
		},
	})
}
