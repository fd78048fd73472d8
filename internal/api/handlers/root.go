package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "subwayboard",
		"description": "NYC subway departure boards, uptown and downtown",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /":                     "API information",
			"GET /health":               "Health check",
			"POST /departures":          "Departures for the stations in the request body",
			"GET /departures":           "Departures for the configured board (?preview=true|false)",
			"GET /stations/{stationId}": "Station directory entry and complex",
			"GET /metrics":              "Prometheus metrics",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}
