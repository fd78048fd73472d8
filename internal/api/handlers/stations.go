package handlers

import (
	"net/http"

	"github.com/randytsao24/subwayboard/internal/models"
)

type StationsHandler struct {
	directory StationLookup
	names     ComplexNamer
}

func NewStationsHandler(directory StationLookup, names ComplexNamer) *StationsHandler {
	return &StationsHandler{directory: directory, names: names}
}

// GetStation returns a directory entry with the complex it resolves to
func (h *StationsHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	stationID := r.PathValue("stationId")
	if stationID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Station ID is required",
		})
		return
	}

	station, found := h.directory.Get(stationID)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Station not found",
			"message": "Station " + stationID + " is not in the station directory",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"station": station,
		"complex": h.complexFor(station),
	})
}

func (h *StationsHandler) complexFor(station models.Station) any {
	complexID, ok := h.names.ResolveComplex(station.StationID)
	if !ok {
		return nil
	}

	cx := map[string]any{"id": complexID}
	if name, ok := h.names.ComplexName(complexID); ok {
		cx["name"] = name
	}
	return cx
}
