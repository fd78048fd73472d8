package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/randytsao24/subwayboard/internal/config"
	"github.com/randytsao24/subwayboard/internal/departures"
	"github.com/randytsao24/subwayboard/internal/models"
	"github.com/rs/zerolog"
)

const maxRequestBytes = 1 << 20

type DeparturesHandler struct {
	cycles CycleRunner
	boards BoardSource
}

func NewDeparturesHandler(cycles CycleRunner, boards BoardSource) *DeparturesHandler {
	return &DeparturesHandler{cycles: cycles, boards: boards}
}

// departuresRequest is the POST body sent by a display
type departuresRequest struct {
	Stations    []models.StationConfig `json:"stations"`
	DisplayType string                 `json:"displayType"`
	APIKey      string                 `json:"apiKey"`
}

// PostDepartures runs a cycle over the stations in the request body
func (h *DeparturesHandler) PostDepartures(w http.ResponseWriter, r *http.Request) {
	var req departuresRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := config.ValidateStations(req.Stations); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stations", err)
		return
	}

	board := config.Board{DisplayType: req.DisplayType}
	payload := h.cycles.Cycle(r.Context(), departures.Request{
		Stations: req.Stations,
		Preview:  board.Preview(),
		APIKey:   req.APIKey,
	})

	writeJSON(w, http.StatusOK, payload)
}

// GetDepartures runs a cycle over the configured board
func (h *DeparturesHandler) GetDepartures(w http.ResponseWriter, r *http.Request) {
	board, err := h.boards.Board()
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to load station board")
		writeError(w, http.StatusInternalServerError, "Failed to load station board", err)
		return
	}

	preview, err := parseBoolQueryParam(r, "preview", board.Preview())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid preview parameter", err)
		return
	}

	payload := h.cycles.Cycle(r.Context(), departures.Request{
		Stations: board.Stations,
		Preview:  preview,
	})

	writeJSON(w, http.StatusOK, payload)
}

func parseBoolQueryParam(r *http.Request, name string, defaultVal bool) (bool, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.New(name + " must be true or false")
	}
	return b, nil
}
