package handlers

import (
	"context"

	"github.com/randytsao24/subwayboard/internal/config"
	"github.com/randytsao24/subwayboard/internal/departures"
	"github.com/randytsao24/subwayboard/internal/models"
)

// CycleRunner runs one departure aggregation cycle.
type CycleRunner interface {
	Cycle(ctx context.Context, req departures.Request) models.Payload
}

// BoardSource supplies the configured station board.
type BoardSource interface {
	Board() (*config.Board, error)
}

// StationLookup abstracts the station directory for testability.
type StationLookup interface {
	Get(stationID string) (models.Station, bool)
	Count() int
}

// ComplexNamer resolves station ids to complexes and complex names.
type ComplexNamer interface {
	ResolveComplex(stationID string) (string, bool)
	ComplexName(complexID string) (string, bool)
}

// TableCounter reports the size of a reference table.
type TableCounter interface {
	Count() int
}
