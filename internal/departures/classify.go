package departures

import (
	"time"

	"github.com/randytsao24/subwayboard/internal/models"
	"github.com/rs/zerolog/log"
)

// Pipeline classifies and aggregates provider responses
type Pipeline struct {
	Resolver *Resolver
	Mode     CountdownMode
	Now      func() time.Time
}

// NewPipeline creates a pipeline using the wall clock
func NewPipeline(resolver *Resolver, mode CountdownMode) *Pipeline {
	return &Pipeline{Resolver: resolver, Mode: mode, Now: time.Now}
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Classify splits one station's response into uptown and downtown records
// using configs[idx] for walking time and directional interest
func (p *Pipeline) Classify(resp *models.StationResponse, idx int, configs []models.StationConfig) ([]models.DepartureRecord, []models.DepartureRecord) {
	return p.classify(resp, idx, configs, p.now())
}

func (p *Pipeline) classify(resp *models.StationResponse, idx int, configs []models.StationConfig, now time.Time) ([]models.DepartureRecord, []models.DepartureRecord) {
	upTown := []models.DepartureRecord{}
	downTown := []models.DepartureRecord{}

	if resp == nil || resp.Lines == nil {
		log.Warn().Int("index", idx).Msg("No line data for station")
		return upTown, downTown
	}
	if idx < 0 || idx >= len(configs) {
		log.Warn().Int("index", idx).Msg("No station config for response")
		return upTown, downTown
	}
	cfg := configs[idx]

	for _, line := range resp.Lines {
		for _, dep := range line.Departures.S {
			if rec, ok := p.record(dep, cfg, cfg.Dir.DownTown, now); ok {
				downTown = append(downTown, rec)
			}
		}

		for _, dep := range line.Departures.N {
			if rec, ok := p.record(dep, cfg, cfg.Dir.UpTown, now); ok {
				upTown = append(upTown, rec)
			}
		}
	}

	return upTown, downTown
}

func (p *Pipeline) record(dep models.RawDeparture, cfg models.StationConfig, interested bool, now time.Time) (models.DepartureRecord, bool) {
	complexID, ok := p.Resolver.ResolveComplex(dep.DestinationStationID)
	if !ok || !interested {
		return models.DepartureRecord{}, false
	}

	name, ok := p.Resolver.ComplexName(complexID)
	if !ok {
		log.Debug().
			Str("station", cfg.StationID).
			Str("route", dep.RouteID).
			Str("complex", complexID).
			Msg("Skipping departure with unknown destination complex")
		return models.DepartureRecord{}, false
	}

	minutes, ok := Countdown(dep.Time, now, cfg.WalkingTime, p.Mode)
	if !ok {
		return models.DepartureRecord{}, false
	}

	return models.DepartureRecord{
		RouteID:     dep.RouteID,
		Time:        minutes,
		Destination: name,
		WalkingTime: cfg.WalkingTime,
	}, true
}
