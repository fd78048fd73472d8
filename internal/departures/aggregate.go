package departures

import (
	"time"

	"github.com/randytsao24/subwayboard/internal/models"
)

// Aggregate classifies responses[i] with configs[i] and concatenates the
// results in station order. Failures are always empty here.
func (p *Pipeline) Aggregate(responses []*models.StationResponse, configs []models.StationConfig) models.AggregationResult {
	return p.aggregate(responses, configs, p.now())
}

func (p *Pipeline) aggregate(responses []*models.StationResponse, configs []models.StationConfig, now time.Time) models.AggregationResult {
	result := models.AggregationResult{
		UpTown:   []models.DepartureRecord{},
		DownTown: []models.DepartureRecord{},
		Failures: []models.FailureRecord{},
	}

	for i, resp := range responses {
		upTown, downTown := p.classify(resp, i, configs, now)
		result.UpTown = append(result.UpTown, upTown...)
		result.DownTown = append(result.DownTown, downTown...)
	}

	return result
}
