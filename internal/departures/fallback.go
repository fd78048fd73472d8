package departures

import (
	"context"
	"fmt"
	"time"

	"github.com/randytsao24/subwayboard/internal/metrics"
	"github.com/randytsao24/subwayboard/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const defaultConcurrency = 4

// Fetcher is the remote departure provider. It returns one response per
// requested station, in request order.
type Fetcher interface {
	Departures(ctx context.Context, stationIDs []string) ([]*models.StationResponse, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, stationIDs []string) ([]*models.StationResponse, error)

// Departures calls f
func (f FetcherFunc) Departures(ctx context.Context, stationIDs []string) ([]*models.StationResponse, error) {
	return f(ctx, stationIDs)
}

// Controller fetches all stations at once and, if that fails, each station
// on its own, keeping whatever succeeded
type Controller struct {
	Pipeline    *Pipeline
	Concurrency int
}

// stationSlot holds one station's fallback outcome until all fetches finish
type stationSlot struct {
	upTown   []models.DepartureRecord
	downTown []models.DepartureRecord
	failure  *models.FailureRecord
}

// Run performs one aggregation cycle over stationIDs/configs (same order)
func (c *Controller) Run(ctx context.Context, stationIDs []string, configs []models.StationConfig, fetch Fetcher) models.AggregationResult {
	now := c.Pipeline.now()

	if len(stationIDs) == 0 {
		return c.Pipeline.aggregate(nil, configs, now)
	}

	log.Debug().Strs("stations", stationIDs).Msg("Fetching all stations together")
	responses, err := fetch.Departures(ctx, stationIDs)
	if err == nil {
		return c.Pipeline.aggregate(responses, configs, now)
	}

	metrics.BulkFetchFailures.Inc()
	log.Warn().Err(err).Int("stations", len(stationIDs)).Msg("Bulk fetch failed, falling back to individual stations")

	slots := make([]stationSlot, len(stationIDs))

	p := pool.New().WithMaxGoroutines(c.concurrency())
	for i, stationID := range stationIDs {
		p.Go(func() {
			slots[i] = c.fetchStation(ctx, stationID, stationConfig(configs, i), fetch, now)
		})
	}
	p.Wait()

	result := models.AggregationResult{
		UpTown:   []models.DepartureRecord{},
		DownTown: []models.DepartureRecord{},
		Failures: []models.FailureRecord{},
	}
	for _, slot := range slots {
		if slot.failure != nil {
			result.Failures = append(result.Failures, *slot.failure)
			continue
		}
		result.UpTown = append(result.UpTown, slot.upTown...)
		result.DownTown = append(result.DownTown, slot.downTown...)
	}

	if len(result.Failures) > 0 {
		log.Warn().
			Int("failed", len(result.Failures)).
			Int("stations", len(stationIDs)).
			Msg("Some stations failed, continuing with available data")
	}

	return result
}

func (c *Controller) fetchStation(ctx context.Context, stationID string, configs []models.StationConfig, fetch Fetcher, now time.Time) (slot stationSlot) {
	defer func() {
		if r := recover(); r != nil {
			slot = failedSlot(stationID, fmt.Errorf("panic: %v", r))
		}
	}()

	responses, err := fetch.Departures(ctx, []string{stationID})
	if err != nil {
		return failedSlot(stationID, err)
	}

	res := c.Pipeline.aggregate(responses, configs, now)
	log.Debug().Str("station", stationID).Msg("Station processed individually")

	return stationSlot{upTown: res.UpTown, downTown: res.DownTown}
}

func failedSlot(stationID string, err error) stationSlot {
	metrics.StationFetchFailures.Inc()
	log.Warn().Err(err).Str("station", stationID).Msg("Station fetch failed")

	return stationSlot{failure: &models.FailureRecord{StationID: stationID, Error: err.Error()}}
}

// stationConfig returns the one-element config slice for station i
func stationConfig(configs []models.StationConfig, i int) []models.StationConfig {
	if i >= len(configs) {
		return nil
	}
	return configs[i : i+1]
}

func (c *Controller) concurrency() int {
	if c.Concurrency < 1 {
		return defaultConcurrency
	}
	return c.Concurrency
}
