package departures

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/randytsao24/subwayboard/internal/metrics"
	"github.com/randytsao24/subwayboard/internal/models"
	"github.com/rs/zerolog/log"
)

// Publisher delivers a finished payload to the display layer
type Publisher interface {
	Publish(ctx context.Context, payload models.Payload) error
}

// KeyedFetcher is a Fetcher that can be rebound to a caller's API key
type KeyedFetcher interface {
	Fetcher
	WithAPIKey(key string) Fetcher
}

// Request is one inbound aggregation trigger
type Request struct {
	Stations []models.StationConfig
	Preview  bool
	APIKey   string
}

// Options tunes the cycle service
type Options struct {
	Concurrency int
	Mode        CountdownMode
	Sort        bool
}

// Service runs request/response aggregation cycles
type Service struct {
	controller *Controller
	fetcher    Fetcher
	publisher  Publisher
	sort       bool
}

// NewService wires the pipeline, fallback controller and publisher.
// publisher may be nil.
func NewService(resolver *Resolver, fetcher Fetcher, publisher Publisher, opts Options) *Service {
	return &Service{
		controller: &Controller{
			Pipeline:    NewPipeline(resolver, opts.Mode),
			Concurrency: opts.Concurrency,
		},
		fetcher:   fetcher,
		publisher: publisher,
		sort:      opts.Sort,
	}
}

// Cycle aggregates departures for the requested stations, publishes the
// payload once and returns it
func (s *Service) Cycle(ctx context.Context, req Request) models.Payload {
	start := time.Now()
	cycleID := uuid.New().String()

	stationIDs := make([]string, len(req.Stations))
	for i, st := range req.Stations {
		stationIDs[i] = st.StationID
	}

	fetcher := s.fetcher
	if req.APIKey != "" {
		if kf, ok := fetcher.(KeyedFetcher); ok {
			fetcher = kf.WithAPIKey(req.APIKey)
		}
	}

	result := s.controller.Run(ctx, stationIDs, req.Stations, fetcher)

	payload := Shape(stationIDs, result, req.Preview)
	if s.sort {
		payload = SortBySoonest(payload)
	}

	metrics.DeparturesPublished.WithLabelValues("downtown").Add(float64(len(payload.DownTown())))
	metrics.DeparturesPublished.WithLabelValues("uptown").Add(float64(len(payload.UpTown())))
	metrics.CycleDuration.Observe(time.Since(start).Seconds())

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, payload); err != nil {
			log.Error().Err(err).Str("cycle", cycleID).Msg("Failed to publish departures")
		}
	}

	log.Info().
		Str("cycle", cycleID).
		Int("stations", len(stationIDs)).
		Int("downtown", len(payload.DownTown())).
		Int("uptown", len(payload.UpTown())).
		Int("failed", len(payload.Errors)).
		Str("duration", time.Since(start).String()).
		Msg("Departure cycle complete")

	return payload
}
