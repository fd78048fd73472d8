package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/randytsao24/subwayboard/internal/api/handlers"
	"github.com/randytsao24/subwayboard/internal/config"
)

// Services are the backends the HTTP handlers call into
type Services struct {
	Cycles    handlers.CycleRunner
	Boards    handlers.BoardSource
	Directory handlers.StationLookup
	Complexes handlers.TableCounter
	Names     handlers.ComplexNamer
}

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(cfg *config.Config, svc Services) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(svc.Directory, svc.Complexes)
	rootHandler := handlers.NewRootHandler()
	departuresHandler := handlers.NewDeparturesHandler(svc.Cycles, svc.Boards)
	stationsHandler := handlers.NewStationsHandler(svc.Directory, svc.Names)

	// Core routes
	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Departure boards
	mux.HandleFunc("POST /departures", departuresHandler.PostDepartures)
	mux.HandleFunc("GET /departures", departuresHandler.GetDepartures)

	// Station directory
	mux.HandleFunc("GET /stations/{stationId}", stationsHandler.GetStation)

	mux.HandleFunc("/", rootHandler.NotFound)

	// Apply middleware stack
	handler := Chain(mux,
		Recovery,
		RequestID,
		Logging,
		CORS,
		Timeout(requestTimeout(cfg)),
	)

	return handler
}

// requestTimeout leaves room for a bulk fetch followed by per-station retries
func requestTimeout(cfg *config.Config) time.Duration {
	return max(15*time.Second, 3*cfg.HTTPTimeout)
}
