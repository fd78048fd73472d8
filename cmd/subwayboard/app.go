package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/randytsao24/subwayboard/internal/cache"
	"github.com/randytsao24/subwayboard/internal/config"
	"github.com/randytsao24/subwayboard/internal/departures"
	"github.com/randytsao24/subwayboard/internal/notify"
	"github.com/randytsao24/subwayboard/internal/stations"
	"github.com/randytsao24/subwayboard/internal/transit"
)

// application holds the wired services shared by every command
type application struct {
	cfg      *config.Config
	ref      *stations.Reference
	resolver *departures.Resolver
	subway   *transit.SubwayService
	service  *departures.Service
	closers  []func()
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	ref, err := stations.LoadReference(cfg.StationDirectoryFile, cfg.ComplexesFile)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("stations", ref.Directory.Count()).
		Int("complexes", ref.Complexes.Count()).
		Msg("Reference tables loaded")

	app := &application{
		cfg:      cfg,
		ref:      ref,
		resolver: departures.NewResolver(ref),
	}

	var (
		store     cache.Store
		publisher departures.Publisher
	)

	if cfg.UseRedis() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDatabase,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddress, err)
		}
		app.closers = append(app.closers, func() { client.Close() })

		store = cache.NewRedis(client, cfg.CacheTTL)
		publisher = notify.NewRedisPublisher(client, cfg.NotifyChannel)
		log.Info().Str("address", cfg.RedisAddress).Str("channel", cfg.NotifyChannel).Msg("Using Redis cache and publisher")
	} else {
		mem := cache.NewMemory(cfg.CacheTTL)
		app.closers = append(app.closers, mem.Close)

		store = mem
		publisher = notify.LogPublisher{}
	}

	app.subway = transit.NewSubwayService(ref.Directory, store, cfg.HTTPTimeout)
	var fetcher departures.Fetcher = app.subway
	if cfg.MTAAPIKey != "" {
		fetcher = app.subway.WithAPIKey(cfg.MTAAPIKey)
	}

	app.service = departures.NewService(app.resolver, fetcher, publisher, departures.Options{
		Concurrency: cfg.FallbackConcurrency,
		Mode:        cfg.Mode(),
		Sort:        cfg.SortDepartures,
	})

	return app, nil
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
