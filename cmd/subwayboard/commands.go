package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/randytsao24/subwayboard/internal/api"
	"github.com/randytsao24/subwayboard/internal/config"
	"github.com/randytsao24/subwayboard/internal/departures"
	"github.com/randytsao24/subwayboard/internal/models"
)

func serveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the departures HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "address to listen on",
				Value: ":" + cfg.Port,
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			router := api.NewRouter(cfg, api.Services{
				Cycles:    app.service,
				Boards:    config.StationFile(cfg.StationsFile),
				Directory: app.ref.Directory,
				Complexes: app.ref.Complexes,
				Names:     app.resolver,
			})

			server := &http.Server{
				Addr:         c.String("listen"),
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("address", server.Addr).
					Str("env", cfg.Env).
					Msg("subwayboard server starting")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func departuresCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "departures",
		Usage: "run one departure cycle and print the payload",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "limit each direction to the first few departures (defaults to the board's display type)",
			},
			&cli.StringFlag{
				Name:  "stations-file",
				Usage: "station board YAML file",
				Value: cfg.StationsFile,
			},
		},
		Action: func(c *cli.Context) error {
			board, err := config.LoadStations(c.String("stations-file"))
			if err != nil {
				return err
			}

			app, err := newApplication(c.Context, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			preview := board.Preview()
			if c.IsSet("preview") {
				preview = c.Bool("preview")
			}

			payload := app.service.Cycle(c.Context, departures.Request{
				Stations: board.Stations,
				Preview:  preview,
			})

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}
}

func stationCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "station",
		Usage:     "show how a station resolves and what the feeds report for it",
		ArgsUsage: "<stationId>",
		Action: func(c *cli.Context) error {
			stationID := c.Args().First()
			if stationID == "" {
				return errors.New("station id is required")
			}

			app, err := newApplication(c.Context, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			station, ok := app.ref.Directory.Get(stationID)
			if !ok {
				return fmt.Errorf("station %s is not in the station directory", stationID)
			}
			fmt.Println("Station:")
			pretty.Println(station)

			complexID, ok := app.resolver.ResolveComplex(stationID)
			name, named := app.resolver.ComplexName(complexID)
			fmt.Printf("Complex: %q resolved=%v name=%q named=%v\n", complexID, ok, name, named)

			ctx, cancel := context.WithTimeout(c.Context, 3*cfg.HTTPTimeout)
			defer cancel()

			var fetcher departures.Fetcher = app.subway
			if cfg.MTAAPIKey != "" {
				fetcher = app.subway.WithAPIKey(cfg.MTAAPIKey)
			}
			responses, err := fetcher.Departures(ctx, []string{stationID})
			if err != nil {
				return fmt.Errorf("fetching departures: %w", err)
			}

			fmt.Println("Feed data:")
			pretty.Println(responses)

			pipeline := departures.NewPipeline(app.resolver, cfg.Mode())
			up, down := pipeline.Classify(responses[0], 0, []models.StationConfig{{
				StationID: stationID,
				Dir:       models.Direction{UpTown: true, DownTown: true},
			}})
			fmt.Println("Uptown:")
			pretty.Println(up)
			fmt.Println("Downtown:")
			pretty.Println(down)

			return nil
		},
	}
}
