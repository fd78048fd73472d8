package config

import (
	"strings"
	"testing"
	"time"

	"github.com/randytsao24/subwayboard/internal/departures"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Port = %s, want 3000", cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL)
	}
	if cfg.FallbackConcurrency != 4 {
		t.Errorf("FallbackConcurrency = %d, want 4", cfg.FallbackConcurrency)
	}
	if cfg.Mode() != departures.CountdownWrap {
		t.Errorf("Mode() = %s, want wrap", cfg.Mode())
	}
	if cfg.NotifyChannel != "TRAIN_TABLE" {
		t.Errorf("NotifyChannel = %s, want TRAIN_TABLE", cfg.NotifyChannel)
	}
	if cfg.UseRedis() {
		t.Error("UseRedis() should be false without REDIS_ADDRESS")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() default config error = %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("FALLBACK_CONCURRENCY", "8")
	t.Setenv("COUNTDOWN_MODE", "exact")
	t.Setenv("SORT_DEPARTURES", "yes")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_DATABASE", "2")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Errorf("CacheTTL = %v, want 5s", cfg.CacheTTL)
	}
	if cfg.FallbackConcurrency != 8 {
		t.Errorf("FallbackConcurrency = %d, want 8", cfg.FallbackConcurrency)
	}
	if cfg.Mode() != departures.CountdownExact {
		t.Errorf("Mode() = %s, want exact", cfg.Mode())
	}
	if !cfg.SortDepartures {
		t.Error("SortDepartures should be true")
	}
	if !cfg.UseRedis() || cfg.RedisDatabase != 2 {
		t.Errorf("redis settings = %s/%d", cfg.RedisAddress, cfg.RedisDatabase)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("FALLBACK_CONCURRENCY", "lots")
	t.Setenv("SORT_DEPARTURES", "maybe")

	cfg := Load()

	if cfg.FallbackConcurrency != 4 {
		t.Errorf("FallbackConcurrency = %d, want default 4", cfg.FallbackConcurrency)
	}
	if cfg.SortDepartures {
		t.Error("SortDepartures should keep its default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "PORT"},
		{"zero concurrency", func(c *Config) { c.FallbackConcurrency = 0 }, "FALLBACK_CONCURRENCY"},
		{"unknown mode", func(c *Config) { c.CountdownMode = "round" }, "COUNTDOWN_MODE"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT_SECONDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadStations(t *testing.T) {
	board, err := LoadStations("testdata/stations.yaml")
	if err != nil {
		t.Fatalf("LoadStations() error = %v", err)
	}

	if !board.Preview() {
		t.Error("marquee board should be in preview mode")
	}
	if len(board.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(board.Stations))
	}

	court := board.Stations[1]
	if court.StationID != "281" || court.WalkingTime != 8 {
		t.Errorf("station = %+v", court)
	}
	if court.Dir.UpTown || !court.Dir.DownTown {
		t.Errorf("dir = %+v, want downtown only", court.Dir)
	}
}

func TestLoadStationsInvalid(t *testing.T) {
	_, err := LoadStations("testdata/invalid.yaml")
	if err == nil {
		t.Fatal("LoadStations() should reject invalid entries")
	}
	if !strings.Contains(err.Error(), "missing stationId") || !strings.Contains(err.Error(), "walkingTime") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadStationsMissingFile(t *testing.T) {
	if _, err := LoadStations("testdata/nope.yaml"); err == nil {
		t.Error("LoadStations() should fail for a missing file")
	}
}

func TestBoardPreview(t *testing.T) {
	if (&Board{}).Preview() {
		t.Error("board without displayType should list everything")
	}
	if (&Board{DisplayType: "list"}).Preview() {
		t.Error("list board should not preview")
	}
	if !(&Board{DisplayType: DisplayMarquee}).Preview() {
		t.Error("marquee board should preview")
	}
}

func TestStationFileBoard(t *testing.T) {
	board, err := StationFile("testdata/stations.yaml").Board()
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if len(board.Stations) != 2 {
		t.Errorf("got %d stations, want 2", len(board.Stations))
	}
}
