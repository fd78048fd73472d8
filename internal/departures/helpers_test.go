package departures

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/randytsao24/subwayboard/internal/models"
)

var baseTime = time.Unix(1_700_000_000, 0)

func fixedNow() time.Time { return baseTime }

func testResolver() *Resolver {
	return NewResolverFromMaps(
		map[string]string{
			"1":   "1",
			"55":  "55",
			"164": "164",
			"281": "281",
			"900": "9999",
			"950": "",
		},
		map[string]string{
			"1":   "Astoria-Ditmars Blvd",
			"55":  "Inwood-207 St",
			"164": "34 St-Penn Station",
			"281": "Court St (old)",
			"606": "Court St-Borough Hall",
		},
	)
}

func testPipeline() *Pipeline {
	return &Pipeline{Resolver: testResolver(), Mode: CountdownWrap, Now: fixedNow}
}

// dep builds a departure arriving minutes (plus a few seconds) after baseTime
func dep(route, dest string, minutes int) models.RawDeparture {
	return models.RawDeparture{
		RouteID:              route,
		DestinationStationID: dest,
		Time:                 baseTime.Unix() + int64(minutes)*60 + 5,
	}
}

func response(lines ...models.Line) *models.StationResponse {
	return &models.StationResponse{Lines: lines}
}

func line(south, north []models.RawDeparture) models.Line {
	return models.Line{Departures: models.Departures{S: south, N: north}}
}

func both(id string, walking int) models.StationConfig {
	return models.StationConfig{
		StationID:   id,
		WalkingTime: walking,
		Dir:         models.Direction{UpTown: true, DownTown: true},
	}
}

// stubFetcher serves canned per-station responses and can fail bulk or
// individual requests
type stubFetcher struct {
	mu       sync.Mutex
	calls    [][]string
	stations map[string]*models.StationResponse
	failBulk bool
	failing  map[string]bool
	delay    func(stationID string) time.Duration
	panics   map[string]bool
}

func (f *stubFetcher) Departures(ctx context.Context, stationIDs []string) ([]*models.StationResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), stationIDs...))
	f.mu.Unlock()

	if len(stationIDs) > 1 && f.failBulk {
		return nil, errors.New("bulk request rejected")
	}

	out := make([]*models.StationResponse, 0, len(stationIDs))
	for _, id := range stationIDs {
		if f.delay != nil {
			time.Sleep(f.delay(id))
		}
		if f.panics[id] {
			panic("provider exploded")
		}
		if f.failing[id] {
			return nil, errors.New("station " + id + " unavailable")
		}
		out = append(out, f.stations[id])
	}
	return out, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
