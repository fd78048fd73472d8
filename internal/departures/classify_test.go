package departures

import (
	"testing"

	"github.com/randytsao24/subwayboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMissingLines(t *testing.T) {
	p := testPipeline()
	configs := []models.StationConfig{both("164", 0)}

	for name, resp := range map[string]*models.StationResponse{
		"nil response": nil,
		"no lines":     {},
	} {
		t.Run(name, func(t *testing.T) {
			up, down := p.Classify(resp, 0, configs)
			require.NotNil(t, up)
			require.NotNil(t, down)
			assert.Empty(t, up)
			assert.Empty(t, down)
		})
	}
}

func TestClassifyEmptyLines(t *testing.T) {
	p := testPipeline()
	up, down := p.Classify(&models.StationResponse{Lines: []models.Line{}}, 0, []models.StationConfig{both("164", 0)})
	assert.Empty(t, up)
	assert.Empty(t, down)
}

func TestClassifyDirections(t *testing.T) {
	p := testPipeline()
	resp := response(line(
		[]models.RawDeparture{dep("A", "55", 4)},
		[]models.RawDeparture{dep("C", "1", 6)},
	))

	tests := []struct {
		name     string
		dir      models.Direction
		wantUp   int
		wantDown int
	}{
		{"both", models.Direction{UpTown: true, DownTown: true}, 1, 1},
		{"uptown only", models.Direction{UpTown: true}, 1, 0},
		{"downtown only", models.Direction{DownTown: true}, 0, 1},
		{"neither", models.Direction{}, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := []models.StationConfig{{StationID: "164", WalkingTime: 1, Dir: tc.dir}}
			up, down := p.Classify(resp, 0, cfg)

			assert.Len(t, up, tc.wantUp)
			assert.Len(t, down, tc.wantDown)
			for _, rec := range up {
				assert.Equal(t, "C", rec.RouteID, "northbound departures only go uptown")
			}
			for _, rec := range down {
				assert.Equal(t, "A", rec.RouteID, "southbound departures only go downtown")
			}
		})
	}
}

func TestClassifyRecordFields(t *testing.T) {
	p := testPipeline()
	resp := response(line([]models.RawDeparture{dep("A", "55", 9)}, nil))

	_, down := p.Classify(resp, 0, []models.StationConfig{both("164", 4)})
	require.Len(t, down, 1)
	assert.Equal(t, models.DepartureRecord{
		RouteID:     "A",
		Time:        5,
		Destination: "Inwood-207 St",
		WalkingTime: 4,
	}, down[0])
}

func TestClassifyUnresolvedDestination(t *testing.T) {
	p := testPipeline()
	resp := response(line(
		[]models.RawDeparture{
			dep("A", "12345", 3),
			dep("A", "55", 5),
		},
		[]models.RawDeparture{
			dep("C", "", 3),
			dep("C", "1", 7),
		},
	))

	up, down := p.Classify(resp, 0, []models.StationConfig{both("164", 0)})
	require.Len(t, down, 1)
	require.Len(t, up, 1)
	assert.Equal(t, "Inwood-207 St", down[0].Destination)
	assert.Equal(t, "Astoria-Ditmars Blvd", up[0].Destination)
}

func TestClassifyUnknownComplexName(t *testing.T) {
	p := testPipeline()
	resp := response(
		line([]models.RawDeparture{dep("Z", "900", 3)}, nil),
		line([]models.RawDeparture{dep("A", "55", 5)}, nil),
	)

	_, down := p.Classify(resp, 0, []models.StationConfig{both("164", 0)})
	require.Len(t, down, 1, "a departure with no complex name is skipped, later lines still processed")
	assert.Equal(t, "A", down[0].RouteID)
}

func TestClassifyAlias(t *testing.T) {
	p := testPipeline()
	resp := response(line(
		[]models.RawDeparture{dep("R", "281", 3)},
		[]models.RawDeparture{dep("R", "281", 8)},
	))

	up, down := p.Classify(resp, 0, []models.StationConfig{both("164", 0)})
	require.Len(t, up, 1)
	require.Len(t, down, 1)
	assert.Equal(t, "Court St-Borough Hall", up[0].Destination)
	assert.Equal(t, "Court St-Borough Hall", down[0].Destination)
}

func TestClassifyKeepsNonPositive(t *testing.T) {
	p := testPipeline()
	resp := response(line([]models.RawDeparture{dep("A", "55", 2)}, nil))

	_, down := p.Classify(resp, 0, []models.StationConfig{both("164", 5)})
	require.Len(t, down, 1)
	assert.Equal(t, -3, down[0].Time)
}

func TestClassifyIndexOutOfRange(t *testing.T) {
	p := testPipeline()
	resp := response(line([]models.RawDeparture{dep("A", "55", 2)}, nil))

	up, down := p.Classify(resp, 3, []models.StationConfig{both("164", 0)})
	assert.Empty(t, up)
	assert.Empty(t, down)
}

func TestAggregateOrder(t *testing.T) {
	p := testPipeline()
	responses := []*models.StationResponse{
		response(
			line([]models.RawDeparture{dep("A", "55", 12), dep("C", "55", 4)}, []models.RawDeparture{dep("A", "1", 9)}),
			line([]models.RawDeparture{dep("E", "55", 2)}, nil),
		),
		nil,
		response(line([]models.RawDeparture{dep("7", "164", 1)}, []models.RawDeparture{dep("7", "1", 3)})),
	}
	configs := []models.StationConfig{both("164", 0), both("55", 0), both("471", 0)}

	result := p.Aggregate(responses, configs)

	var downRoutes, upRoutes []string
	for _, rec := range result.DownTown {
		downRoutes = append(downRoutes, rec.RouteID)
	}
	for _, rec := range result.UpTown {
		upRoutes = append(upRoutes, rec.RouteID)
	}
	assert.Equal(t, []string{"A", "C", "E", "7"}, downRoutes, "station order, then line order, then departure order")
	assert.Equal(t, []string{"A", "7"}, upRoutes)
	assert.NotNil(t, result.Failures)
	assert.Empty(t, result.Failures)
}

func TestAggregateExtraResponses(t *testing.T) {
	p := testPipeline()
	responses := []*models.StationResponse{
		response(line([]models.RawDeparture{dep("A", "55", 5)}, nil)),
		response(line([]models.RawDeparture{dep("C", "55", 5)}, nil)),
	}

	result := p.Aggregate(responses, []models.StationConfig{both("164", 0)})
	require.Len(t, result.DownTown, 1)
	assert.Equal(t, "A", result.DownTown[0].RouteID)
}
