package departures

import (
	"sort"

	"github.com/randytsao24/subwayboard/internal/models"
)

// PreviewLength is how many departures per direction marquee mode shows
const PreviewLength = 3

// FilterPositive keeps departures that can still be caught
func FilterPositive(records []models.DepartureRecord) []models.DepartureRecord {
	out := make([]models.DepartureRecord, 0, len(records))
	for _, rec := range records {
		if rec.Time > 0 {
			out = append(out, rec)
		}
	}
	return out
}

// Shape builds the display payload from an aggregation result
func Shape(stationIDs []string, result models.AggregationResult, preview bool) models.Payload {
	downTown := FilterPositive(result.DownTown)
	upTown := FilterPositive(result.UpTown)

	if preview {
		downTown = truncate(downTown, PreviewLength)
		upTown = truncate(upTown, PreviewLength)
	}

	payload := models.Payload{
		Stations: stationIDs,
		Data: []map[string][]models.DepartureRecord{
			{"downTown": downTown},
			{"upTown": upTown},
		},
	}
	if payload.Stations == nil {
		payload.Stations = []string{}
	}
	if len(result.Failures) > 0 {
		payload.Errors = result.Failures
	}

	return payload
}

// SortBySoonest returns a copy of the payload with each direction ordered by
// countdown. Ties keep their classification order.
func SortBySoonest(p models.Payload) models.Payload {
	sorted := p
	sorted.Data = make([]map[string][]models.DepartureRecord, len(p.Data))

	for i, entry := range p.Data {
		sorted.Data[i] = make(map[string][]models.DepartureRecord, len(entry))
		for key, records := range entry {
			cp := make([]models.DepartureRecord, len(records))
			copy(cp, records)
			sort.SliceStable(cp, func(a, b int) bool {
				return cp[a].Time < cp[b].Time
			})
			sorted.Data[i][key] = cp
		}
	}

	return sorted
}

func truncate(records []models.DepartureRecord, n int) []models.DepartureRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
