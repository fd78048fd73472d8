// Package models defines shared data types
package models

// Direction flags which directional result sets a station contributes to
type Direction struct {
	UpTown   bool `json:"upTown" yaml:"upTown"`
	DownTown bool `json:"downTown" yaml:"downTown"`
}

// StationConfig is one configured station for an aggregation cycle
type StationConfig struct {
	StationID   string    `json:"stationId" yaml:"stationId"`
	WalkingTime int       `json:"walkingTime" yaml:"walkingTime"`
	Dir         Direction `json:"dir" yaml:"dir"`
}

// RawDeparture is a single departure as reported by the departure provider
type RawDeparture struct {
	RouteID              string `json:"routeId"`
	DestinationStationID string `json:"destinationStationId"`
	Time                 int64  `json:"time"`
}

// Departures splits a line's departures by direction
type Departures struct {
	S []RawDeparture `json:"S"`
	N []RawDeparture `json:"N"`
}

// Line groups departures served by one feed at a station
type Line struct {
	Name       string     `json:"name"`
	Departures Departures `json:"departures"`
}

// StationResponse is the provider payload for one station.
// A nil Lines slice means the provider sent no line data at all.
type StationResponse struct {
	Lines []Line `json:"lines"`
}

// Complex is a named station complex
type Complex struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Station is a StationDirectory row
type Station struct {
	StationID  string   `csv:"Station ID" json:"station_id"`
	ComplexID  string   `csv:"Complex ID" json:"complex_id"`
	GTFSStopID string   `csv:"GTFS Stop ID" json:"gtfs_stop_id"`
	StopName   string   `csv:"Stop Name" json:"stop_name"`
	Line       string   `csv:"Line" json:"line"`
	Borough    string   `csv:"Borough" json:"borough"`
	RoutesRaw  string   `csv:"Daytime Routes" json:"-"`
	Lat        float64  `csv:"GTFS Latitude" json:"lat"`
	Lng        float64  `csv:"GTFS Longitude" json:"lng"`
	NorthLabel string   `csv:"North Direction Label" json:"north_label"`
	SouthLabel string   `csv:"South Direction Label" json:"south_label"`
	Routes     []string `csv:"-" json:"routes"`
}

// DepartureRecord is a classified departure ready for display
type DepartureRecord struct {
	RouteID     string `json:"routeId"`
	Time        int    `json:"time"`
	Destination string `json:"destination"`
	WalkingTime int    `json:"walkingTime"`
}

// FailureRecord reports a station whose individual fetch failed
type FailureRecord struct {
	StationID string `json:"stationId"`
	Error     string `json:"error"`
}

// AggregationResult is the output of one aggregation cycle
type AggregationResult struct {
	UpTown   []DepartureRecord
	DownTown []DepartureRecord
	Failures []FailureRecord
}

// Payload is delivered to the display layer once per cycle.
// Data is always [{"downTown": [...]}, {"upTown": [...]}].
type Payload struct {
	Stations []string                       `json:"stations"`
	Data     []map[string][]DepartureRecord `json:"data"`
	Errors   []FailureRecord                `json:"errors,omitempty"`
}

// DownTown returns the southbound list of the payload
func (p Payload) DownTown() []DepartureRecord {
	return p.direction(0, "downTown")
}

// UpTown returns the northbound list of the payload
func (p Payload) UpTown() []DepartureRecord {
	return p.direction(1, "upTown")
}

func (p Payload) direction(idx int, key string) []DepartureRecord {
	if idx >= len(p.Data) {
		return nil
	}
	return p.Data[idx][key]
}
