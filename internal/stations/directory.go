// Package stations holds the read-only subway reference tables: the station
// directory (station-scheme ids) and the complex table (complex-scheme ids).
package stations

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/randytsao24/subwayboard/internal/models"
)

// Directory manages the subway station directory
type Directory struct {
	stations []*models.Station
	byID     map[string]*models.Station
	byGTFS   map[string]*models.Station
	mu       sync.RWMutex
	loaded   bool
}

// NewDirectory creates an empty station directory
func NewDirectory() *Directory {
	return &Directory{
		byID:   make(map[string]*models.Station),
		byGTFS: make(map[string]*models.Station),
	}
}

// Load reads the directory from an MTA Stations.csv file
func (d *Directory) Load(filepath string) error {
	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("opening station directory: %w", err)
	}
	defer file.Close()

	return d.LoadFrom(file)
}

// LoadFrom reads the directory from CSV with a header row
func (d *Directory) LoadFrom(r io.Reader) error {
	// Some exports have trailing columns on a handful of rows
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.FieldsPerRecord = -1
		return cr
	})

	var rows []*models.Station
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return fmt.Errorf("parsing station directory: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("station directory has no data rows")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, st := range rows {
		if st.StationID == "" {
			continue
		}
		st.Routes = strings.Fields(st.RoutesRaw)

		d.stations = append(d.stations, st)
		d.byID[st.StationID] = st
		if st.GTFSStopID != "" {
			d.byGTFS[st.GTFSStopID] = st
		}
	}

	d.loaded = true
	return nil
}

// Get returns a station by its station-scheme id
func (d *Directory) Get(stationID string) (models.Station, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	st, ok := d.byID[stationID]
	if !ok {
		return models.Station{}, false
	}
	return *st, true
}

// GetByGTFSStopID returns a station by its GTFS parent stop id (e.g. "A27")
func (d *Directory) GetByGTFSStopID(stopID string) (models.Station, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	st, ok := d.byGTFS[stopID]
	if !ok {
		return models.Station{}, false
	}
	return *st, true
}

// ComplexIndex returns a station-scheme id -> complex-scheme id map
func (d *Directory) ComplexIndex() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	index := make(map[string]string, len(d.stations))
	for _, st := range d.stations {
		index[st.StationID] = st.ComplexID
	}
	return index
}

// Count returns the number of loaded stations
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.stations)
}

// IsLoaded returns true if data has been loaded
func (d *Directory) IsLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}
