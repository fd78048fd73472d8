package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/randytsao24/subwayboard/internal/models"
	"gopkg.in/yaml.v3"
)

// DisplayMarquee boards scroll a short preview; any other display type lists everything
const DisplayMarquee = "marquee"

// Board is the station file: which stations a display shows and how
type Board struct {
	DisplayType string                 `yaml:"displayType"`
	Stations    []models.StationConfig `yaml:"stations"`
}

// Preview reports whether the board shows the short preview lists
func (b *Board) Preview() bool {
	return b.DisplayType == DisplayMarquee
}

// LoadStations reads a board definition from a YAML file
func LoadStations(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading station file: %w", err)
	}

	var board Board
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&board); err != nil {
		return nil, fmt.Errorf("parsing station file %s: %w", path, err)
	}

	if err := ValidateStations(board.Stations); err != nil {
		return nil, fmt.Errorf("station file %s: %w", path, err)
	}

	return &board, nil
}

// ValidateStations checks a station list before it is used for a cycle
func ValidateStations(stations []models.StationConfig) error {
	var errs []error
	for i, st := range stations {
		if st.StationID == "" {
			errs = append(errs, fmt.Errorf("station %d: missing stationId", i))
		}
		if st.WalkingTime < 0 {
			errs = append(errs, fmt.Errorf("station %d (%s): walkingTime must not be negative", i, st.StationID))
		}
	}
	return errors.Join(errs...)
}

// StationFile is a board definition on disk, re-read on every call so edits
// apply to the next cycle
type StationFile string

// Board loads the file
func (f StationFile) Board() (*Board, error) {
	return LoadStations(string(f))
}
