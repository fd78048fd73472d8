package stations

import "fmt"

// Reference bundles both tables. It is loaded once before the first
// aggregation cycle and only read afterwards.
type Reference struct {
	Directory *Directory
	Complexes *Complexes
}

// LoadReference loads the station directory and complex table from disk
func LoadReference(directoryPath, complexesPath string) (*Reference, error) {
	dir := NewDirectory()
	if err := dir.Load(directoryPath); err != nil {
		return nil, fmt.Errorf("loading station directory: %w", err)
	}

	cx := NewComplexes()
	if err := cx.Load(complexesPath); err != nil {
		return nil, fmt.Errorf("loading complexes: %w", err)
	}

	return &Reference{Directory: dir, Complexes: cx}, nil
}
