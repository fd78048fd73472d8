package stations

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/randytsao24/subwayboard/internal/models"
)

// Complexes manages the station complex table
type Complexes struct {
	complexes map[string]models.Complex
	mu        sync.RWMutex
	loaded    bool
}

// NewComplexes creates an empty complex table
func NewComplexes() *Complexes {
	return &Complexes{
		complexes: make(map[string]models.Complex),
	}
}

// Load reads the complex table from a JSON file
func (c *Complexes) Load(filepath string) error {
	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("opening complexes file: %w", err)
	}
	defer file.Close()

	return c.LoadFrom(file)
}

// LoadFrom reads a JSON object of complex id -> {name, ...}
func (c *Complexes) LoadFrom(r io.Reader) error {
	var raw map[string]struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("parsing complexes JSON: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, entry := range raw {
		c.complexes[id] = models.Complex{ID: id, Name: entry.Name}
	}

	c.loaded = true
	return nil
}

// Get returns a complex by its complex-scheme id
func (c *Complexes) Get(id string) (models.Complex, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cx, ok := c.complexes[id]
	return cx, ok
}

// Names returns a complex id -> name map
func (c *Complexes) Names() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make(map[string]string, len(c.complexes))
	for id, cx := range c.complexes {
		names[id] = cx.Name
	}
	return names
}

// Count returns the number of loaded complexes
func (c *Complexes) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.complexes)
}

// IsLoaded returns true if data has been loaded
func (c *Complexes) IsLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
