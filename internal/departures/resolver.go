// Package departures turns provider departure payloads for a set of configured
// stations into the uptown/downtown lists shown on the display, retrying
// station by station when a combined request fails.
package departures

import "github.com/randytsao24/subwayboard/internal/stations"

// Complex 281 is a duplicate of 606 in the reference data; the name is
// always taken from 606.
const (
	aliasedComplexID = "281"
	aliasTargetID    = "606"
)

// Resolver maps station-scheme ids to complex-scheme ids and complex names
type Resolver struct {
	complexOf map[string]string
	names     map[string]string
}

// NewResolver indexes the reference tables once
func NewResolver(ref *stations.Reference) *Resolver {
	return NewResolverFromMaps(ref.Directory.ComplexIndex(), ref.Complexes.Names())
}

// NewResolverFromMaps builds a resolver from station -> complex and
// complex -> name maps
func NewResolverFromMaps(complexOf, names map[string]string) *Resolver {
	return &Resolver{complexOf: complexOf, names: names}
}

// ResolveComplex returns the complex-scheme id for a station-scheme id
func (r *Resolver) ResolveComplex(stationID string) (string, bool) {
	complexID, ok := r.complexOf[stationID]
	if !ok || complexID == "" {
		return "", false
	}
	return complexID, true
}

// ComplexName returns the display name of a complex
func (r *Resolver) ComplexName(complexID string) (string, bool) {
	if complexID == aliasedComplexID {
		complexID = aliasTargetID
	}

	name, ok := r.names[complexID]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
