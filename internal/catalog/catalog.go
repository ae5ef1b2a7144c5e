// Package catalog holds the read-only directory of places the bot can
// discuss. The catalog is loaded once at startup and never mutated
// afterwards, so lookups need no locking.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Place is a named, coordinate-tagged location.
type Place struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Hours   string  `json:"hours,omitempty"`
	Tickets string  `json:"tickets,omitempty"`
	Site    string  `json:"site,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether the place carries usable coordinates.
func (p Place) HasCoordinates() bool {
	return p.Lat != 0 || p.Lon != 0
}

// Catalog is the in-memory place directory. Insertion order is preserved
// and used for tie-breaking in search results.
type Catalog struct {
	places []Place
	byID   map[string]int
}

// New builds a catalog from a slice of places, validating id uniqueness.
func New(places []Place) (*Catalog, error) {
	byID := make(map[string]int, len(places))
	for i, p := range places {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("place %q has an empty id", p.Name)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("duplicate place id %q", id)
		}
		byID[id] = i
	}
	return &Catalog{places: places, byID: byID}, nil
}

// Load reads the place directory from a JSON file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read places file: %w", err)
	}

	var places []Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, fmt.Errorf("parse places file %s: %w", path, err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("places file %s contains no places", path)
	}

	return New(places)
}

// LookupByID returns the place with the given identifier.
func (c *Catalog) LookupByID(id string) (Place, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Place{}, false
	}
	return c.places[i], true
}

// All returns the places in catalog insertion order.
func (c *Catalog) All() []Place {
	out := make([]Place, len(c.places))
	copy(out, c.places)
	return out
}

// Len returns the number of places in the catalog.
func (c *Catalog) Len() int {
	return len(c.places)
}
