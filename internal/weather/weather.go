// Package weather defines the weather provider contract and the
// adapters over external weather APIs.
package weather

import (
	"context"
	"time"
)

// Snapshot is the current-conditions view at a point in time. It is
// transient: produced per request and never cached by the core.
type Snapshot struct {
	TemperatureC float64   `json:"temperatureC"`
	Condition    string    `json:"condition"`
	RetrievedAt  time.Time `json:"retrievedAt"` // always UTC
}

// Provider abstracts an external weather API: given coordinates it
// returns current conditions or fails.
type Provider interface {
	Name() string
	CurrentAt(ctx context.Context, lat, lon float64) (Snapshot, error)
}
