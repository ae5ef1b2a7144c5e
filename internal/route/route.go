// Package route defines the routing provider contract and the adapter
// over the external routing API.
package route

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

// Summary is the transient result of a routing call: a distance and
// duration estimate plus an external link to the rendered route.
type Summary struct {
	DistanceKm float64       `json:"distanceKm"`
	Duration   time.Duration `json:"duration"`
	MapLink    string        `json:"mapLink"`
}

// Provider abstracts an external routing API: given origin and
// destination it returns a route summary or fails.
type Provider interface {
	Name() string
	Route(ctx context.Context, origin, dest Point) (Summary, error)
}

// MapLink builds a Yandex Maps deep link routing from the user's
// current location to the destination (the "~dest" rtext form).
func MapLink(dest Point) string {
	values := url.Values{}
	values.Set("rtext", fmt.Sprintf("~%.6f,%.6f", dest.Lat, dest.Lon))
	return "https://yandex.ru/maps/?" + values.Encode()
}
