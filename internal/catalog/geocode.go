package catalog

import (
	"log/slog"

	"github.com/kelvins/geocoder"
)

// GeocodeMissing fills in coordinates for places that carry only a
// street address, using the Google Geocoding API. It must run during
// startup, before the catalog is shared; afterwards the catalog is
// read-only. Places that cannot be geocoded keep zero coordinates and
// route/weather commands against them degrade gracefully.
func (c *Catalog) GeocodeMissing(apiKey, city, country string, logger *slog.Logger) {
	if apiKey == "" {
		return
	}
	geocoder.ApiKey = apiKey

	for i, p := range c.places {
		if p.HasCoordinates() || p.Address == "" {
			continue
		}

		location, err := geocoder.Geocoding(geocoder.Address{
			Street:  p.Address,
			City:    city,
			Country: country,
		})
		if err != nil {
			logger.Warn("geocoding failed", "place", p.ID, "error", err)
			continue
		}

		c.places[i].Lat = location.Latitude
		c.places[i].Lon = location.Longitude
		logger.Info("geocoded place", "place", p.ID,
			"lat", location.Latitude, "lon", location.Longitude)
	}
}
