package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pgulin/placebot/internal/upstream"
)

// OSRMProvider computes routes with the public OSRM HTTP API.
type OSRMProvider struct {
	name    string
	baseURL string
	httpCfg upstream.ClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOSRMProvider(client *http.Client) *OSRMProvider {
	return &OSRMProvider{
		name:    "osrm",
		baseURL: "https://router.project-osrm.org/route/v1/driving",
		httpCfg: upstream.ClientConfig{
			Client:  client,
			Backoff: upstream.DefaultBackoff,
		},
		circuit: upstream.NewBreaker("osrm"),
	}
}

func (p *OSRMProvider) Name() string {
	return p.name
}

func (p *OSRMProvider) Route(ctx context.Context, origin, dest Point) (Summary, error) {
	buildRequest := func() (*http.Request, error) {
		// OSRM expects lon,lat coordinate order.
		u := fmt.Sprintf("%s/%.6f,%.6f;%.6f,%.6f?overview=false",
			p.baseURL, origin.Lon, origin.Lat, dest.Lon, dest.Lat)
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return Summary{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"routes"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Summary{}, err
	}

	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return Summary{}, fmt.Errorf("osrm returned no route (code %q)", payload.Code)
	}

	r := payload.Routes[0]
	return Summary{
		DistanceKm: r.Distance / 1000,
		Duration:   time.Duration(r.Duration * float64(time.Second)),
		MapLink:    MapLink(dest),
	}, nil
}
