package route

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRMRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// lon,lat;lon,lat coordinate order.
		assert.True(t, strings.Contains(r.URL.Path, "30.340000,59.930000;30.270000,59.980000"),
			"unexpected path %s", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{"distance": 4200.0, "duration": 720.0}]
		}`))
	}))
	defer srv.Close()

	p := NewOSRMProvider(srv.Client())
	p.baseURL = srv.URL

	summary, err := p.Route(context.Background(),
		Point{Lat: 59.93, Lon: 30.34}, Point{Lat: 59.98, Lon: 30.27})
	require.NoError(t, err)
	assert.InDelta(t, 4.2, summary.DistanceKm, 0.001)
	assert.Equal(t, 12*time.Minute, summary.Duration)
	assert.Contains(t, summary.MapLink, "yandex.ru/maps")
}

func TestOSRMNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	p := NewOSRMProvider(srv.Client())
	p.baseURL = srv.URL

	_, err := p.Route(context.Background(), Point{Lat: 1, Lon: 2}, Point{Lat: 3, Lon: 4})
	require.Error(t, err)
}

func TestMapLink(t *testing.T) {
	link := MapLink(Point{Lat: 59.977917, Lon: 30.265831})
	assert.Contains(t, link, "https://yandex.ru/maps/?")
	// The rtext value routes from the user's current location.
	assert.Contains(t, link, "rtext=%7E59.977917%2C30.265831")
}
