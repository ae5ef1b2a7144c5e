package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"github.com/pgulin/placebot/internal/catalog"
	"github.com/pgulin/placebot/internal/core"
	"github.com/pgulin/placebot/internal/observability"
	"github.com/pgulin/placebot/internal/route"
	"github.com/pgulin/placebot/internal/stats"
	"github.com/pgulin/placebot/internal/store"
)

const testAdminToken = "test-admin-token"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cat, err := catalog.New([]catalog.Place{
		{ID: "12", Name: "Central Park", Lat: 59.98, Lon: 30.27},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), clockwork.NewRealClock())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	reporter := stats.NewReporter(st)
	engine := core.New(core.Config{
		Catalog:  cat,
		Store:    st,
		Reporter: reporter,
		Metrics:  observability.NewMetricsForTesting(),
		Home:     route.Point{Lat: 59.93, Lon: 30.34},
		HomeName: "Saint Petersburg",
	})

	app := fiber.New()
	RegisterRoutes(app, engine, reporter, testAdminToken)
	return app
}

func TestCommandEndpoint(t *testing.T) {
	app := newTestApp(t)

	body := `{"command":"find","argument":"central","callerId":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var reply core.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Outcome != core.OutcomeOK {
		t.Fatalf("expected ok outcome, got %q", reply.Outcome)
	}
	if reply.Place == nil || reply.Place.ID != "12" {
		t.Fatalf("expected place 12, got %+v", reply.Place)
	}
}

func TestCommandEndpointValidation(t *testing.T) {
	app := newTestApp(t)

	// Missing callerId should return 400.
	body := `{"command":"find","argument":"central"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Unknown command name should also return 400.
	body = `{"command":"fnord","callerId":"u1"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestStatsEndpointRequiresToken(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestStatsEndpointWithToken(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var summary stats.Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Commands == nil {
		t.Fatalf("expected commands map in summary")
	}
}
