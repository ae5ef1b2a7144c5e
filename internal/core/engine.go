// Package core implements the aggregation engine: it dispatches
// normalized commands, resolves places, fans out to the weather and
// routing providers, and assembles reply payloads.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pgulin/placebot/internal/catalog"
	"github.com/pgulin/placebot/internal/command"
	"github.com/pgulin/placebot/internal/observability"
	"github.com/pgulin/placebot/internal/route"
	"github.com/pgulin/placebot/internal/stats"
	"github.com/pgulin/placebot/internal/store"
	"github.com/pgulin/placebot/internal/weather"
)

// Config bundles the engine's constructor-injected collaborators. All
// of them are initialized once at process start.
type Config struct {
	Catalog          *catalog.Catalog
	WeatherProviders []weather.Provider
	RouteProvider    route.Provider
	Store            store.Store
	Reporter         *stats.Reporter
	Metrics          *observability.Metrics
	Logger           *slog.Logger

	// ProviderTimeout bounds each upstream call; a timeout counts as
	// a provider failure for aggregation purposes.
	ProviderTimeout time.Duration

	// Home is the route origin and the default weather location.
	Home     route.Point
	HomeName string
}

// Engine handles each incoming command as an independent, stateless
// unit of work. It holds no per-user session state.
type Engine struct {
	resolver *command.Resolver
	cfg      Config
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 7 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		resolver: command.NewResolver(cfg.Catalog),
		cfg:      cfg,
	}
}

// Handle dispatches a request and returns the reply payload. The usage
// counter is bumped once per dispatched command; increment failures
// are logged and never block the reply. The increment ignores request
// cancellation: usage data is recorded at least once even when the
// caller goes away mid-flight.
func (e *Engine) Handle(ctx context.Context, req command.Request) Reply {
	reply := e.dispatch(ctx, req)

	e.cfg.Metrics.CommandsHandled.
		WithLabelValues(string(req.Command), string(reply.Outcome)).Inc()

	if err := e.cfg.Store.IncrementUsage(context.WithoutCancel(ctx), string(req.Command)); err != nil {
		e.cfg.Logger.Warn("usage increment failed", "command", req.Command, "error", err)
	}

	return reply
}

func (e *Engine) dispatch(ctx context.Context, req command.Request) Reply {
	switch req.Command {
	case command.Find:
		return e.handleFind(req)
	case command.List:
		return e.handleList()
	case command.Random:
		return e.handleRandom()
	case command.Weather:
		return e.handleWeather(ctx, req)
	case command.Route:
		return e.handleRoute(ctx, req)
	case command.Plan:
		return e.handlePlan(ctx, req)
	case command.Feedback:
		return e.handleFeedback(ctx, req)
	case command.Stats:
		return e.handleStats(ctx, req)
	case command.Help:
		return e.handleHelp()
	case command.Ping:
		return Reply{Outcome: OutcomeOK, Text: "pong"}
	default:
		return Reply{Outcome: OutcomeNotFound, Text: "Unknown command. Try /help."}
	}
}

// resolveOrReply resolves argument text; the second return value is
// false when resolution already produced the final reply (ambiguous or
// not found), in which case no provider call may be issued.
func (e *Engine) resolveOrReply(text string) (catalog.Place, Reply, bool) {
	res := e.resolver.Resolve(text)
	switch res.Kind {
	case command.ResolutionUnique:
		return res.Place, Reply{}, true
	case command.ResolutionAmbiguous:
		lines := make([]string, 0, len(res.Candidates)+1)
		lines = append(lines, "I found several possible matches:")
		for _, m := range res.Candidates {
			lines = append(lines, fmt.Sprintf("%s. %s", m.Place.ID, m.Place.Name))
		}
		lines = append(lines, "Reply with the exact id or name to pick one.")
		return catalog.Place{}, Reply{
			Outcome:     OutcomeAmbiguous,
			Text:        strings.Join(lines, "\n"),
			Suggestions: res.Candidates,
		}, false
	default:
		return catalog.Place{}, Reply{
			Outcome: OutcomeNotFound,
			Text:    "I couldn't find that place. Try /find with part of its name.",
		}, false
	}
}

func (e *Engine) handleFind(req command.Request) Reply {
	if strings.TrimSpace(req.Argument) == "" {
		return Reply{Outcome: OutcomeNotFound, Text: "Usage: /find <name or id>"}
	}
	place, reply, ok := e.resolveOrReply(req.Argument)
	if !ok {
		return reply
	}
	return Reply{Outcome: OutcomeOK, Text: placeCard(place), Place: &place}
}

func (e *Engine) handleList() Reply {
	places := e.cfg.Catalog.All()
	lines := make([]string, 0, len(places)+1)
	lines = append(lines, "Places I know:")
	for _, p := range places {
		lines = append(lines, fmt.Sprintf("%s. %s", p.ID, p.Name))
	}
	return Reply{Outcome: OutcomeOK, Text: strings.Join(lines, "\n")}
}

func (e *Engine) handleRandom() Reply {
	places := e.cfg.Catalog.All()
	if len(places) == 0 {
		return Reply{Outcome: OutcomeFailed, Text: "The place catalog is empty."}
	}
	place := places[rand.Intn(len(places))]
	return Reply{
		Outcome: OutcomeOK,
		Text:    "How about this one?\n" + placeCard(place),
		Place:   &place,
	}
}

func (e *Engine) handleWeather(ctx context.Context, req command.Request) Reply {
	lat, lon := e.cfg.Home.Lat, e.cfg.Home.Lon
	spot := e.cfg.HomeName
	var placePtr *catalog.Place

	if strings.TrimSpace(req.Argument) != "" {
		place, reply, ok := e.resolveOrReply(req.Argument)
		if !ok {
			return reply
		}
		if !place.HasCoordinates() {
			return Reply{
				Outcome: OutcomeFailed,
				Text:    fmt.Sprintf("No coordinates on file for %s yet.", place.Name),
			}
		}
		lat, lon = place.Lat, place.Lon
		spot = place.Name
		placePtr = &place
	}

	snap, err := e.currentWeather(ctx, lat, lon)
	if err != nil {
		return Reply{Outcome: OutcomeFailed, Text: "Weather is unavailable right now. Try again later."}
	}

	return Reply{
		Outcome: OutcomeOK,
		Text:    fmt.Sprintf("Weather at %s:\n%s", spot, weatherLine(snap)),
		Place:   placePtr,
		Weather: &snap,
	}
}

func (e *Engine) handleRoute(ctx context.Context, req command.Request) Reply {
	if strings.TrimSpace(req.Argument) == "" {
		return Reply{Outcome: OutcomeNotFound, Text: "Usage: /route <name or id>"}
	}
	place, reply, ok := e.resolveOrReply(req.Argument)
	if !ok {
		return reply
	}
	if !place.HasCoordinates() {
		return Reply{
			Outcome: OutcomeFailed,
			Text:    fmt.Sprintf("No coordinates on file for %s yet.", place.Name),
		}
	}

	summary, err := e.routeTo(ctx, route.Point{Lat: place.Lat, Lon: place.Lon})
	if err != nil {
		return Reply{Outcome: OutcomeFailed, Text: "Routing is unavailable right now. Try again later."}
	}

	return Reply{
		Outcome: OutcomeOK,
		Text:    fmt.Sprintf("Route to %s:\n%s", place.Name, routeLine(summary)),
		Place:   &place,
		Route:   &summary,
	}
}

// handlePlan issues the weather and route calls concurrently and waits
// for both: a failure in one must not suppress the other's result, and
// the reply is not assembled until both have completed or timed out.
func (e *Engine) handlePlan(ctx context.Context, req command.Request) Reply {
	if strings.TrimSpace(req.Argument) == "" {
		return Reply{Outcome: OutcomeNotFound, Text: "Usage: /plan <name or id>"}
	}
	place, reply, ok := e.resolveOrReply(req.Argument)
	if !ok {
		return reply
	}
	if !place.HasCoordinates() {
		return Reply{
			Outcome: OutcomeFailed,
			Text:    fmt.Sprintf("No coordinates on file for %s yet.", place.Name),
		}
	}

	var (
		wg       sync.WaitGroup
		snap     weather.Snapshot
		summary  route.Summary
		weatherE error
		routeE   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap, weatherE = e.currentWeather(ctx, place.Lat, place.Lon)
	}()
	go func() {
		defer wg.Done()
		summary, routeE = e.routeTo(ctx, route.Point{Lat: place.Lat, Lon: place.Lon})
	}()
	wg.Wait()

	if weatherE != nil && routeE != nil {
		return Reply{
			Outcome: OutcomeFailed,
			Text:    fmt.Sprintf("I couldn't prepare a plan for %s right now. Try again later.", place.Name),
		}
	}

	r := Reply{Outcome: OutcomeOK, Place: &place}
	lines := []string{fmt.Sprintf("Plan for visiting %s:", place.Name)}

	if weatherE == nil {
		r.Weather = &snap
		lines = append(lines, weatherLine(snap))
	} else {
		e.cfg.Logger.Warn("plan weather leg failed", "place", place.ID, "error", weatherE)
		r.Notes = append(r.Notes, "weather is unavailable right now")
	}

	if routeE == nil {
		r.Route = &summary
		lines = append(lines, routeLine(summary))
	} else {
		e.cfg.Logger.Warn("plan route leg failed", "place", place.ID, "error", routeE)
		r.Notes = append(r.Notes, "route is unavailable right now")
	}

	for _, note := range r.Notes {
		lines = append(lines, "Note: "+note)
	}
	r.Text = strings.Join(lines, "\n")
	return r
}

func (e *Engine) handleFeedback(ctx context.Context, req command.Request) Reply {
	message := strings.TrimSpace(req.Argument)
	if message == "" {
		return Reply{Outcome: OutcomeNotFound, Text: "Usage: /feedback <your message>"}
	}

	entry := store.FeedbackEntry{CallerID: req.CallerID, Message: message}
	if err := e.cfg.Store.AppendFeedback(ctx, entry); err != nil {
		e.cfg.Logger.Error("feedback append failed", "caller", req.CallerID, "error", err)
		return Reply{Outcome: OutcomeFailed, Text: "I couldn't save your feedback. Try again later."}
	}

	e.cfg.Metrics.FeedbackStored.Inc()
	return Reply{Outcome: OutcomeOK, Text: "Thanks for the feedback!"}
}

func (e *Engine) handleStats(ctx context.Context, req command.Request) Reply {
	// Generic denial: the reply must not reveal whether the command
	// exists to non-admin callers.
	if !req.CallerIsAdmin {
		return Reply{Outcome: OutcomeUnauthorized, Text: "Unknown command. Try /help."}
	}

	summary, err := e.cfg.Reporter.Summary(ctx)
	if err != nil {
		e.cfg.Logger.Error("stats summary failed", "error", err)
		return Reply{Outcome: OutcomeFailed, Text: "Statistics are unavailable right now. Try again later."}
	}

	lines := append([]string{"Usage statistics:"}, summary.Lines()...)
	return Reply{Outcome: OutcomeOK, Text: strings.Join(lines, "\n")}
}

func (e *Engine) handleHelp() Reply {
	text := strings.Join([]string{
		"I'm a place guide. Commands:",
		"/find <name or id> - look up a place",
		"/list - all places",
		"/random - a random pick",
		"/weather [place] - current weather",
		"/route <name or id> - route to a place",
		"/plan <name or id> - weather + route briefing",
		"/feedback <message> - tell us what you think",
		"/ping - check I'm alive",
		"Tip: just type part of a name and I'll suggest matches.",
	}, "\n")
	return Reply{Outcome: OutcomeOK, Text: text}
}

// currentWeather consults the configured weather providers in order
// and returns the first successful snapshot. Each call is bounded by
// the provider timeout.
func (e *Engine) currentWeather(ctx context.Context, lat, lon float64) (weather.Snapshot, error) {
	if len(e.cfg.WeatherProviders) == 0 {
		return weather.Snapshot{}, fmt.Errorf("no weather providers configured")
	}

	var lastErr error
	for _, p := range e.cfg.WeatherProviders {
		callCtx, cancel := context.WithTimeout(ctx, e.cfg.ProviderTimeout)
		start := time.Now()
		snap, err := p.CurrentAt(callCtx, lat, lon)
		cancel()

		e.cfg.Metrics.ProviderLatency.WithLabelValues(p.Name()).
			Observe(time.Since(start).Seconds())
		if err != nil {
			e.cfg.Metrics.ProviderCalls.WithLabelValues(p.Name(), "error").Inc()
			e.cfg.Logger.Warn("weather provider failed", "provider", p.Name(), "error", err)
			lastErr = err
			continue
		}
		e.cfg.Metrics.ProviderCalls.WithLabelValues(p.Name(), "success").Inc()
		return snap, nil
	}
	return weather.Snapshot{}, fmt.Errorf("all weather providers failed: %w", lastErr)
}

// routeTo fetches a route from the configured home origin to dest,
// bounded by the provider timeout.
func (e *Engine) routeTo(ctx context.Context, dest route.Point) (route.Summary, error) {
	if e.cfg.RouteProvider == nil {
		return route.Summary{}, fmt.Errorf("no route provider configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.ProviderTimeout)
	defer cancel()

	name := e.cfg.RouteProvider.Name()
	start := time.Now()
	summary, err := e.cfg.RouteProvider.Route(callCtx, e.cfg.Home, dest)
	e.cfg.Metrics.ProviderLatency.WithLabelValues(name).
		Observe(time.Since(start).Seconds())
	if err != nil {
		e.cfg.Metrics.ProviderCalls.WithLabelValues(name, "error").Inc()
		return route.Summary{}, err
	}
	e.cfg.Metrics.ProviderCalls.WithLabelValues(name, "success").Inc()
	return summary, nil
}

func placeCard(p catalog.Place) string {
	lines := []string{fmt.Sprintf("%s (id %s)", p.Name, p.ID)}
	if p.Hours != "" {
		lines = append(lines, "Hours: "+p.Hours)
	}
	if p.Address != "" {
		lines = append(lines, "Address: "+p.Address)
	}
	if p.Tickets != "" {
		lines = append(lines, "Tickets: "+p.Tickets)
	}
	if p.Site != "" {
		lines = append(lines, "Site: "+p.Site)
	}
	return strings.Join(lines, "\n")
}

func weatherLine(s weather.Snapshot) string {
	return fmt.Sprintf("Now: %+.1f °C, %s", s.TemperatureC, s.Condition)
}

func routeLine(s route.Summary) string {
	return fmt.Sprintf("Distance: %.1f km, about %d min\nOpen the route: %s",
		s.DistanceKm, int(s.Duration.Minutes()+0.5), s.MapLink)
}
