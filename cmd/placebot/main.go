package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	httpapi "github.com/pgulin/placebot/internal/api/http"
	"github.com/pgulin/placebot/internal/catalog"
	"github.com/pgulin/placebot/internal/config"
	"github.com/pgulin/placebot/internal/core"
	"github.com/pgulin/placebot/internal/logging"
	"github.com/pgulin/placebot/internal/observability"
	"github.com/pgulin/placebot/internal/route"
	"github.com/pgulin/placebot/internal/scheduler"
	"github.com/pgulin/placebot/internal/stats"
	"github.com/pgulin/placebot/internal/store"
	"github.com/pgulin/placebot/internal/transport/telegram"
	"github.com/pgulin/placebot/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewWithConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	defer logger.Close()

	// Place catalog: loaded once, read-only afterwards. Address-only
	// places are geocoded before the catalog is shared.
	cat, err := catalog.Load(cfg.PlacesFile)
	if err != nil {
		log.Fatalf("failed to load place catalog: %v", err)
	}
	cat.GeocodeMissing(cfg.GoogleAPIKey, cfg.HomeName, "", logger.Logger)
	logger.Info("catalog loaded", "places", cat.Len())

	// Feedback / usage counter store.
	st, err := store.NewSQLiteStore(cfg.DBPath, clockwork.NewRealClock())
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Weather providers: Open-Meteo needs no key; OpenWeatherMap joins
	// the chain when a key is configured.
	weatherProviders := []weather.Provider{
		weather.NewOpenMeteoProvider(httpClient),
	}
	if cfg.OpenWeatherAPIKey != "" {
		weatherProviders = append(weatherProviders,
			weather.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}

	metrics := observability.NewMetrics()
	reporter := stats.NewReporter(st)

	engine := core.New(core.Config{
		Catalog:          cat,
		WeatherProviders: weatherProviders,
		RouteProvider:    route.NewOSRMProvider(httpClient),
		Store:            st,
		Reporter:         reporter,
		Metrics:          metrics,
		Logger:           logger.Logger,
		ProviderTimeout:  cfg.ProviderTimeout,
		Home:             route.Point{Lat: cfg.HomeLat, Lon: cfg.HomeLon},
		HomeName:         cfg.HomeName,
	})

	// Periodic usage-summary snapshot.
	sched := scheduler.New(reporter, cfg.StatsLogInterval, logger.Logger)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Ops HTTP API.
	app := fiber.New(fiber.Config{
		AppName:               "placebot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "placebot",
		})
	})

	httpapi.RegisterRoutes(app, engine, reporter, cfg.AdminToken)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telegram transport, when a token is configured. The ops API can
	// drive the engine on its own, so a missing token is not fatal.
	if cfg.TelegramToken != "" {
		adapter, err := telegram.New(cfg.TelegramToken, cfg.AdminChatID, engine, logger.Logger)
		if err != nil {
			log.Fatalf("failed to start telegram transport: %v", err)
		}
		go func() {
			if err := adapter.Start(ctx); err != nil {
				logger.Error("telegram transport stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set; running with HTTP transport only")
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
