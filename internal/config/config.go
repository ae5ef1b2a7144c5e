package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Telegram transport.
	TelegramToken string
	AdminChatID   int64

	// Ops HTTP API.
	Port       string
	AdminToken string

	// Place catalog.
	PlacesFile string

	// Feedback / usage counter store.
	DBPath string

	// Home location: default weather spot and route origin.
	HomeName string
	HomeLat  float64
	HomeLon  float64

	// Optional provider keys.
	OpenWeatherAPIKey string
	GoogleAPIKey      string

	// Outbound provider calls.
	HTTPTimeout     time.Duration
	ProviderTimeout time.Duration

	// Periodic usage-summary log job.
	StatsLogInterval time.Duration

	// Logging.
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")

	adminID, err := getenvInt64("ADMIN_CHAT_ID", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
	}
	cfg.AdminChatID = adminID

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.PlacesFile = getenvDefault("PLACES_FILE", "data/places.json")
	cfg.DBPath = getenvDefault("DB_PATH", "data/placebot.db")

	cfg.HomeName = getenvDefault("HOME_NAME", "Saint Petersburg")
	cfg.HomeLat, err = getenvFloat("HOME_LAT", 59.9343)
	if err != nil {
		return nil, fmt.Errorf("invalid HOME_LAT: %w", err)
	}
	cfg.HomeLon, err = getenvFloat("HOME_LON", 30.3351)
	if err != nil {
		return nil, fmt.Errorf("invalid HOME_LON: %w", err)
	}

	httpTimeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	httpTimeout, err := time.ParseDuration(httpTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = httpTimeout

	provTimeoutStr := getenvDefault("PROVIDER_TIMEOUT", "7s")
	provTimeout, err := time.ParseDuration(provTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	cfg.ProviderTimeout = provTimeout

	statsIntervalStr := getenvDefault("STATS_LOG_INTERVAL", "30m")
	statsInterval, err := time.ParseDuration(statsIntervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_LOG_INTERVAL: %w", err)
	}
	cfg.StatsLogInterval = statsInterval

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")
	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}
