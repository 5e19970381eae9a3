package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-widget/internal/logger"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// Base URLs; empty means the provider default.
	WeatherURL string
	AirURL     string
	GeoURL     string

	DefaultCity string

	// Autocomplete tuning.
	SearchDebounce time.Duration
	SearchMinChars int
	SearchLimit    int

	HTTPTimeout        time.Duration
	ProviderMaxRetries int

	// RefreshInterval re-fetches the displayed location (0 = disabled).
	RefreshInterval time.Duration

	// Server-side geolocation fallbacks, both optional.
	GeoIPDBPath          string
	HomeCity             string
	HomeCountry          string
	GoogleGeocoderAPIKey string

	Port      string
	StaticDir string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.L().Info("no .env file loaded", "err", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	cfg.WeatherURL = os.Getenv("OPENWEATHER_WEATHER_URL")
	cfg.AirURL = os.Getenv("OPENWEATHER_AQI_URL")
	cfg.GeoURL = os.Getenv("OPENWEATHER_GEO_URL")
	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", "Panipat")

	var err error
	if cfg.SearchDebounce, err = getenvDuration("SEARCH_DEBOUNCE", "300ms"); err != nil {
		return nil, err
	}
	cfg.SearchMinChars = getenvInt("SEARCH_MIN_CHARS", 2)
	cfg.SearchLimit = getenvInt("SEARCH_LIMIT", 8)

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	if cfg.ProviderMaxRetries < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_MAX_RETRIES: %d", cfg.ProviderMaxRetries)
	}

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	cfg.GeoIPDBPath = os.Getenv("GEOIP_DB_PATH")
	cfg.HomeCity = os.Getenv("HOME_ADDRESS_CITY")
	cfg.HomeCountry = os.Getenv("HOME_ADDRESS_COUNTRY")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.StaticDir = getenvDefault("STATIC_DIR", "web/static")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
