package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/geolocate"
	"github.com/i474232898/weather-widget/internal/logger"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

func main() {
	log := logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, providers.Endpoints{
		Weather: cfg.WeatherURL,
		Air:     cfg.AirURL,
		Geo:     cfg.GeoURL,
	}, providers.BackoffConfig{MaxRetries: cfg.ProviderMaxRetries})

	service := weather.NewService(provider, cfg.SearchLimit)

	// Server-side substitutes for browser geolocation.
	var locators geolocate.Chain
	if cfg.GeoIPDBPath != "" {
		geoip, err := geolocate.OpenGeoIP(cfg.GeoIPDBPath)
		if err != nil {
			log.Warn("geoip locator disabled", "err", err)
		} else {
			defer geoip.Close()
			locators = append(locators, geoip)
		}
	}
	if cfg.GoogleGeocoderAPIKey != "" && cfg.HomeCity != "" {
		locators = append(locators, geolocate.NewAddress(cfg.GoogleGeocoderAPIKey, cfg.HomeCity, cfg.HomeCountry))
	}

	// One controller: every client shares a single widget view.
	ctrl := widget.New(service, locators, widget.Options{
		DefaultCity:   cfg.DefaultCity,
		Debounce:      cfg.SearchDebounce,
		MinChars:      cfg.SearchMinChars,
		SearchTimeout: cfg.HTTPTimeout,
	})

	// The first page visit performs the initial load through /api/v1/widget/locate.
	sched := scheduler.New(ctrl, cfg.RefreshInterval, 30*time.Second)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	page, err := httpapi.NewPage(cfg.SearchDebounce)
	if err != nil {
		log.Error("failed to parse page template", "err", err)
		os.Exit(1)
	}

	app := httpapi.NewApp(cfg.StaticDir)
	httpapi.RegisterRoutes(app, service, ctrl, page)

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "err", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
}
