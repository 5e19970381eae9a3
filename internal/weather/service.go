package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weather-widget/internal/logger"
)

// Report is a presented weather snapshot together with its air quality.
type Report struct {
	Snapshot   WeatherSnapshot   `json:"snapshot"`
	Display    Display           `json:"display"`
	AirQuality AirQualityDisplay `json:"airQuality"`
}

// Service sequences provider calls: current weather first, then air quality
// for the returned coordinates.
type Service struct {
	provider    Provider
	searchLimit int
	now         func() time.Time
}

// NewService creates a new Service. searchLimit caps the number of suggestions.
func NewService(provider Provider, searchLimit int) *Service {
	if searchLimit <= 0 {
		searchLimit = 8
	}
	return &Service{
		provider:    provider,
		searchLimit: searchLimit,
		now:         time.Now,
	}
}

// Current fetches the current weather for a query.
func (s *Service) Current(ctx context.Context, q Query) (WeatherSnapshot, error) {
	if q.Coords != nil {
		return s.provider.CurrentByCoords(ctx, *q.Coords)
	}
	if q.City == "" {
		return WeatherSnapshot{}, ErrEmptyQuery
	}
	return s.provider.CurrentByName(ctx, q.City)
}

// AirQuality fetches the air quality for a coordinate pair.
func (s *Service) AirQuality(ctx context.Context, c Coordinates) (AirQualityReading, error) {
	return s.provider.AirQuality(ctx, c)
}

// Report runs both stages. A weather failure is returned as an error; an air
// quality failure is logged and reported as unavailable.
func (s *Service) Report(ctx context.Context, q Query) (Report, error) {
	snap, err := s.Current(ctx, q)
	if err != nil {
		logger.L().Warn("weather_fetch_failed", "query", q.Key(), "err", err)
		return Report{}, fmt.Errorf("fetch weather for %q: %w", q.Key(), err)
	}

	report := Report{
		Snapshot:   snap,
		Display:    s.Present(snap),
		AirQuality: AirQualityUnavailable(),
	}

	reading, err := s.AirQuality(ctx, snap.Coordinates)
	if err != nil {
		logger.L().Warn("air_quality_fetch_failed", "coords", snap.Coordinates.String(), "err", err)
		return report, nil
	}
	report.AirQuality = PresentAirQuality(reading)
	return report, nil
}

// Present formats a snapshot with the service clock.
func (s *Service) Present(snap WeatherSnapshot) Display {
	return Present(snap, s.now())
}

// Search looks up location candidates for autocomplete.
func (s *Service) Search(ctx context.Context, text string) ([]Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	return s.provider.SearchLocations(ctx, text, s.searchLimit)
}
