package weather

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the provider does not know the requested location.
	ErrNotFound = errors.New("location not found")
	// ErrUnavailable wraps transport failures and unexpected provider statuses.
	ErrUnavailable = errors.New("weather provider unavailable")
	// ErrNoAirQuality is returned when the air quality response carries no readings.
	ErrNoAirQuality = errors.New("no air quality data")
	// ErrEmptyQuery is returned for blank city names or search text.
	ErrEmptyQuery = errors.New("empty query")
)

// Provider abstracts the weather data source (OpenWeatherMap).
type Provider interface {
	CurrentByName(ctx context.Context, city string) (WeatherSnapshot, error)
	CurrentByCoords(ctx context.Context, c Coordinates) (WeatherSnapshot, error)
	AirQuality(ctx context.Context, c Coordinates) (AirQualityReading, error)
	SearchLocations(ctx context.Context, query string, limit int) ([]Suggestion, error)
}
