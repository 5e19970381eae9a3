// Package geolocate resolves a starting location for the widget when the
// browser does not provide one.
package geolocate

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/kelvins/geocoder"
	"github.com/oschwald/geoip2-golang"

	"github.com/i474232898/weather-widget/internal/logger"
	"github.com/i474232898/weather-widget/internal/weather"
)

// ErrUnavailable means the locator could not determine a position.
var ErrUnavailable = errors.New("location unavailable")

// Hint carries what is known about the requester.
type Hint struct {
	IP string
}

// Locator resolves a Hint into coordinates.
type Locator interface {
	Locate(ctx context.Context, hint Hint) (weather.Coordinates, error)
}

// Chain tries each locator in order and returns the first position found.
type Chain []Locator

func (c Chain) Locate(ctx context.Context, hint Hint) (weather.Coordinates, error) {
	for _, l := range c {
		if ctx.Err() != nil {
			return weather.Coordinates{}, ctx.Err()
		}
		coords, err := l.Locate(ctx, hint)
		if err == nil {
			return coords, nil
		}
		logger.L().Debug("locator_miss", "locator", fmt.Sprintf("%T", l), "err", err)
	}
	return weather.Coordinates{}, ErrUnavailable
}

// GeoIP locates public client addresses with a MaxMind City database.
type GeoIP struct {
	db *geoip2.Reader
}

// OpenGeoIP opens a GeoLite2/GeoIP2 City database.
func OpenGeoIP(path string) (*GeoIP, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &GeoIP{db: db}, nil
}

func (g *GeoIP) Locate(_ context.Context, hint Hint) (weather.Coordinates, error) {
	ip := net.ParseIP(hint.IP)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return weather.Coordinates{}, ErrUnavailable
	}
	if g.db == nil {
		return weather.Coordinates{}, ErrUnavailable
	}

	rec, err := g.db.City(ip)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return weather.Coordinates{}, ErrUnavailable
	}
	logger.L().Debug("geoip_located", "ip", hint.IP, "city", rec.City.Names["en"])
	return weather.Coordinates{Lat: rec.Location.Latitude, Lon: rec.Location.Longitude}, nil
}

// Close releases the database.
func (g *GeoIP) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}

// Address geocodes a fixed home address through the Google Geocoding API.
type Address struct {
	address geocoder.Address
	resolve func(geocoder.Address) (geocoder.Location, error)
}

// NewAddress configures the geocoder key and the address to resolve.
func NewAddress(apiKey, city, country string) *Address {
	geocoder.ApiKey = apiKey
	return &Address{
		address: geocoder.Address{City: city, Country: country},
		resolve: geocoder.Geocoding,
	}
}

func (a *Address) Locate(_ context.Context, _ Hint) (weather.Coordinates, error) {
	if a.address.City == "" {
		return weather.Coordinates{}, ErrUnavailable
	}
	loc, err := a.resolve(a.address)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}
