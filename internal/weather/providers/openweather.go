package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-widget/internal/weather"
)

// Default OpenWeatherMap endpoints.
const (
	DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultAirURL     = "https://api.openweathermap.org/data/2.5/air_pollution"
	DefaultGeoURL     = "https://api.openweathermap.org/geo/1.0/direct"
)

// Endpoints holds the base URLs of the OpenWeatherMap APIs. Empty fields take
// the defaults.
type Endpoints struct {
	Weather string
	Air     string
	Geo     string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.Weather == "" {
		e.Weather = DefaultWeatherURL
	}
	if e.Air == "" {
		e.Air = DefaultAirURL
	}
	if e.Geo == "" {
		e.Geo = DefaultGeoURL
	}
	return e
}

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	apiKey    string
	endpoints Endpoints
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider sharing one circuit breaker across
// the weather, air pollution and geocoding endpoints.
func NewOpenWeatherProvider(client *http.Client, apiKey string, endpoints Endpoints, backoff BackoffConfig) *OpenWeatherProvider {
	if backoff.InitialInterval <= 0 {
		backoff.InitialInterval = 500 * time.Millisecond
	}
	if backoff.MaxInterval <= 0 {
		backoff.MaxInterval = 5 * time.Second
	}
	return &OpenWeatherProvider{
		apiKey:    apiKey,
		endpoints: endpoints.withDefaults(),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

type currentPayload struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
	Visibility *float64 `json:"visibility"`
}

func (p currentPayload) snapshot() weather.WeatherSnapshot {
	s := weather.WeatherSnapshot{
		Name:    p.Name,
		Country: p.Sys.Country,
		Coordinates: weather.Coordinates{
			Lat: p.Coord.Lat,
			Lon: p.Coord.Lon,
		},
		TemperatureC: p.Main.Temp,
		TempMinC:     p.Main.TempMin,
		TempMaxC:     p.Main.TempMax,
		FeelsLikeC:   p.Main.FeelsLike,
		HumidityPct:  p.Main.Humidity,
		WindSpeedMS:  p.Wind.Speed,
		PressureHpa:  p.Main.Pressure,
		VisibilityM:  p.Visibility,
	}
	if len(p.Weather) > 0 {
		s.Condition = p.Weather[0].Main
		s.Icon = p.Weather[0].Icon
	}
	return s
}

// CurrentByName fetches current weather by city name.
func (p *OpenWeatherProvider) CurrentByName(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	if city == "" {
		return weather.WeatherSnapshot{}, weather.ErrEmptyQuery
	}
	values := url.Values{}
	values.Set("q", city)
	return p.current(ctx, values)
}

// CurrentByCoords fetches current weather for a coordinate pair.
func (p *OpenWeatherProvider) CurrentByCoords(ctx context.Context, c weather.Coordinates) (weather.WeatherSnapshot, error) {
	return p.current(ctx, coordValues(c))
}

func (p *OpenWeatherProvider) current(ctx context.Context, values url.Values) (weather.WeatherSnapshot, error) {
	values.Set("units", "metric")

	var payload currentPayload
	if err := p.getJSON(ctx, "weather", p.endpoints.Weather, values, &payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return payload.snapshot(), nil
}

// AirQuality fetches the current air pollution reading for a coordinate pair.
func (p *OpenWeatherProvider) AirQuality(ctx context.Context, c weather.Coordinates) (weather.AirQualityReading, error) {
	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components weather.Pollutants `json:"components"`
		} `json:"list"`
	}

	if err := p.getJSON(ctx, "air_pollution", p.endpoints.Air, coordValues(c), &payload); err != nil {
		return weather.AirQualityReading{}, err
	}
	if len(payload.List) == 0 {
		return weather.AirQualityReading{}, weather.ErrNoAirQuality
	}

	item := payload.List[0]
	return weather.AirQualityReading{
		Coordinates: c,
		Index:       item.Main.AQI,
		Components:  item.Components,
	}, nil
}

// SearchLocations queries the direct geocoding API for autocomplete candidates.
func (p *OpenWeatherProvider) SearchLocations(ctx context.Context, query string, limit int) ([]weather.Suggestion, error) {
	if query == "" {
		return nil, weather.ErrEmptyQuery
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))

	var payload []struct {
		Name    string  `json:"name"`
		State   string  `json:"state"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := p.getJSON(ctx, "geocoding", p.endpoints.Geo, values, &payload); err != nil {
		return nil, err
	}

	out := make([]weather.Suggestion, 0, len(payload))
	for _, item := range payload {
		out = append(out, weather.Suggestion{
			Name:        item.Name,
			State:       item.State,
			Country:     item.Country,
			Coordinates: weather.Coordinates{Lat: item.Lat, Lon: item.Lon},
		})
	}
	return out, nil
}

func (p *OpenWeatherProvider) getJSON(ctx context.Context, endpoint, baseURL string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}
	values.Set("appid", p.apiKey)

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, endpoint, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", weather.ErrUnavailable, endpoint, err)
	}
	return nil
}

func coordValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return values
}
