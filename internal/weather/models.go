package weather

import (
	"fmt"
	"strings"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// String formats the pair for logs.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Query identifies what a weather fetch is for: a city name or a coordinate pair.
// Exactly one of City and Coords is set.
type Query struct {
	City   string       `json:"city,omitempty"`
	Coords *Coordinates `json:"coords,omitempty"`
}

// ByCity builds a name query.
func ByCity(city string) Query {
	return Query{City: strings.TrimSpace(city)}
}

// ByCoords builds a coordinate query.
func ByCoords(c Coordinates) Query {
	return Query{Coords: &c}
}

// Key returns a canonical string for logging.
func (q Query) Key() string {
	if q.Coords != nil {
		return q.Coords.String()
	}
	return q.City
}

// WeatherSnapshot is the current weather for one location as reported by the
// provider. A new fetch replaces it entirely.
type WeatherSnapshot struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`

	TemperatureC float64 `json:"temperatureC"`
	TempMinC     float64 `json:"tempMinC"`
	TempMaxC     float64 `json:"tempMaxC"`
	FeelsLikeC   float64 `json:"feelsLikeC"`

	Condition string `json:"condition"` // provider group, e.g. "Rain"
	Icon      string `json:"icon"`

	HumidityPct float64 `json:"humidityPercent"`
	WindSpeedMS float64 `json:"windSpeed"`
	PressureHpa float64 `json:"pressureHpa"`

	// VisibilityM is nil when the provider omits visibility.
	VisibilityM *float64 `json:"visibilityM,omitempty"`
}

// Pollutants holds component concentrations in µg/m³.
type Pollutants struct {
	CO   float64 `json:"co"`
	NO   float64 `json:"no"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NH3  float64 `json:"nh3"`
}

// AirQualityReading is the provider's air quality for a coordinate pair.
type AirQualityReading struct {
	Coordinates Coordinates `json:"coordinates"`
	Index       int         `json:"index"` // provider scale, 1 (good) .. 5 (very poor)
	Components  Pollutants  `json:"components"`
}

// Suggestion is one geocoding candidate offered while the user types.
type Suggestion struct {
	Name        string      `json:"name"`
	State       string      `json:"state,omitempty"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
}

// Label renders "Name, State, Country", omitting an empty state.
func (s Suggestion) Label() string {
	parts := []string{s.Name}
	if s.State != "" {
		parts = append(parts, s.State)
	}
	parts = append(parts, s.Country)
	return strings.Join(parts, ", ")
}

// LabeledSuggestion carries the display label alongside the candidate.
type LabeledSuggestion struct {
	Suggestion
	Label string `json:"label"`
}

// Labeled attaches Label() for clients that render the candidate.
func (s Suggestion) Labeled() LabeledSuggestion {
	return LabeledSuggestion{Suggestion: s, Label: s.Label()}
}
