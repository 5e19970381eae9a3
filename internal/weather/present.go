package weather

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/i474232898/weather-widget/internal/aqi"
)

// NotAvailable is shown in place of values the provider did not return.
const NotAvailable = "N/A"

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// Background is the key of a background image picked from the weather condition.
type Background string

const (
	BackgroundClear   Background = "clear"
	BackgroundCloud   Background = "cloud"
	BackgroundRain    Background = "rain"
	BackgroundThunder Background = "thunder"
	BackgroundSnow    Background = "snow"
	BackgroundMist    Background = "mist"
	BackgroundFog     Background = "fog"
)

// Image returns the path of the background image under the static root.
func (b Background) Image() string {
	return "/static/images/" + string(b) + ".jpg"
}

var backgrounds = map[string]Background{
	"Clear":        BackgroundClear,
	"Clouds":       BackgroundCloud,
	"Haze":         BackgroundCloud,
	"Smoke":        BackgroundCloud,
	"Dust":         BackgroundCloud,
	"Sand":         BackgroundCloud,
	"Ash":          BackgroundCloud,
	"Rain":         BackgroundRain,
	"Drizzle":      BackgroundRain,
	"Thunderstorm": BackgroundThunder,
	"Squall":       BackgroundThunder,
	"Tornado":      BackgroundThunder,
	"Snow":         BackgroundSnow,
	"Mist":         BackgroundMist,
	"Fog":          BackgroundFog,
}

// MapCondition picks the background for a provider condition group.
// Unknown conditions fall back to the clear sky image.
func MapCondition(condition string) Background {
	if b, ok := backgrounds[condition]; ok {
		return b
	}
	return BackgroundClear
}

// Display is a WeatherSnapshot formatted for rendering.
type Display struct {
	Location    string     `json:"location"`
	Date        string     `json:"date"`
	Temperature string     `json:"temperature"`
	Condition   string     `json:"condition"`
	IconURL     string     `json:"iconUrl,omitempty"`
	MinMax      string     `json:"minMax"`
	FeelsLike   string     `json:"feelsLike"`
	Humidity    string     `json:"humidity"`
	WindSpeed   string     `json:"windSpeed"`
	Pressure    string     `json:"pressure"`
	Visibility  string     `json:"visibility"`
	Background  Background `json:"background"`
}

// Present formats a snapshot. Current and feels-like temperatures are rounded,
// the minimum is floored and the maximum ceiled.
func Present(s WeatherSnapshot, now time.Time) Display {
	d := Display{
		Location:    s.Name + ", " + s.Country,
		Date:        FormatDate(now),
		Temperature: fmt.Sprintf("%d°C", roundInt(s.TemperatureC)),
		Condition:   s.Condition,
		MinMax:      fmt.Sprintf("%d°C (min) / %d°C (max)", int(math.Floor(s.TempMinC)), int(math.Ceil(s.TempMaxC))),
		FeelsLike:   fmt.Sprintf("Feels like: %d°C", roundInt(s.FeelsLikeC)),
		Humidity:    formatNumber(s.HumidityPct) + "%",
		WindSpeed:   formatNumber(s.WindSpeedMS) + " m/s",
		Pressure:    formatNumber(s.PressureHpa) + " hPa",
		Visibility:  FormatVisibility(s.VisibilityM),
		Background:  MapCondition(s.Condition),
	}
	if s.Icon != "" {
		d.IconURL = fmt.Sprintf(iconURLFormat, s.Icon)
	}
	return d
}

// FormatVisibility converts metres to kilometres with one decimal. A missing or
// zero reading renders as NotAvailable.
func FormatVisibility(meters *float64) string {
	if meters == nil || *meters == 0 {
		return NotAvailable
	}
	return strconv.FormatFloat(*meters/1000, 'f', 1, 64) + " km"
}

// FormatDate renders a day as "16 October (Friday), 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s (%s), %d", t.Day(), t.Month(), t.Weekday(), t.Year())
}

// AirQualityDisplay is an AirQualityReading formatted for rendering.
type AirQualityDisplay struct {
	USAQI       string `json:"usAqi"`
	Label       string `json:"label"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
	Available   bool   `json:"available"`
}

// PresentAirQuality converts PM2.5 to a US AQI figure and attaches the
// provider category.
func PresentAirQuality(r AirQualityReading) AirQualityDisplay {
	d := AirQualityDisplay{
		USAQI:     strconv.Itoa(aqi.USAQI(r.Components.PM25)),
		Label:     NotAvailable,
		Available: true,
	}
	if c, ok := aqi.CategoryFor(r.Index); ok {
		d.Label = c.Label
		d.Class = c.Class
		d.Description = c.Description
	}
	return d
}

// AirQualityUnavailable is shown when the air quality fetch failed.
func AirQualityUnavailable() AirQualityDisplay {
	return AirQualityDisplay{USAQI: NotAvailable, Label: NotAvailable}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
