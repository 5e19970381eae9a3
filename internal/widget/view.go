package widget

import "github.com/i474232898/weather-widget/internal/weather"

// Status is the fetch state shown by the widget.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusDisplay Status = "display"
	StatusError   Status = "error"
)

// View is everything the page renders.
type View struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`

	Weather *weather.Display `json:"weather,omitempty"`
	// AirQuality is nil while the air quality stage is still running.
	AirQuality *weather.AirQualityDisplay `json:"airQuality,omitempty"`
	Background weather.Background         `json:"background,omitempty"`

	Input              string                      `json:"input"`
	Suggestions        []weather.LabeledSuggestion `json:"suggestions"`
	SuggestionsVisible bool                        `json:"suggestionsVisible"`

	// SearchPending is true until the latest keystroke's lookup settles.
	SearchPending bool `json:"searchPending"`
}
