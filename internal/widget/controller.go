package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-widget/internal/geolocate"
	"github.com/i474232898/weather-widget/internal/logger"
	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/weather"
)

// User-facing messages.
const (
	MsgCityNotFound = "City not found. Please try again."
	MsgFetchFailed  = "Unable to fetch weather data."
	MsgEmptyInput   = "Please enter a city name"
)

// ErrNoSuggestion is returned when selecting an index that is not listed.
var ErrNoSuggestion = errors.New("no such suggestion")

// Service is what the controller needs from weather.Service.
type Service interface {
	Current(ctx context.Context, q weather.Query) (weather.WeatherSnapshot, error)
	AirQuality(ctx context.Context, c weather.Coordinates) (weather.AirQualityReading, error)
	Present(s weather.WeatherSnapshot) weather.Display
	Search(ctx context.Context, text string) ([]weather.Suggestion, error)
}

// Options tunes the controller.
type Options struct {
	DefaultCity   string
	Debounce      time.Duration
	MinChars      int
	SearchTimeout time.Duration
}

// Controller owns the widget view and is the only code that mutates it.
// Every fetch takes a token; completions carrying an older token are dropped.
type Controller struct {
	svc     Service
	locator geolocate.Locator
	opts    Options
	search  *Search

	mu   sync.Mutex
	view View
	seq  uint64
	last *weather.Query
}

// New creates a controller. locator may be nil.
func New(svc Service, locator geolocate.Locator, opts Options) *Controller {
	if opts.DefaultCity == "" {
		opts.DefaultCity = "Panipat"
	}
	return &Controller{
		svc:     svc,
		locator: locator,
		opts:    opts,
		search:  NewSearch(svc.Search, opts.Debounce, opts.MinChars, opts.SearchTimeout),
		view:    View{Status: StatusIdle},
	}
}

// View returns a copy of the current view including the suggestion list.
func (c *Controller) View() View {
	c.mu.Lock()
	v := c.view
	c.mu.Unlock()

	snap := c.search.Snapshot()
	v.Suggestions = make([]weather.LabeledSuggestion, 0, len(snap.Items))
	for _, s := range snap.Items {
		v.Suggestions = append(v.Suggestions, s.Labeled())
	}
	v.SuggestionsVisible = snap.State == SearchSuggesting
	v.SearchPending = snap.Pending
	return v
}

// Input records the search text and feeds the autocomplete debouncer.
func (c *Controller) Input(text string) View {
	c.mu.Lock()
	c.view.Input = text
	c.mu.Unlock()

	c.search.Input(text)
	return c.View()
}

// Submit handles the commit key or the search button.
func (c *Controller) Submit(ctx context.Context, text string) View {
	c.search.Hide()

	c.mu.Lock()
	c.view.Input = text
	c.mu.Unlock()

	city := strings.TrimSpace(text)
	if city == "" {
		c.fail(c.next(), MsgEmptyInput)
		return c.View()
	}
	c.fetch(ctx, weather.ByCity(city))
	return c.View()
}

// Select fetches weather for a listed suggestion.
func (c *Controller) Select(ctx context.Context, index int) (View, error) {
	s, ok := c.search.Pick(index)
	if !ok {
		return c.View(), ErrNoSuggestion
	}

	c.mu.Lock()
	c.view.Input = s.Name
	c.mu.Unlock()

	q := weather.ByCity(s.Name)
	if s.Coordinates != (weather.Coordinates{}) {
		q = weather.ByCoords(s.Coordinates)
	}
	c.fetch(ctx, q)
	return c.View(), nil
}

// Dismiss hides the suggestion list, as a click outside the search box does.
func (c *Controller) Dismiss() View {
	c.search.Hide()
	return c.View()
}

// Locate performs the initial load. Browser coordinates win; without them the
// server-side locator is asked and, failing that, the default city is shown.
// A missing position is never reported to the user.
func (c *Controller) Locate(ctx context.Context, coords *weather.Coordinates, hint geolocate.Hint) View {
	if coords != nil {
		c.fetch(ctx, weather.ByCoords(*coords))
		return c.View()
	}

	if c.locator != nil {
		found, err := c.locator.Locate(ctx, hint)
		if err == nil {
			c.fetch(ctx, weather.ByCoords(found))
			return c.View()
		}
		logger.L().Info("geolocation_unavailable", "fallback", c.opts.DefaultCity, "err", err)
	}

	c.fetch(ctx, weather.ByCity(c.opts.DefaultCity))
	return c.View()
}

// Refresh repeats the last successful fetch. It reports false when nothing
// has been displayed yet.
func (c *Controller) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	if last == nil {
		return false
	}
	c.fetch(ctx, *last)
	return true
}

// fetch runs the weather stage and, on success, the air quality stage.
func (c *Controller) fetch(ctx context.Context, q weather.Query) {
	token := c.next()
	log := logger.L().With("fetch_id", uuid.NewString(), "query", q.Key())

	c.apply(token, func(v *View) {
		v.Status = StatusLoading
		v.Message = ""
		v.Weather = nil
		v.AirQuality = nil
	})

	snap, err := c.svc.Current(ctx, q)
	if err != nil {
		log.Warn("weather_fetch_failed", "err", err)
		c.fail(token, failureMessage(q))
		return
	}

	display := c.svc.Present(snap)
	shown := c.apply(token, func(v *View) {
		v.Status = StatusDisplay
		v.Weather = &display
		v.Background = display.Background
		c.last = &q
	})
	if !shown {
		log.Debug("weather_response_superseded")
		return
	}
	c.search.Hide()

	aq := weather.AirQualityUnavailable()
	reading, err := c.svc.AirQuality(ctx, snap.Coordinates)
	if err != nil {
		log.Warn("air_quality_fetch_failed", "coords", snap.Coordinates.String(), "err", err)
	} else {
		aq = weather.PresentAirQuality(reading)
	}
	c.apply(token, func(v *View) {
		v.AirQuality = &aq
	})
}

func (c *Controller) next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// apply mutates the view if token is still the latest one.
func (c *Controller) apply(token uint64, fn func(v *View)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.seq {
		metrics.StaleResponsesTotal.WithLabelValues("weather").Inc()
		return false
	}
	fn(&c.view)
	return true
}

func (c *Controller) fail(token uint64, msg string) {
	c.apply(token, func(v *View) {
		v.Status = StatusError
		v.Message = msg
		v.Weather = nil
		v.AirQuality = nil
	})
}

func failureMessage(q weather.Query) string {
	if q.Coords != nil {
		return MsgFetchFailed
	}
	return MsgCityNotFound
}
