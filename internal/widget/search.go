package widget

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/i474232898/weather-widget/internal/logger"
	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/weather"
)

// SearchState is the autocomplete state.
type SearchState string

const (
	SearchIdle       SearchState = "idle"
	SearchSuggesting SearchState = "suggesting"
)

// LookupFunc queries location candidates for the given text.
type LookupFunc func(ctx context.Context, text string) ([]weather.Suggestion, error)

// Search debounces keystrokes into location lookups.
//
// Only the latest issued lookup may populate the list, and any Hide since it
// was issued discards it.
type Search struct {
	lookup   LookupFunc
	delay    time.Duration
	minChars int
	timeout  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending uint64 // generation of the armed timer
	seq     uint64 // token of the latest issued lookup
	state   SearchState
	items   []weather.Suggestion

	// inflight is set while the latest issued lookup has not settled.
	inflight bool
}

// NewSearch creates a debouncer. timeout bounds each lookup; zero means none.
func NewSearch(lookup LookupFunc, delay time.Duration, minChars int, timeout time.Duration) *Search {
	if minChars <= 0 {
		minChars = 2
	}
	return &Search{
		lookup:   lookup,
		delay:    delay,
		minChars: minChars,
		timeout:  timeout,
		state:    SearchIdle,
	}
}

// Input handles a change of the search text. Short input hides the list at
// once; otherwise the quiescence timer is restarted.
func (s *Search) Input(text string) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	if utf8.RuneCountInString(text) < s.minChars {
		s.hideLocked()
		return
	}

	gen := s.pending
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen, text) })
}

// Hide cancels any pending lookup and clears the list.
func (s *Search) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.hideLocked()
}

// Pick returns the suggestion at index and hides the list.
func (s *Search) Pick(index int) (weather.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SearchSuggesting || index < 0 || index >= len(s.items) {
		return weather.Suggestion{}, false
	}
	picked := s.items[index]
	s.stopTimerLocked()
	s.hideLocked()
	return picked, true
}

// SearchSnapshot is a point-in-time copy of the autocomplete state.
type SearchSnapshot struct {
	State SearchState
	Items []weather.Suggestion
	// Pending reports an armed timer or an unsettled lookup.
	Pending bool
}

// Snapshot returns the current state and a copy of the list.
func (s *Search) Snapshot() SearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]weather.Suggestion, len(s.items))
	copy(items, s.items)
	return SearchSnapshot{
		State:   s.state,
		Items:   items,
		Pending: s.timer != nil || s.inflight,
	}
}

func (s *Search) fire(gen uint64, text string) {
	s.mu.Lock()
	if gen != s.pending {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.seq++
	token := s.seq
	s.inflight = true
	s.mu.Unlock()

	metrics.SearchQueriesTotal.Inc()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	items, err := s.lookup(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		metrics.StaleResponsesTotal.WithLabelValues("search").Inc()
		return
	}
	s.inflight = false
	if err != nil {
		logger.L().Warn("location_search_failed", "query", text, "err", err)
		s.hideLocked()
		return
	}
	if len(items) == 0 {
		s.hideLocked()
		return
	}
	s.state = SearchSuggesting
	s.items = items
}

// stopTimerLocked disarms the timer. Bumping pending also voids a callback
// that already started before Stop could prevent it.
func (s *Search) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending++
}

func (s *Search) hideLocked() {
	s.seq++
	s.inflight = false
	s.state = SearchIdle
	s.items = nil
}
