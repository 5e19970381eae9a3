package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

const testAPIKey = "test-key"

const londonJSON = `{
	"name": "London",
	"coord": {"lat": 51.5085, "lon": -0.1257},
	"sys": {"country": "GB"},
	"main": {"temp": 12.6, "temp_min": 10.4, "temp_max": 13.2, "feels_like": 11.5, "humidity": 81, "pressure": 1012},
	"wind": {"speed": 3.6},
	"weather": [{"main": "Rain", "icon": "10d"}],
	"visibility": 10000
}`

func newTestProvider(srv *httptest.Server, retries int) *OpenWeatherProvider {
	return NewOpenWeatherProvider(srv.Client(), testAPIKey, Endpoints{
		Weather: srv.URL + "/weather",
		Air:     srv.URL + "/air",
		Geo:     srv.URL + "/geo",
	}, BackoffConfig{MaxRetries: retries, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond})
}

func TestCurrentByNameSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := q.Get("q"); got != "London" {
			t.Errorf("expected q=London, got %s", got)
		}
		if got := q.Get("appid"); got != testAPIKey {
			t.Errorf("expected appid=%s, got %s", testAPIKey, got)
		}
		if got := q.Get("units"); got != "metric" {
			t.Errorf("expected units=metric, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(londonJSON))
	}))
	defer srv.Close()

	got, err := newTestProvider(srv, 0).CurrentByName(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Name != "London" || got.Country != "GB" {
		t.Errorf("unexpected location %s, %s", got.Name, got.Country)
	}
	if got.TemperatureC != 12.6 || got.TempMinC != 10.4 || got.TempMaxC != 13.2 || got.FeelsLikeC != 11.5 {
		t.Errorf("unexpected temperatures %+v", got)
	}
	if got.Condition != "Rain" || got.Icon != "10d" {
		t.Errorf("unexpected condition %s icon %s", got.Condition, got.Icon)
	}
	if got.VisibilityM == nil || *got.VisibilityM != 10000 {
		t.Errorf("expected visibility 10000, got %v", got.VisibilityM)
	}
	if got.Coordinates.Lat != 51.5085 || got.Coordinates.Lon != -0.1257 {
		t.Errorf("unexpected coordinates %+v", got.Coordinates)
	}
}

func TestCurrentByCoordsQueryShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "29.39" || q.Get("lon") != "76.97" {
			t.Errorf("unexpected coordinates lat=%s lon=%s", q.Get("lat"), q.Get("lon"))
		}
		if q.Has("q") {
			t.Errorf("coordinate query must not carry q")
		}
		if got := q.Get("units"); got != "metric" {
			t.Errorf("expected units=metric, got %s", got)
		}
		w.Write([]byte(`{"name":"Panipat","sys":{"country":"IN"},"weather":[{"main":"Haze","icon":"50d"}]}`))
	}))
	defer srv.Close()

	got, err := newTestProvider(srv, 0).CurrentByCoords(context.Background(), weather.Coordinates{Lat: 29.39, Lon: 76.97})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.VisibilityM != nil {
		t.Errorf("expected absent visibility, got %v", *got.VisibilityM)
	}
}

func TestCurrentNotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv, 3).CurrentByName(context.Background(), "Atlantis")
	if !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single call for 404, got %d", n)
	}
}

func TestCurrentServerErrorNoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv, 0).CurrentByName(context.Background(), "London")
	if !errors.Is(err, weather.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestCurrentRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(londonJSON))
	}))
	defer srv.Close()

	got, err := newTestProvider(srv, 2).CurrentByName(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "London" {
		t.Fatalf("expected London, got %s", got.Name)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestAirQuality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/air" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q.Has("units") {
			t.Errorf("air pollution query must not carry units")
		}
		if q.Get("lat") != "51.5085" || q.Get("lon") != "-0.1257" {
			t.Errorf("unexpected coordinates lat=%s lon=%s", q.Get("lat"), q.Get("lon"))
		}
		w.Write([]byte(`{"list":[{"main":{"aqi":2},"components":{"pm2_5":8.4,"pm10":12.1,"o3":60.2}}]}`))
	}))
	defer srv.Close()

	c := weather.Coordinates{Lat: 51.5085, Lon: -0.1257}
	got, err := newTestProvider(srv, 0).AirQuality(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Index != 2 || got.Components.PM25 != 8.4 || got.Components.PM10 != 12.1 {
		t.Fatalf("unexpected reading %+v", got)
	}
	if got.Coordinates != c {
		t.Fatalf("expected reading tagged with %v, got %v", c, got.Coordinates)
	}
}

func TestAirQualityEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list":[]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv, 0).AirQuality(context.Background(), weather.Coordinates{})
	if !errors.Is(err, weather.ErrNoAirQuality) {
		t.Fatalf("expected ErrNoAirQuality, got %v", err)
	}
}

func TestSearchLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Spring" || q.Get("limit") != "8" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[
			{"name":"Springfield","state":"Illinois","country":"US","lat":39.8,"lon":-89.6},
			{"name":"Springs","country":"ZA","lat":-26.2,"lon":28.4}
		]`))
	}))
	defer srv.Close()

	got, err := newTestProvider(srv, 0).SearchLocations(context.Background(), "Spring", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].Label() != "Springfield, Illinois, US" {
		t.Errorf("unexpected label %q", got[0].Label())
	}
	if got[1].Label() != "Springs, ZA" {
		t.Errorf("unexpected label %q", got[1].Label())
	}
}

func TestMissingAPIKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "", Endpoints{}, BackoffConfig{})
	if _, err := p.CurrentByName(context.Background(), "London"); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestProvider(srv, 0).CurrentByName(ctx, "London"); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
