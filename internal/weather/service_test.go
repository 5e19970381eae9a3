package weather

import (
	"context"
	"errors"
	"testing"
)

// fakeProvider is an in-memory Provider for service tests.
type fakeProvider struct {
	snapshot    WeatherSnapshot
	weatherErr  error
	reading     AirQualityReading
	airErr      error
	suggestions []Suggestion

	byName    []string
	byCoords  []Coordinates
	airCalls  []Coordinates
	lastLimit int
}

func (f *fakeProvider) CurrentByName(_ context.Context, city string) (WeatherSnapshot, error) {
	f.byName = append(f.byName, city)
	return f.snapshot, f.weatherErr
}

func (f *fakeProvider) CurrentByCoords(_ context.Context, c Coordinates) (WeatherSnapshot, error) {
	f.byCoords = append(f.byCoords, c)
	return f.snapshot, f.weatherErr
}

func (f *fakeProvider) AirQuality(_ context.Context, c Coordinates) (AirQualityReading, error) {
	f.airCalls = append(f.airCalls, c)
	return f.reading, f.airErr
}

func (f *fakeProvider) SearchLocations(_ context.Context, _ string, limit int) ([]Suggestion, error) {
	f.lastLimit = limit
	return f.suggestions, nil
}

func TestReportFetchesAirQualityForSnapshotCoordinates(t *testing.T) {
	coords := Coordinates{Lat: 51.5, Lon: -0.12}
	p := &fakeProvider{
		snapshot: WeatherSnapshot{Name: "London", Country: "GB", Condition: "Clouds", Coordinates: coords},
		reading:  AirQualityReading{Index: 1, Components: Pollutants{PM25: 6}},
	}
	svc := NewService(p, 0)

	r, err := svc.Report(context.Background(), ByCity("  London "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.byName) != 1 || p.byName[0] != "London" {
		t.Fatalf("expected trimmed name lookup, got %v", p.byName)
	}
	if len(p.airCalls) != 1 || p.airCalls[0] != coords {
		t.Fatalf("expected air quality lookup at %v, got %v", coords, p.airCalls)
	}
	if r.AirQuality.USAQI != "25" || r.AirQuality.Label != "Good" {
		t.Fatalf("unexpected air quality %+v", r.AirQuality)
	}
	if r.Display.Background != BackgroundCloud {
		t.Fatalf("unexpected background %q", r.Display.Background)
	}
}

func TestReportAirQualityFailureIsNotFatal(t *testing.T) {
	p := &fakeProvider{
		snapshot: WeatherSnapshot{Name: "London", Country: "GB"},
		airErr:   errors.New("boom"),
	}

	r, err := NewService(p, 0).Report(context.Background(), ByCity("London"))
	if err != nil {
		t.Fatalf("air quality failure must not fail the report: %v", err)
	}
	if r.AirQuality.USAQI != NotAvailable || r.AirQuality.Available {
		t.Fatalf("expected unavailable air quality, got %+v", r.AirQuality)
	}
	if r.Display.Location != "London, GB" {
		t.Fatalf("unexpected display %+v", r.Display)
	}
}

func TestReportWeatherFailure(t *testing.T) {
	p := &fakeProvider{weatherErr: ErrNotFound}

	_, err := NewService(p, 0).Report(context.Background(), ByCity("Atlantis"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(p.airCalls) != 0 {
		t.Fatal("air quality must not be fetched after a weather failure")
	}
}

func TestCurrentByCoords(t *testing.T) {
	p := &fakeProvider{}
	c := Coordinates{Lat: 1, Lon: 2}
	if _, err := NewService(p, 0).Current(context.Background(), ByCoords(c)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.byCoords) != 1 || p.byCoords[0] != c || len(p.byName) != 0 {
		t.Fatalf("expected a coordinate lookup, got names=%v coords=%v", p.byName, p.byCoords)
	}
}

func TestCurrentEmptyCity(t *testing.T) {
	p := &fakeProvider{}
	if _, err := NewService(p, 0).Current(context.Background(), ByCity("   ")); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if len(p.byName) != 0 {
		t.Fatal("no provider call expected for an empty city")
	}
}

func TestSearchUsesLimit(t *testing.T) {
	p := &fakeProvider{suggestions: []Suggestion{{Name: "Paris", Country: "FR"}}}
	got, err := NewService(p, 0).Search(context.Background(), " Par ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || p.lastLimit != 8 {
		t.Fatalf("unexpected result %v limit %d", got, p.lastLimit)
	}
}
