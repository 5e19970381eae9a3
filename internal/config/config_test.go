package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultCity != "Panipat" {
		t.Errorf("unexpected default city %q", cfg.DefaultCity)
	}
	if cfg.SearchDebounce != 300*time.Millisecond || cfg.SearchMinChars != 2 || cfg.SearchLimit != 8 {
		t.Errorf("unexpected search config %+v", cfg)
	}
	if cfg.ProviderMaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.ProviderMaxRetries)
	}
	if cfg.RefreshInterval != 0 {
		t.Errorf("expected refresh disabled, got %s", cfg.RefreshInterval)
	}
	if cfg.Port != "8080" {
		t.Errorf("unexpected port %q", cfg.Port)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "k")
	t.Setenv("SEARCH_DEBOUNCE", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SEARCH_DEBOUNCE")
	}
}
