package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/samirrijal/geotz/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("geotz-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected 0.0.0.0:8080, got %s", cfg.Server.Addr())
	}
	if cfg.Index.Backend != "tzf" {
		t.Errorf("expected tzf backend, got %s", cfg.Index.Backend)
	}
	if cfg.Geocoder.Timeout() != 5*time.Second {
		t.Errorf("expected 5s geocoder timeout, got %s", cfg.Geocoder.Timeout())
	}
	if cfg.Telemetry.ServiceName != "geotz-test" {
		t.Errorf("expected service name geotz-test, got %s", cfg.Telemetry.ServiceName)
	}
	if cfg.Cache.Enabled || cfg.Database.Enabled || cfg.NATS.Enabled {
		t.Error("optional backends should be disabled by default")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEOTZ_SERVER_PORT", "9090")
	t.Setenv("GEOTZ_GEOCODER_ENDPOINT", "http://localhost:7070/search")

	cfg, err := config.Load("geotz-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Geocoder.Endpoint != "http://localhost:7070/search" {
		t.Errorf("unexpected endpoint %s", cfg.Geocoder.Endpoint)
	}
}

func TestLoadWithFlags_FlagWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEOTZ_INDEX_BACKEND", "tzf")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("index.backend", "", "")
	if err := fs.Parse([]string{"--index.backend=latlong"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadWithFlags("geotz-test", fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Index.Backend != "latlong" {
		t.Errorf("expected flag to win, got %s", cfg.Index.Backend)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := config.Config{
		Server:   config.ServerConfig{Port: 0, ReadTimeout: 1, WriteTimeout: 1, RequestTimeout: 1},
		Index:    config.IndexConfig{Backend: "geojson"},
		Geocoder: config.GeocoderConfig{Endpoint: "not a url", TimeoutMS: 100},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "index.path", "geocoder.endpoint", "geocoder.user_agent"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got %v", want, err)
		}
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := config.Config{
		Server:   config.ServerConfig{Port: 8080, ReadTimeout: 1, WriteTimeout: 1, RequestTimeout: 1},
		Index:    config.IndexConfig{Backend: "shapefile"},
		Geocoder: config.GeocoderConfig{Endpoint: "https://example.org/search", UserAgent: "x", TimeoutMS: 100},
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "index.backend") {
		t.Errorf("expected index.backend error, got %v", err)
	}
}
