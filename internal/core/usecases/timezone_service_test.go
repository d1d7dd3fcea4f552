package usecases_test

import (
	"errors"
	"testing"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/core/usecases"
)

func TestTimezoneService_Resolve(t *testing.T) {
	var got domain.Coordinate
	idx := &mockIndex{lookupFn: func(c domain.Coordinate) string {
		got = c
		return "Europe/Paris"
	}}
	svc := usecases.NewTimezoneService(idx)

	tz, err := svc.Resolve(" 48.8566 ", "2.3522")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tz != "Europe/Paris" {
		t.Errorf("expected Europe/Paris, got %s", tz)
	}
	if got.Lat != 48.8566 || got.Lon != 2.3522 {
		t.Errorf("index received %+v", got)
	}
}

func TestTimezoneService_Resolve_InvalidInput(t *testing.T) {
	called := false
	idx := &mockIndex{lookupFn: func(c domain.Coordinate) string {
		called = true
		return "Etc/UTC"
	}}
	svc := usecases.NewTimezoneService(idx)

	_, err := svc.Resolve("abc", "200")
	if err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("index must not be consulted for invalid input")
	}

	var rerr *domain.ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ResolutionError, got %T", err)
	}
	if len(rerr.Err.Fields) != 2 {
		t.Fatalf("expected both fields reported, got %+v", rerr.Err.Fields)
	}
	if f, _ := rerr.Err.Field(domain.FieldLatitude); f.Reason != domain.ReasonNotANumber {
		t.Errorf("lat: expected %q, got %q", domain.ReasonNotANumber, f.Reason)
	}
	if f, _ := rerr.Err.Field(domain.FieldLongitude); f.Reason != domain.ReasonOutOfRange {
		t.Errorf("lon: expected %q, got %q", domain.ReasonOutOfRange, f.Reason)
	}

	var perr *domain.ParseError
	if !errors.As(err, &perr) {
		t.Error("ResolutionError should unwrap to ParseError")
	}
}

func TestTimezoneService_Resolve_Deterministic(t *testing.T) {
	svc := usecases.NewTimezoneService(&mockIndex{lookupFn: func(c domain.Coordinate) string {
		if c.Lon < 0 {
			return "America/New_York"
		}
		return "Europe/Berlin"
	}})

	first, _ := svc.Resolve("40.7", "-74.0")
	for i := 0; i < 10; i++ {
		tz, err := svc.Resolve("40.7", "-74.0")
		if err != nil || tz != first {
			t.Fatalf("run %d: got %q, %v; want %q", i, tz, err, first)
		}
	}
}
