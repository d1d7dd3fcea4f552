package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/geotz/internal/core/domain"
)

func TestParseCoordinate_Valid(t *testing.T) {
	cases := []struct {
		lat, lon         string
		wantLat, wantLon float64
	}{
		{"48.8566", "2.3522", 48.8566, 2.3522},
		{" -33.9 ", "\t151.2\n", -33.9, 151.2},
		{"90", "180", 90, 180},
		{"-90", "-180", -90, -180},
		{"0", "-0", 0, 0},
		{"1e1", "+2.5", 10, 2.5},
	}
	for _, tc := range cases {
		c, err := domain.ParseCoordinate(tc.lat, tc.lon)
		if err != nil {
			t.Errorf("(%q, %q): unexpected error %v", tc.lat, tc.lon, err)
			continue
		}
		if c.Lat != tc.wantLat || c.Lon != tc.wantLon {
			t.Errorf("(%q, %q): got %+v", tc.lat, tc.lon, c)
		}
	}
}

func TestParseCoordinate_Invalid(t *testing.T) {
	cases := []struct {
		lat, lon   string
		wantFields map[string]string
	}{
		{"", "", map[string]string{"lat": domain.ReasonMissing, "lon": domain.ReasonMissing}},
		{"  ", "2", map[string]string{"lat": domain.ReasonMissing}},
		{"abc", "2", map[string]string{"lat": domain.ReasonNotANumber}},
		{"1", "12,5", map[string]string{"lon": domain.ReasonNotANumber}},
		{"90.0001", "0", map[string]string{"lat": domain.ReasonOutOfRange}},
		{"0", "180.5", map[string]string{"lon": domain.ReasonOutOfRange}},
		{"NaN", "inf", map[string]string{"lat": domain.ReasonNotANumber, "lon": domain.ReasonNotANumber}},
		{"1e400", "0", map[string]string{"lat": domain.ReasonOutOfRange}},
		{"abc", "999", map[string]string{"lat": domain.ReasonNotANumber, "lon": domain.ReasonOutOfRange}},
		{"0x1p4", "0", map[string]string{"lat": domain.ReasonNotANumber}},
		{"1_0", "0", map[string]string{"lat": domain.ReasonNotANumber}},
		{"0", "0X10", map[string]string{"lon": domain.ReasonNotANumber}},
		{"1P2", "-1_5.5", map[string]string{"lat": domain.ReasonNotANumber, "lon": domain.ReasonNotANumber}},
	}
	for _, tc := range cases {
		_, err := domain.ParseCoordinate(tc.lat, tc.lon)
		var perr *domain.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("(%q, %q): expected ParseError, got %v", tc.lat, tc.lon, err)
			continue
		}
		if len(perr.Fields) != len(tc.wantFields) {
			t.Errorf("(%q, %q): expected %d fields, got %+v", tc.lat, tc.lon, len(tc.wantFields), perr.Fields)
			continue
		}
		for field, reason := range tc.wantFields {
			f, ok := perr.Field(field)
			if !ok || f.Reason != reason {
				t.Errorf("(%q, %q): %s: expected %q, got %+v", tc.lat, tc.lon, field, reason, f)
			}
		}
	}
}

func TestParseCoordinate_KeepsRawInput(t *testing.T) {
	_, err := domain.ParseCoordinate(" abc ", "")
	var perr *domain.ParseError
	if !errors.As(err, &perr) {
		t.Fatal("expected ParseError")
	}
	if f, _ := perr.Field(domain.FieldLatitude); f.Raw != " abc " {
		t.Errorf("expected raw input preserved, got %q", f.Raw)
	}
	msg := err.Error()
	if !strings.Contains(msg, `lat: not a number (" abc ")`) || !strings.Contains(msg, "lon: missing") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestNewCoordinate(t *testing.T) {
	if _, err := domain.NewCoordinate(45, 90); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := domain.NewCoordinate(-91, 0); err == nil {
		t.Error("expected range error")
	}
}

func TestPlaceErrorKinds(t *testing.T) {
	err := error(&domain.PlaceError{Kind: domain.PlaceNotFound, Query: "Xyzzy"})
	if !domain.IsPlaceError(err, domain.PlaceNotFound) {
		t.Error("expected not found kind")
	}
	if domain.IsPlaceError(err, domain.PlaceUpstreamFailure) {
		t.Error("kind mismatch should not match")
	}
	if domain.IsPlaceError(errors.New("plain"), domain.PlaceNotFound) {
		t.Error("plain errors are not place errors")
	}
	if got := domain.PlaceInvalidUpstreamData.String(); got != "upstream_invalid_data" {
		t.Errorf("unexpected kind string %q", got)
	}
}
