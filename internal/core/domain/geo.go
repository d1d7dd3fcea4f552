package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Valid WGS 84 ranges.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinate is a validated geographic position (WGS 84).
// Build it with ParseCoordinate or NewCoordinate, never by hand from user input.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// ParseCoordinate converts raw textual latitude and longitude into a Coordinate.
// Both fields are checked; every invalid field is reported in the returned *ParseError.
func ParseCoordinate(latRaw, lonRaw string) (Coordinate, error) {
	var perr ParseError
	lat := parseAxis(&perr, FieldLatitude, latRaw, MinLatitude, MaxLatitude)
	lon := parseAxis(&perr, FieldLongitude, lonRaw, MinLongitude, MaxLongitude)
	if len(perr.Fields) > 0 {
		return Coordinate{}, &perr
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// NewCoordinate range-checks already numeric values.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	return ParseCoordinate(
		strconv.FormatFloat(lat, 'g', -1, 64),
		strconv.FormatFloat(lon, 'g', -1, 64),
	)
}

func parseAxis(perr *ParseError, field, raw string, lo, hi float64) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		perr.add(field, raw, ReasonMissing)
		return 0
	}

	// ParseFloat also takes Go literal forms (hex floats, digit separators).
	if strings.ContainsAny(s, "xXpP_") {
		perr.add(field, raw, ReasonNotANumber)
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		perr.add(field, raw, ReasonOutOfRange)
		return 0
	case err != nil, math.IsNaN(v), math.IsInf(v, 0):
		perr.add(field, raw, ReasonNotANumber)
		return 0
	case v < lo || v > hi:
		perr.add(field, raw, ReasonOutOfRange)
		return 0
	}
	return v
}
