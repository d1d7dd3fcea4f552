package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Coordinate field names as they appear in query parameters.
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lon"
)

// Reasons a coordinate field is rejected.
const (
	ReasonMissing    = "missing"
	ReasonNotANumber = "not a number"
	ReasonOutOfRange = "out of range"
)

// MaxQueryLength caps free-text place queries (in runes).
const MaxQueryLength = 200

var (
	ErrEmptyQuery   = errors.New("place query must not be empty")
	ErrQueryTooLong = fmt.Errorf("place query too long (max %d characters)", MaxQueryLength)
)

// FieldError describes one rejected coordinate field.
type FieldError struct {
	Field  string `json:"field"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func (f FieldError) String() string {
	if f.Reason == ReasonMissing {
		return f.Field + ": missing"
	}
	return fmt.Sprintf("%s: %s (%q)", f.Field, f.Reason, f.Raw)
}

// ParseError is returned when raw coordinate input is malformed.
type ParseError struct {
	Fields []FieldError
}

func (e *ParseError) add(field, raw, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Raw: raw, Reason: reason})
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid coordinate: " + strings.Join(parts, "; ")
}

// Field reports the error recorded for the named field, if any.
func (e *ParseError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// ResolutionError wraps the parse failure that stopped a timezone resolution.
type ResolutionError struct {
	Err *ParseError
}

func (e *ResolutionError) Error() string { return "resolve timezone: " + e.Err.Error() }
func (e *ResolutionError) Unwrap() error { return e.Err }

// PlaceErrorKind classifies place resolution failures.
type PlaceErrorKind int

const (
	PlaceInvalidQuery PlaceErrorKind = iota + 1
	PlaceNotFound
	PlaceUpstreamFailure
	PlaceInvalidUpstreamData
)

func (k PlaceErrorKind) String() string {
	switch k {
	case PlaceInvalidQuery:
		return "invalid_query"
	case PlaceNotFound:
		return "not_found"
	case PlaceUpstreamFailure:
		return "upstream_error"
	case PlaceInvalidUpstreamData:
		return "upstream_invalid_data"
	default:
		return "unknown"
	}
}

// PlaceError is returned by place resolution.
type PlaceError struct {
	Kind  PlaceErrorKind
	Query string
	Err   error
}

func (e *PlaceError) Error() string {
	switch e.Kind {
	case PlaceInvalidQuery:
		return e.Err.Error()
	case PlaceNotFound:
		return fmt.Sprintf("no place found for %q", e.Query)
	case PlaceInvalidUpstreamData:
		return fmt.Sprintf("geocoder returned unusable data for %q: %v", e.Query, e.Err)
	default:
		return fmt.Sprintf("geocoding %q failed: %v", e.Query, e.Err)
	}
}

func (e *PlaceError) Unwrap() error { return e.Err }

// IsPlaceError reports whether err is a *PlaceError of the given kind.
func IsPlaceError(err error, kind PlaceErrorKind) bool {
	var perr *PlaceError
	return errors.As(err, &perr) && perr.Kind == kind
}

// IntegrityError means the index produced a timezone the tz database cannot load.
// It is a defect in this system, never the caller's fault.
type IntegrityError struct {
	TimezoneID string
	Err        error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("timezone %q is not loadable: %v", e.TimezoneID, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
