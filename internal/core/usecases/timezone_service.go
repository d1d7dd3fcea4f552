package usecases

import (
	"errors"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/core/ports"
	"github.com/samirrijal/geotz/internal/pkg/metrics"
)

// TimezoneService resolves raw coordinates to IANA timezone identifiers.
type TimezoneService struct {
	index ports.TimezoneIndex
}

// NewTimezoneService creates a new TimezoneService.
func NewTimezoneService(index ports.TimezoneIndex) *TimezoneService {
	return &TimezoneService{index: index}
}

// Resolve validates latRaw/lonRaw and returns the timezone at that point.
// Invalid input yields a *domain.ResolutionError carrying every bad field.
func (s *TimezoneService) Resolve(latRaw, lonRaw string) (string, error) {
	c, err := domain.ParseCoordinate(latRaw, lonRaw)
	if err != nil {
		metrics.TimezoneLookups.WithLabelValues("invalid").Inc()
		var perr *domain.ParseError
		if errors.As(err, &perr) {
			return "", &domain.ResolutionError{Err: perr}
		}
		return "", err
	}
	return s.ResolveCoordinate(c), nil
}

// ResolveCoordinate looks up an already validated coordinate. It never fails.
func (s *TimezoneService) ResolveCoordinate(c domain.Coordinate) string {
	metrics.TimezoneLookups.WithLabelValues("ok").Inc()
	return s.index.Lookup(c)
}
