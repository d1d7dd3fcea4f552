package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/core/ports"
	"github.com/samirrijal/geotz/internal/pkg/logging"
	"github.com/samirrijal/geotz/internal/pkg/metrics"
	"github.com/samirrijal/geotz/internal/pkg/telemetry"
)

// DefaultGeocodeTimeout bounds a single geocoding call when no timeout is configured.
const DefaultGeocodeTimeout = 5 * time.Second

// PlaceService chains geocoding, timezone resolution and the current local time.
type PlaceService struct {
	geocoder  ports.Geocoder
	timezones *TimezoneService
	cache     ports.CacheService
	cacheTTL  int
	searches  ports.SearchLogRepository
	events    ports.EventPublisher
	timeout   time.Duration
	now       func() time.Time
	flights   singleflight.Group
}

// PlaceOption configures a PlaceService.
type PlaceOption func(*PlaceService)

// WithCache caches geocoder results for ttlSeconds. Times are never cached.
func WithCache(c ports.CacheService, ttlSeconds int) PlaceOption {
	return func(s *PlaceService) {
		s.cache = c
		s.cacheTTL = ttlSeconds
	}
}

// WithSearchLog records every successful resolution.
func WithSearchLog(r ports.SearchLogRepository) PlaceOption {
	return func(s *PlaceService) { s.searches = r }
}

// WithEvents publishes every successful resolution.
func WithEvents(p ports.EventPublisher) PlaceOption {
	return func(s *PlaceService) { s.events = p }
}

// WithTimeout overrides DefaultGeocodeTimeout.
func WithTimeout(d time.Duration) PlaceOption {
	return func(s *PlaceService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) PlaceOption {
	return func(s *PlaceService) { s.now = now }
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(geocoder ports.Geocoder, timezones *TimezoneService, opts ...PlaceOption) *PlaceService {
	s := &PlaceService{
		geocoder:  geocoder,
		timezones: timezones,
		timeout:   DefaultGeocodeTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolvePlace geocodes query, resolves the timezone of the best match and
// returns the current local time there. Errors are *domain.PlaceError or,
// for an unloadable zone, *domain.IntegrityError.
func (s *PlaceService) ResolvePlace(ctx context.Context, query string) (*domain.PlaceAndTime, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanResolvePlace)
	defer span.End()

	res, err := s.resolve(ctx, query)
	if err != nil {
		outcome := "integrity"
		var perr *domain.PlaceError
		if errors.As(err, &perr) {
			outcome = perr.Kind.String()
		}
		metrics.PlaceSearches.WithLabelValues(outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.PlaceSearches.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.String(telemetry.AttrTimezone, res.TimeZone))
	return res, nil
}

func (s *PlaceService) resolve(ctx context.Context, query string) (*domain.PlaceAndTime, error) {
	q := strings.TrimSpace(query)
	switch {
	case q == "":
		return nil, &domain.PlaceError{Kind: domain.PlaceInvalidQuery, Query: query, Err: domain.ErrEmptyQuery}
	case utf8.RuneCountInString(q) > domain.MaxQueryLength:
		return nil, &domain.PlaceError{Kind: domain.PlaceInvalidQuery, Query: query, Err: domain.ErrQueryTooLong}
	}

	place, err := s.geocode(ctx, q)
	if err != nil {
		return nil, err
	}

	tz, err := s.timezones.Resolve(place.Lat, place.Lon)
	if err != nil {
		return nil, &domain.PlaceError{Kind: domain.PlaceInvalidUpstreamData, Query: q, Err: err}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &domain.IntegrityError{TimezoneID: tz, Err: err}
	}

	res := &domain.PlaceAndTime{
		Place:    place,
		TimeNow:  s.now().In(loc),
		TimeZone: tz,
	}
	s.record(ctx, q, res)
	return res, nil
}

// geocode returns the authoritative (first) match for q. Concurrent calls for the
// same normalized query share one upstream request; each caller still stops
// waiting when its own ctx ends.
func (s *PlaceService) geocode(ctx context.Context, q string) (domain.Place, error) {
	key := cacheKey(q)

	if place, ok := s.cached(ctx, key); ok {
		return place, nil
	}

	ch := s.flights.DoChan(key, func() (any, error) {
		gctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		places, err := s.geocoder.Search(gctx, q)
		if err != nil {
			return nil, &domain.PlaceError{Kind: domain.PlaceUpstreamFailure, Query: q, Err: err}
		}
		if len(places) == 0 {
			return nil, &domain.PlaceError{Kind: domain.PlaceNotFound, Query: q}
		}
		s.store(ctx, key, places[0])
		return places[0], nil
	})

	select {
	case <-ctx.Done():
		return domain.Place{}, &domain.PlaceError{Kind: domain.PlaceUpstreamFailure, Query: q, Err: ctx.Err()}
	case r := <-ch:
		if r.Err != nil {
			return domain.Place{}, r.Err
		}
		return r.Val.(domain.Place), nil
	}
}

func (s *PlaceService) cached(ctx context.Context, key string) (domain.Place, bool) {
	if s.cache == nil {
		return domain.Place{}, false
	}

	_, span := telemetry.Tracer().Start(ctx, telemetry.SpanCacheLookup)
	defer span.End()

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
		span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, false))
		return domain.Place{}, false
	}
	var place domain.Place
	if err := json.Unmarshal(data, &place); err != nil {
		logging.FromContext(ctx).Warn("discarding undecodable geocode cache entry", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
		return domain.Place{}, false
	}
	metrics.CacheHits.WithLabelValues("geocode").Inc()
	span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
	return place, true
}

func (s *PlaceService) store(ctx context.Context, key string, place domain.Place) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(place)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		logging.FromContext(ctx).Warn("geocode cache write failed", "key", key, "error", err)
	}
}

// record writes the search log and event. Both are best-effort.
func (s *PlaceService) record(ctx context.Context, q string, res *domain.PlaceAndTime) {
	if s.searches == nil && s.events == nil {
		return
	}

	// Already validated by Resolve.
	loc, _ := domain.ParseCoordinate(res.Place.Lat, res.Place.Lon)
	search := &domain.PlaceSearch{
		Query:       q,
		PlaceID:     res.Place.PlaceID,
		DisplayName: res.Place.DisplayName,
		TimeZone:    res.TimeZone,
		Location:    loc,
		SearchedAt:  res.TimeNow.UTC(),
	}

	log := logging.FromContext(ctx)
	if s.searches != nil {
		if err := s.searches.Insert(ctx, search); err != nil {
			log.Warn("search log insert failed", "query", q, "error", err)
		}
	}
	if s.events != nil {
		if err := s.events.PublishPlaceResolved(ctx, search); err != nil {
			log.Warn("publish place.resolved failed", "query", q, "error", err)
		}
	}
}

// cacheKey normalizes q so that case and spacing variants share an entry.
func cacheKey(q string) string {
	return "geocode:v2:" + strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
