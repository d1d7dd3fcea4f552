package ports

import (
	"context"

	"github.com/samirrijal/geotz/internal/core/domain"
)

// TimezoneIndex maps a validated coordinate to an IANA timezone identifier.
// Implementations are immutable after construction and safe for concurrent use.
// Lookup never fails; uncovered points get a documented fallback zone.
type TimezoneIndex interface {
	Lookup(c domain.Coordinate) string
}

// Geocoder resolves free text to places, best match first.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]domain.Place, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPlaceResolved(ctx context.Context, search *domain.PlaceSearch) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
