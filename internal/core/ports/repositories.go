package ports

import (
	"context"

	"github.com/samirrijal/geotz/internal/core/domain"
)

// SearchLogRepository persists successful place searches.
type SearchLogRepository interface {
	Insert(ctx context.Context, search *domain.PlaceSearch) error
	Recent(ctx context.Context, offset, limit int) ([]domain.PlaceSearch, error)
	Count(ctx context.Context) (int, error)
}
