package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geotz/internal/core/domain"
)

// SearchRepo implements ports.SearchLogRepository with pgx.
type SearchRepo struct {
	db *DB
}

// NewSearchRepo creates a new SearchRepo.
func NewSearchRepo(db *DB) *SearchRepo {
	return &SearchRepo{db: db}
}

// Insert stores s and fills in its ID.
func (r *SearchRepo) Insert(ctx context.Context, s *domain.PlaceSearch) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO place_searches (query, place_id, display_name, time_zone, lat, lon, searched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, s.Query, s.PlaceID, s.DisplayName, s.TimeZone, s.Location.Lat, s.Location.Lon, s.SearchedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert place search: %w", err)
	}
	return nil
}

// Recent returns searches newest first.
func (r *SearchRepo) Recent(ctx context.Context, offset, limit int) ([]domain.PlaceSearch, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, query, place_id, display_name, time_zone, lat, lon, searched_at
		FROM place_searches
		ORDER BY searched_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent searches: %w", err)
	}

	searches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PlaceSearch, error) {
		var s domain.PlaceSearch
		err := row.Scan(&s.ID, &s.Query, &s.PlaceID, &s.DisplayName, &s.TimeZone,
			&s.Location.Lat, &s.Location.Lon, &s.SearchedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan recent searches: %w", err)
	}
	return searches, nil
}

// Count returns the number of logged searches.
func (r *SearchRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM place_searches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count searches: %w", err)
	}
	return n, nil
}
