//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geotz/internal/adapters/postgres"
	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/pkg/config"
)

// setupTestDB connects to the database configured for tests and applies migrations.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	cfg, err := config.Load("geotz-test")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgres.Migrate(ctx, db))
	_, err = db.Pool.Exec(ctx, `TRUNCATE place_searches`)
	require.NoError(t, err)
	return db
}

func TestSearchRepo_InsertAndRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewSearchRepo(db)
	ctx := context.Background()

	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"Paris", "Tokyo", "Lima"} {
		s := &domain.PlaceSearch{
			Query:       q,
			PlaceID:     int64(i + 1),
			DisplayName: q,
			TimeZone:    "Etc/UTC",
			Location:    domain.Coordinate{Lat: float64(i), Lon: float64(-i)},
			SearchedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Insert(ctx, s))
		assert.NotZero(t, s.ID)
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := repo.Recent(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Lima", page[0].Query)
	assert.Equal(t, "Tokyo", page[1].Query)
	assert.Equal(t, -2.0, page[0].Location.Lon)

	page, err = repo.Recent(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Paris", page[0].Query)
}
