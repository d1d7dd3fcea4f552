package usecases_test

import (
	"context"
	"errors"
	"sync"
	_ "time/tzdata"

	"github.com/samirrijal/geotz/internal/core/domain"
)

// --- Mock TimezoneIndex ---

type mockIndex struct {
	lookupFn func(c domain.Coordinate) string
}

func (m *mockIndex) Lookup(c domain.Coordinate) string {
	if m.lookupFn != nil {
		return m.lookupFn(c)
	}
	return "Etc/UTC"
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	searchFn func(ctx context.Context, query string) ([]domain.Place, error)

	mu    sync.Mutex
	calls int
}

func (m *mockGeocoder) Search(ctx context.Context, query string) ([]domain.Place, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockGeocoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock SearchLogRepository ---

type mockSearchLog struct {
	insertFn func(ctx context.Context, s *domain.PlaceSearch) error
	recentFn func(ctx context.Context, offset, limit int) ([]domain.PlaceSearch, error)
	countFn  func(ctx context.Context) (int, error)
}

func (m *mockSearchLog) Insert(ctx context.Context, s *domain.PlaceSearch) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, s)
	}
	return nil
}

func (m *mockSearchLog) Recent(ctx context.Context, offset, limit int) ([]domain.PlaceSearch, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockSearchLog) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	publishFn func(ctx context.Context, s *domain.PlaceSearch) error
}

func (m *mockPublisher) PublishPlaceResolved(ctx context.Context, s *domain.PlaceSearch) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, s)
	}
	return nil
}
