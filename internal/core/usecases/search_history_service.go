package usecases

import (
	"context"
	"errors"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/core/ports"
)

// ErrSearchLogDisabled is returned when no search log backend is configured.
var ErrSearchLogDisabled = errors.New("search log is not enabled")

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SearchHistoryService serves the log of recent place searches.
type SearchHistoryService struct {
	searches ports.SearchLogRepository
}

// NewSearchHistoryService creates a new SearchHistoryService. searches may be nil.
func NewSearchHistoryService(searches ports.SearchLogRepository) *SearchHistoryService {
	return &SearchHistoryService{searches: searches}
}

// Enabled reports whether a search log backend is configured.
func (s *SearchHistoryService) Enabled() bool { return s.searches != nil }

// HistoryPage is one page of the search log.
type HistoryPage struct {
	Items  []domain.PlaceSearch
	Offset int
	Limit  int
	Total  int
}

// Recent returns one page of searches, newest first.
func (s *SearchHistoryService) Recent(ctx context.Context, offset, limit int) (*HistoryPage, error) {
	if s.searches == nil {
		return nil, ErrSearchLogDisabled
	}
	if offset < 0 {
		offset = 0
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	total, err := s.searches.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := &HistoryPage{Items: []domain.PlaceSearch{}, Offset: offset, Limit: limit, Total: total}
	if offset >= total {
		return page, nil
	}

	items, err := s.searches.Recent(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if items != nil {
		page.Items = items
	}
	return page, nil
}
