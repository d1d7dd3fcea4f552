package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/core/usecases"
)

// RecentSearchesResponse is one page of the search log.
type RecentSearchesResponse struct {
	Data       []domain.PlaceSearch `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// Pagination is the offset window a page was cut from.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

func newRecentSearchesResponse(page *usecases.HistoryPage) RecentSearchesResponse {
	return RecentSearchesResponse{
		Data:       page.Items,
		Pagination: Pagination{Offset: page.Offset, Limit: page.Limit, Total: page.Total},
	}
}

// pageLinks builds an RFC 8288 Link value for the window. Other query
// parameters on the request are carried into every link.
func pageLinks(path string, query url.Values, p Pagination) string {
	link := func(offset int, rel string) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(p.Limit))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, path, q.Encode(), rel)
	}

	last := 0
	if p.Limit > 0 && p.Total > 0 {
		last = (p.Total - 1) / p.Limit * p.Limit
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(last, "last"))
	return strings.Join(links, ", ")
}

func setPageLinks(c *fiber.Ctx, p Pagination) {
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		query.Add(string(k), string(v))
	})
	c.Set("Link", pageLinks(c.Path(), query, p))
}
