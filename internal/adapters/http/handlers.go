package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geotz/internal/core/usecases"
)

// TimezoneResponse is the body of GET /tz.
type TimezoneResponse struct {
	Timezone string `json:"timezone"`
}

// RootHandler answers the plain-text liveness probe at /.
func RootHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString("geotz OK")
	}
}

// TimezoneHandler resolves ?lat=&lon= to an IANA timezone.
func TimezoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tz, err := deps.Timezones.Resolve(c.Query("lat"), c.Query("lon"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(TimezoneResponse{Timezone: tz})
	}
}

// SearchHandler geocodes ?place= and returns the place with its current local time.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := deps.Places.ResolvePlace(c.UserContext(), c.Query("place"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// RecentSearchesHandler returns the search log, newest first.
func RecentSearchesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := deps.Searches.Recent(c.UserContext(), c.QueryInt("offset", 0), c.QueryInt("limit", 20))
		if errors.Is(err, usecases.ErrSearchLogDisabled) {
			return errUnavailable(c, err.Error())
		}
		if err != nil {
			return errInternal(c, "could not read search log")
		}

		res := newRecentSearchesResponse(page)
		setPageLinks(c, res.Pagination)
		return c.JSON(res)
	}
}

// ZonesHandler lists the zones the active index can report.
func ZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones := deps.Index.Zones()
		if zones == nil {
			return errNotFound(c, "backend "+deps.Index.Backend()+" cannot enumerate its zones")
		}
		return c.JSON(fiber.Map{"backend": deps.Index.Backend(), "zones": zones})
	}
}
