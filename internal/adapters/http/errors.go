package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int                 `json:"status"`
	Code      string              `json:"code"`  // bad_request, not_found, upstream_error, internal_error, etc.
	Message   string              `json:"error"` // Human-readable message
	Fields    []domain.FieldError `json:"fields,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return writeError(c, APIError{Status: status, Code: code, Message: message})
}

func writeError(c *fiber.Ctx, e APIError) error {
	e.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(e.Status).JSON(e)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// respondError maps domain errors to HTTP responses.
// IntegrityError and PlaceError are matched before ParseError: an
// upstream_invalid_data PlaceError wraps the ParseError of the bad coordinate.
func respondError(c *fiber.Ctx, err error) error {
	log := logging.FromContext(c.UserContext())

	var (
		ierr  *domain.IntegrityError
		plerr *domain.PlaceError
		perr  *domain.ParseError
	)
	switch {
	case errors.As(err, &ierr):
		log.Error("timezone integrity defect", "time_zone", ierr.TimezoneID, "error", ierr.Err)
		return errInternal(c, "internal error")

	case errors.As(err, &plerr):
		switch plerr.Kind {
		case domain.PlaceInvalidQuery:
			return errBadRequest(c, plerr.Error())
		case domain.PlaceNotFound:
			return errNotFound(c, plerr.Error())
		case domain.PlaceInvalidUpstreamData:
			log.Warn("geocoder returned invalid coordinates", "query", plerr.Query, "error", plerr.Err)
			return newError(c, fiber.StatusBadGateway, plerr.Kind.String(), plerr.Error())
		default:
			log.Warn("geocoder failed", "query", plerr.Query, "error", plerr.Err)
			return newError(c, fiber.StatusBadGateway, domain.PlaceUpstreamFailure.String(), plerr.Error())
		}

	case errors.As(err, &perr):
		return writeError(c, APIError{
			Status:  fiber.StatusBadRequest,
			Code:    "bad_request",
			Message: perr.Error(),
			Fields:  perr.Fields,
		})
	}

	log.Error("unhandled error", "error", err)
	return errInternal(c, "internal error")
}
