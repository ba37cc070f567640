package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/httpx"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// unclassified is logged and returned as an opaque 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNotCancellable),
		errors.Is(err, domain.ErrBadSignature):
		return httpx.BadRequest(c, err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		return httpx.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return httpx.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyPaid):
		return httpx.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		return httpx.BadGateway(c, "Payment provider error")
	default:
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return httpx.InternalServerError(c)
	}
}
