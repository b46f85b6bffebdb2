package handlers

import (
	"wishnest/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// statusFromKind is the single place an error kind becomes an HTTP status.
func statusFromKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.Invalid:
		return fiber.StatusBadRequest
	case apperrors.NotFound:
		return fiber.StatusNotFound
	case apperrors.Forbidden:
		return fiber.StatusForbidden
	case apperrors.Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps a service error onto the transport. Unexpected errors
// are logged with their internals and answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	if kind == apperrors.Unexpected {
		log.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(statusFromKind(kind)).JSON(fiber.Map{
		"error": apperrors.MessageOf(err),
	})
}

// currentUserID returns the authenticated user's ID set by the JWT middleware.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
