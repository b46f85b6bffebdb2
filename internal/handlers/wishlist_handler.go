package handlers

import (
	"wishnest/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// WishlistHandler handles HTTP requests for the caller's wishlist and the
// friend-facing metadata read.
type WishlistHandler struct {
	service *services.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// RegisterRoutes registers the wishlist routes with the Fiber app.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleGetOrCreate)
	wishlistRoutes.Patch("/", h.HandleUpdate)
	wishlistRoutes.Delete("/", h.HandleDelete)
	wishlistRoutes.Get("/users/:userId/meta", h.HandleGetMeta)
}

// HandleGetOrCreate returns the caller's wishlist, creating the default one
// on first access.
func (h *WishlistHandler) HandleGetOrCreate(c *fiber.Ctx) error {
	wishlist, err := h.service.GetOrCreate(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"wishlist": wishlist})
}

// HandleUpdate updates the caller's wishlist, creating it if absent.
func (h *WishlistHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateWishlistInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing wishlist update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	wishlist, err := h.service.Update(currentUserID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"wishlist": wishlist})
}

// HandleDelete deletes the caller's wishlist together with its items.
func (h *WishlistHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Wishlist deleted"})
}

// HandleGetMeta returns the title/description of another user's wishlist for
// the owner or an accepted friend.
func (h *WishlistHandler) HandleGetMeta(c *fiber.Ctx) error {
	meta, err := h.service.GetMeta(currentUserID(c), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"wishlist": meta})
}
