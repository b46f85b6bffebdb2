package handlers

import (
	"wishnest/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ItemHandler handles HTTP requests for wishlist items and reservations.
type ItemHandler struct {
	service *services.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers the item routes under the wishlist group.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	itemRoutes := router.Group("/wishlist")
	itemRoutes.Post("/items", h.HandleCreate)
	itemRoutes.Get("/items", h.HandleListMine)
	itemRoutes.Get("/users/:userId/items", h.HandleListForUser)
	itemRoutes.Patch("/items/:itemId", h.HandleUpdate)
	itemRoutes.Delete("/items/:itemId", h.HandleDelete)
	itemRoutes.Post("/items/:itemId/reserve", h.HandleReserve)
	itemRoutes.Post("/items/:itemId/unreserve", h.HandleUnreserve)
}

// HandleCreate adds an item to the caller's wishlist.
func (h *ItemHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CreateItemInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing item create body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	item, err := h.service.Create(currentUserID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

// HandleListMine lists the caller's own items. Reservation state is always
// concealed here so the surprise survives.
func (h *ItemHandler) HandleListMine(c *fiber.Ctx) error {
	items, err := h.service.ListMine(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// HandleListForUser lists another user's items for the owner or an accepted
// friend; friends see reservation state.
func (h *ItemHandler) HandleListForUser(c *fiber.Ctx) error {
	items, err := h.service.ListForViewer(currentUserID(c), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// HandleUpdate updates an item in the caller's wishlist.
func (h *ItemHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateItemInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing item update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	item, err := h.service.Update(currentUserID(c), c.Params("itemId"), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item": item})
}

// HandleDelete deletes an item from the caller's wishlist.
func (h *ItemHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(currentUserID(c), c.Params("itemId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

// HandleReserve claims an item's reservation slot for the caller.
func (h *ItemHandler) HandleReserve(c *fiber.Ctx) error {
	item, err := h.service.Reserve(currentUserID(c), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item": item})
}

// HandleUnreserve releases an item's reservation slot.
func (h *ItemHandler) HandleUnreserve(c *fiber.Ctx) error {
	item, err := h.service.Unreserve(currentUserID(c), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item": item})
}
