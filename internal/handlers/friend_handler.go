package handlers

import (
	"wishnest/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FriendHandler handles HTTP requests for the friendship graph.
type FriendHandler struct {
	service *services.FriendService
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{service: service}
}

// RegisterRoutes registers the friend routes with the Fiber app. All of them
// require an authenticated caller.
func (h *FriendHandler) RegisterRoutes(router fiber.Router) {
	friendRoutes := router.Group("/friends")
	friendRoutes.Post("/request/:userId", h.HandleSendRequest)
	friendRoutes.Post("/accept/:requestId", h.HandleAccept)
	friendRoutes.Post("/reject/:requestId", h.HandleReject)
	friendRoutes.Delete("/remove/:userId", h.HandleRemove)
	friendRoutes.Get("/list", h.HandleListFriends)
	friendRoutes.Get("/requests", h.HandleListRequests)
}

// HandleSendRequest sends (or re-sends) a friend request to :userId.
func (h *FriendHandler) HandleSendRequest(c *fiber.Ctx) error {
	request, err := h.service.SendRequest(currentUserID(c), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Friend request sent",
		"request": request,
	})
}

// HandleAccept accepts a pending friend request.
func (h *FriendHandler) HandleAccept(c *fiber.Ctx) error {
	friendship, err := h.service.Accept(currentUserID(c), c.Params("requestId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Friend request accepted",
		"friendship": friendship,
	})
}

// HandleReject rejects a pending friend request.
func (h *FriendHandler) HandleReject(c *fiber.Ctx) error {
	request, err := h.service.Reject(currentUserID(c), c.Params("requestId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Friend request rejected",
		"request": request,
	})
}

// HandleRemove removes the relationship with :userId, whatever its status.
func (h *FriendHandler) HandleRemove(c *fiber.Ctx) error {
	if err := h.service.Remove(currentUserID(c), c.Params("userId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Relationship removed"})
}

// HandleListFriends lists the caller's accepted friends.
func (h *FriendHandler) HandleListFriends(c *fiber.Ctx) error {
	friends, err := h.service.ListFriends(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"friends": friends})
}

// HandleListRequests lists pending requests split into incoming/outgoing.
func (h *FriendHandler) HandleListRequests(c *fiber.Ctx) error {
	view, err := h.service.ListRequests(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}
