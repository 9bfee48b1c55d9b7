package handlers

import (
	"hotelparadise/internal/app"
	roomController "hotelparadise/internal/controllers/rooms"
	"hotelparadise/internal/handlers/middleware"
	. "hotelparadise/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RoomHandler struct {
	Handler
	roomController roomController.RoomControllerInterface
}

func NewRoomHandler(app app.App, router fiber.Router) *RoomHandler {
	return &RoomHandler{
		roomController: app.Controllers.Room,
		Handler:        newHandler(app, router, "room_handler"),
	}
}

func (h *RoomHandler) Register() {
	rooms := h.router.Group("/rooms", h.middleware.RequireRole(RoleAdmin, RoleHousekeeper))
	adminOnly := h.middleware.RequireRole(RoleAdmin)

	rooms.Get("/", h.list)
	rooms.Get("/status/:status", h.listByStatus)
	rooms.Get("/barcode/:code", h.getByBarcode)
	rooms.Get("/floor/:floor", adminOnly, h.listByFloor)
	rooms.Get("/:id", h.get)
	rooms.Post("/", adminOnly, h.create)
	rooms.Put("/:id", adminOnly, h.update)
	rooms.Delete("/:id", adminOnly, h.delete)
	rooms.Patch("/:id/status", h.updateStatus)
}

func (h *RoomHandler) list(c *fiber.Ctx) error {
	rooms, err := h.roomController.List(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to list rooms")
	}
	return c.JSON(rooms)
}

func (h *RoomHandler) get(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	room, err := h.roomController.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to get room")
	}
	return c.JSON(room)
}

func (h *RoomHandler) listByStatus(c *fiber.Ctx) error {
	rooms, err := h.roomController.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return h.handleError(c, err, "Failed to list rooms")
	}
	return c.JSON(rooms)
}

func (h *RoomHandler) listByFloor(c *fiber.Ctx) error {
	rooms, err := h.roomController.ListByFloor(c.UserContext(), c.Params("floor"))
	if err != nil {
		return h.handleError(c, err, "Failed to list rooms")
	}
	return c.JSON(rooms)
}

func (h *RoomHandler) getByBarcode(c *fiber.Ctx) error {
	room, err := h.roomController.GetByBarcode(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.handleError(c, err, "Failed to get room")
	}
	return c.JSON(room)
}

func (h *RoomHandler) create(c *fiber.Ctx) error {
	var req roomController.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	room, err := h.roomController.Create(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err, "Failed to create room")
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *RoomHandler) update(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	var req roomController.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	room, err := h.roomController.Update(c.UserContext(), id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update room")
	}
	return c.JSON(room)
}

func (h *RoomHandler) delete(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	if err := h.roomController.Delete(c.UserContext(), id); err != nil {
		return h.handleError(c, err, "Failed to delete room")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RoomHandler) updateStatus(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	var req roomController.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	room, err := h.roomController.UpdateStatus(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update room status")
	}
	return c.JSON(room)
}
