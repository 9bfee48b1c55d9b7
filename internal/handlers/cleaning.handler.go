package handlers

import (
	"hotelparadise/internal/app"
	cleaningController "hotelparadise/internal/controllers/cleanings"
	"hotelparadise/internal/handlers/middleware"
	. "hotelparadise/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CleaningHandler struct {
	Handler
	cleaningController cleaningController.CleaningControllerInterface
}

func NewCleaningHandler(app app.App, router fiber.Router) *CleaningHandler {
	return &CleaningHandler{
		cleaningController: app.Controllers.Cleaning,
		Handler:            newHandler(app, router, "cleaning_handler"),
	}
}

func (h *CleaningHandler) Register() {
	cleanings := h.router.Group("/cleanings", h.middleware.RequireAuth())
	adminOnly := h.middleware.RequireRole(RoleAdmin)

	cleanings.Post("/", h.middleware.RequireRole(RoleHousekeeper), h.register)
	cleanings.Get("/", adminOnly, h.list)
	cleanings.Get("/room/:id", adminOnly, h.listByRoom)
	cleanings.Get("/user/:id", adminOnly, h.listByUser)
	cleanings.Get("/date-range", adminOnly, h.listBetween)
	cleanings.Get("/pending-sync", adminOnly, h.listPendingSync)
	cleanings.Patch("/:id/sync", h.middleware.RequireRole(RoleAdmin, RoleHousekeeper), h.sync)
}

func (h *CleaningHandler) register(c *fiber.Ctx) error {
	var req cleaningController.CleaningRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	cleaning, err := h.cleaningController.Register(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return h.handleError(c, err, "Failed to register cleaning")
	}
	return c.Status(fiber.StatusCreated).JSON(cleaning)
}

func (h *CleaningHandler) list(c *fiber.Ctx) error {
	cleanings, err := h.cleaningController.List(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to list cleanings")
	}
	return c.JSON(cleanings)
}

func (h *CleaningHandler) listByRoom(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	cleanings, err := h.cleaningController.ListByRoom(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to list cleanings")
	}
	return c.JSON(cleanings)
}

func (h *CleaningHandler) listByUser(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	cleanings, err := h.cleaningController.ListByUser(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to list cleanings")
	}
	return c.JSON(cleanings)
}

func (h *CleaningHandler) listBetween(c *fiber.Ctx) error {
	cleanings, err := h.cleaningController.ListBetween(c.UserContext(), c.Query("start"), c.Query("end"))
	if err != nil {
		return h.handleError(c, err, "Failed to list cleanings")
	}
	return c.JSON(cleanings)
}

func (h *CleaningHandler) listPendingSync(c *fiber.Ctx) error {
	cleanings, err := h.cleaningController.ListPendingSync(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to list cleanings")
	}
	return c.JSON(cleanings)
}

func (h *CleaningHandler) sync(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	cleaning, err := h.cleaningController.Sync(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to sync cleaning")
	}
	return c.JSON(cleaning)
}
