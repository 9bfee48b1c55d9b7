package handlers

import (
	"hotelparadise/internal/app"
	assignmentController "hotelparadise/internal/controllers/assignments"
	"hotelparadise/internal/handlers/middleware"
	. "hotelparadise/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AssignmentHandler struct {
	Handler
	assignmentController assignmentController.AssignmentControllerInterface
}

func NewAssignmentHandler(app app.App, router fiber.Router) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentController: app.Controllers.Assignment,
		Handler:              newHandler(app, router, "assignment_handler"),
	}
}

func (h *AssignmentHandler) Register() {
	assignments := h.router.Group("/room-assignments", h.middleware.RequireAuth())
	adminOnly := h.middleware.RequireRole(RoleAdmin)

	assignments.Get("/", adminOnly, h.listActive)
	assignments.Get("/room/:id", adminOnly, h.listByRoom)
	assignments.Get("/user/:id", h.middleware.RequireRole(RoleAdmin, RoleHousekeeper), h.listByUser)
	assignments.Post("/", adminOnly, h.create)
	assignments.Delete("/:id/permanent", adminOnly, h.deletePermanently)
	assignments.Delete("/:id", adminOnly, h.deactivate)
}

func (h *AssignmentHandler) listActive(c *fiber.Ctx) error {
	assignments, err := h.assignmentController.ListActive(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to list assignments")
	}
	return c.JSON(assignments)
}

func (h *AssignmentHandler) listByRoom(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	assignments, err := h.assignmentController.ListByRoom(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to list assignments")
	}
	return c.JSON(assignments)
}

func (h *AssignmentHandler) listByUser(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	assignments, err := h.assignmentController.ListByUser(c.UserContext(), middleware.GetUser(c), id)
	if err != nil {
		return h.handleError(c, err, "Failed to list assignments")
	}
	return c.JSON(assignments)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var req assignmentController.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	assignment, err := h.assignmentController.Create(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return h.handleError(c, err, "Failed to create assignment")
	}
	return c.Status(fiber.StatusCreated).JSON(assignment)
}

func (h *AssignmentHandler) deactivate(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	if err := h.assignmentController.Deactivate(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return h.handleError(c, err, "Failed to deactivate assignment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AssignmentHandler) deletePermanently(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	if err := h.assignmentController.DeletePermanently(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return h.handleError(c, err, "Failed to delete assignment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
