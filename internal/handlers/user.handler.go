package handlers

import (
	"hotelparadise/internal/app"
	userController "hotelparadise/internal/controllers/users"
	"hotelparadise/internal/handlers/middleware"
	. "hotelparadise/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler:        newHandler(app, router, "user_handler"),
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())

	users.Get("/me", h.getCurrentUser)
	users.Get("/role/:role", h.middleware.RequireRole(RoleAdmin), h.listByRole)
	users.Patch("/:id/status", h.middleware.RequireRole(RoleAdmin), h.updateStatus)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	return c.JSON(h.userController.Me(c.UserContext(), user))
}

func (h *UserHandler) listByRole(c *fiber.Ctx) error {
	users, err := h.userController.ListByRole(c.UserContext(), c.Params("role"))
	if err != nil {
		return h.handleError(c, err, "Failed to list users")
	}
	return c.JSON(users)
}

func (h *UserHandler) updateStatus(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	var req userController.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	user, err := h.userController.UpdateStatus(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update user status")
	}
	return c.JSON(user)
}
