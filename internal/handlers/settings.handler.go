package handlers

import (
	"hotelparadise/internal/app"
	settingsController "hotelparadise/internal/controllers/settings"
	"hotelparadise/internal/handlers/middleware"
	. "hotelparadise/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	Handler
	settingsController settingsController.SettingsControllerInterface
}

func NewSettingsHandler(app app.App, router fiber.Router) *SettingsHandler {
	return &SettingsHandler{
		settingsController: app.Controllers.Settings,
		Handler:            newHandler(app, router, "settings_handler"),
	}
}

func (h *SettingsHandler) Register() {
	settings := h.router.Group("/hotel-settings", h.middleware.RequireRole(RoleAdmin, RoleHousekeeper))

	settings.Get("/", h.get)
	settings.Put("/", h.middleware.RequireRole(RoleAdmin), h.upsert)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	settings, err := h.settingsController.Get(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to load hotel settings")
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) upsert(c *fiber.Ctx) error {
	var req settingsController.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	settings, err := h.settingsController.Upsert(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return h.handleError(c, err, "Failed to save hotel settings")
	}
	return c.JSON(settings)
}
