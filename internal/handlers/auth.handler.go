package handlers

import (
	"hotelparadise/internal/app"
	authController "hotelparadise/internal/controllers/auth"
	"hotelparadise/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler:        newHandler(app, router, "auth_handler"),
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/register", h.middleware.RateLimit(), h.register)
	auth.Post("/register-camarera", h.middleware.RateLimit(), h.registerHousekeeper)
	auth.Post("/login", h.middleware.RateLimit(), h.login)
	auth.Post("/refresh", h.refresh)
	auth.Post("/logout", h.logout)
	auth.Put("/fcm-token", h.middleware.RequireAuth(), h.updateFCMToken)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req authController.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	response, err := h.authController.Register(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err, "Failed to register user")
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AuthHandler) registerHousekeeper(c *fiber.Ctx) error {
	var req authController.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	response, err := h.authController.RegisterHousekeeper(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err, "Failed to register user")
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req authController.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	response, err := h.authController.Login(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err, "Failed to log in")
	}

	return c.JSON(response)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	response, err := h.authController.Refresh(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return h.handleError(c, err, "Failed to refresh token")
	}

	return c.JSON(response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.authController.Logout(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err != nil {
		return h.handleError(c, err, "Failed to log out")
	}

	return c.JSON(fiber.Map{"message": "Logout successful"})
}

func (h *AuthHandler) updateFCMToken(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req authController.FCMTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	updated, err := h.authController.UpdateFCMToken(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update push token")
	}

	return c.JSON(fiber.Map{"user": updated.ToResponse()})
}
