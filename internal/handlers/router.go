package handlers

import (
	"errors"

	"hotelparadise/internal/app"
	"hotelparadise/internal/handlers/middleware"
	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID(), app.Middleware.Authenticate())

	WebSocketHandler(router, app.Websocket)
	NewAuthHandler(*app, router).Register()

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewRoomHandler(*app, api).Register()
	NewCleaningHandler(*app, api).Register()
	NewIncidentHandler(*app, api).Register()
	NewAssignmentHandler(*app, api).Register()
	NewSettingsHandler(*app, api).Register()
	NewNotificationHandler(*app, api).Register()

	return nil
}

// handleError maps the error taxonomy onto HTTP statuses. Unexpected errors
// are logged and answered with the fallback message.
func (h *Handler) handleError(c *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, types.ErrAuthentication):
		status = fiber.StatusUnauthorized
	case errors.Is(err, types.ErrAuthorization):
		status = fiber.StatusForbidden
	case errors.Is(err, types.ErrNotFound):
		status = fiber.StatusNotFound
	}

	if status == fiber.StatusInternalServerError {
		h.log.TraceFromContext(c.UserContext()).
			Er(fallback, err, "method", c.Method(), "path", c.Path())
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}

	return c.Status(status).JSON(fiber.Map{"error": types.Message(err, fallback)})
}

func (h *Handler) invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}

func (h *Handler) paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, types.NewValidationError("invalid %s", name)
	}
	return id, nil
}

func newHandler(app app.App, router fiber.Router, file string) Handler {
	return Handler{
		log:        logger.New("handlers").File(file),
		router:     router,
		middleware: app.Middleware,
	}
}
