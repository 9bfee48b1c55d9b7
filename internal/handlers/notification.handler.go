package handlers

import (
	"hotelparadise/internal/app"
	notificationController "hotelparadise/internal/controllers/notifications"
	"hotelparadise/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	notificationController notificationController.NotificationControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	return &NotificationHandler{
		notificationController: app.Controllers.Notification,
		Handler:                newHandler(app, router, "notification_handler"),
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications", h.middleware.RequireAuth())

	notifications.Get("/", h.listMine)
	notifications.Get("/unread", h.listUnread)
	notifications.Get("/unread/count", h.countUnread)
	notifications.Put("/read-all", h.markAllRead)
	notifications.Put("/:id/read", h.markRead)
	notifications.Delete("/:id", h.delete)
}

func (h *NotificationHandler) listMine(c *fiber.Ctx) error {
	list, err := h.notificationController.ListMine(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.handleError(c, err, "Failed to list notifications")
	}
	return c.JSON(list)
}

func (h *NotificationHandler) listUnread(c *fiber.Ctx) error {
	notifications, err := h.notificationController.ListUnread(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.handleError(c, err, "Failed to list notifications")
	}
	return c.JSON(notifications)
}

func (h *NotificationHandler) countUnread(c *fiber.Ctx) error {
	count, err := h.notificationController.CountUnread(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.handleError(c, err, "Failed to count notifications")
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	if err := h.notificationController.MarkRead(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return h.handleError(c, err, "Failed to mark notification read")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	updated, err := h.notificationController.MarkAllRead(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.handleError(c, err, "Failed to mark notifications read")
	}
	return c.JSON(fiber.Map{"updated": updated})
}

func (h *NotificationHandler) delete(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	if err := h.notificationController.Delete(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return h.handleError(c, err, "Failed to delete notification")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
