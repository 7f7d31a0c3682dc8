package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/services"
)

type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.notifications.List(c.UserContext(), currentCaller(c), c.QueryInt("limit", 50), c.QueryBool("unreadOnly", false))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *NotificationHandler) HandleUnreadCount(c *fiber.Ctx) error {
	count, err := h.notifications.UnreadCount(c.UserContext(), currentCaller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.MarkRead(c.UserContext(), currentCaller(c), id); err != nil {
		return err
	}
	return message(c, "Notification marked as read")
}

func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	updated, err := h.notifications.MarkAllRead(c.UserContext(), currentCaller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read", "updated": updated})
}

func (h *NotificationHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(c.UserContext(), currentCaller(c), id); err != nil {
		return err
	}
	return message(c, "Notification deleted")
}
