package handler

import (
	"github.com/gofiber/fiber/v2"

	"moey-backend/internal/domain"
	"moey-backend/internal/service/notification"
	"moey-backend/internal/service/stage"
)

type NotificationHandler struct {
	notifService notification.Service
	stageService stage.Service
}

func NewNotificationHandler(notifService notification.Service, stageService stage.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService, stageService: stageService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	filter := domain.ParseNotificationFilter(c.Query("filter"))
	result, err := h.notifService.List(c.UserContext(), user.ID, filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.UnreadCount(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}

	notif, err := h.notifService.MarkAsRead(c.UserContext(), id, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    notif,
	})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	updated, err := h.notifService.MarkAllAsRead(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"updated": updated,
	})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notifService.Delete(c.UserContext(), id, user.ID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Respond reports precondition failures as success=false with status 200.
func (h *NotificationHandler) Respond(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}

	result, err := h.stageService.Respond(c.UserContext(), id, user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) PMRespond(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}

	result, err := h.stageService.PMRespond(c.UserContext(), id, user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
