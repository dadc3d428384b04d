package handler

import (
	"github.com/gofiber/fiber/v2"

	"moey-backend/internal/domain"
	"moey-backend/internal/service/push"
)

// UserHandler serves the device token endpoints used by the mobile app.
type UserHandler struct {
	pushService push.Service
}

func NewUserHandler(pushService push.Service) *UserHandler {
	return &UserHandler{pushService: pushService}
}

func (h *UserHandler) RegisterFCMToken(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input domain.FCMTokenInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	if err := h.pushService.RegisterToken(c.UserContext(), user.ID, input); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "FCM token registered",
	})
}

func (h *UserHandler) RemoveFCMToken(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.pushService.RemoveToken(c.UserContext(), user.ID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "FCM token removed",
	})
}

func (h *UserHandler) FCMStats(c *fiber.Ctx) error {
	stats, err := h.pushService.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"push_enabled": h.pushService.Enabled(),
		"data":         stats,
	})
}

func (h *UserHandler) SendTestPush(c *fiber.Ctx) error {
	var input domain.PushTestInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	if err := h.pushService.SendTest(c.UserContext(), input); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Test notification sent",
	})
}
