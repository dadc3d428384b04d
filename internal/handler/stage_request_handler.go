package handler

import (
	"github.com/gofiber/fiber/v2"

	"moey-backend/internal/domain"
	"moey-backend/internal/service/notification"
)

type StageRequestHandler struct {
	notifService notification.Service
}

func NewStageRequestHandler(notifService notification.Service) *StageRequestHandler {
	return &StageRequestHandler{notifService: notifService}
}

func (h *StageRequestHandler) Dispatch(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId", "order")
	if err != nil {
		return err
	}

	var input domain.DispatchInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}
	input.OrderID = orderID

	notifs, err := h.notifService.Dispatch(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"recipients": len(notifs),
		"data":       notifs,
	})
}
