package handler

import (
	"github.com/gofiber/fiber/v2"

	"moey-backend/internal/domain"
	"moey-backend/internal/service/workplan"
)

type WorkplanHandler struct {
	workplanService workplan.Service
}

func NewWorkplanHandler(workplanService workplan.Service) *WorkplanHandler {
	return &WorkplanHandler{workplanService: workplanService}
}

func (h *WorkplanHandler) ListByOrder(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId", "order")
	if err != nil {
		return err
	}

	items, err := h.workplanService.ListByOrder(c.UserContext(), orderID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": items})
}

func (h *WorkplanHandler) UpdateItem(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "workplan item")
	if err != nil {
		return err
	}

	var input domain.UpdateWorkplanItemInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	item, err := h.workplanService.UpdateItem(c.UserContext(), id, input, user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}
