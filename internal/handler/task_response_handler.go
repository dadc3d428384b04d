package handler

import (
	"github.com/gofiber/fiber/v2"

	"moey-backend/internal/domain"
	"moey-backend/internal/service/deadline"
)

type TaskResponseHandler struct {
	deadlineService deadline.Service
}

func NewTaskResponseHandler(deadlineService deadline.Service) *TaskResponseHandler {
	return &TaskResponseHandler{deadlineService: deadlineService}
}

func (h *TaskResponseHandler) ListByOrder(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId", "order")
	if err != nil {
		return err
	}

	tasks, err := h.deadlineService.ListByOrder(c.UserContext(), orderID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": tasks})
}

func (h *TaskResponseHandler) GetByTahap(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId", "order")
	if err != nil {
		return err
	}

	task, err := h.deadlineService.GetByOrderAndTahap(c.UserContext(), orderID, c.Params("tahap"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": task})
}

func (h *TaskResponseHandler) Complete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "task response")
	if err != nil {
		return err
	}

	task, err := h.deadlineService.Complete(c.UserContext(), id, user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": task})
}

func (h *TaskResponseHandler) RequestExtension(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "task response")
	if err != nil {
		return err
	}

	var input domain.ExtensionRequestInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	log, err := h.deadlineService.RequestExtension(c.UserContext(), id, user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": log})
}

func (h *TaskResponseHandler) ListExtensions(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "task response")
	if err != nil {
		return err
	}

	logs, err := h.deadlineService.ListExtensions(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": logs})
}

func (h *TaskResponseHandler) ListPendingExtensions(c *fiber.Ctx) error {
	logs, err := h.deadlineService.ListPendingExtensions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": logs})
}

func (h *TaskResponseHandler) ApproveExtension(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "extension")
	if err != nil {
		return err
	}

	task, err := h.deadlineService.ApproveExtension(c.UserContext(), id, user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": task})
}

func (h *TaskResponseHandler) RejectExtension(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "extension")
	if err != nil {
		return err
	}

	log, err := h.deadlineService.RejectExtension(c.UserContext(), id, user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": log})
}
