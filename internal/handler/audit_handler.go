package handler

import (
	"github.com/gofiber/fiber/v2"

	"moey-backend/internal/service/audit"
)

type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) GetRecentActivities(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	logs, err := h.auditService.GetRecentActivities(c.UserContext(), limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}

func (h *AuditHandler) ListByOrder(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId", "order")
	if err != nil {
		return err
	}

	result, err := h.auditService.ListByOrder(c.UserContext(), orderID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
