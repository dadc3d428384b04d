package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"moey-backend/internal/service/export"
)

type ExportHandler struct {
	exportSvc export.Service
}

func NewExportHandler(exportSvc export.Service) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

func (h *ExportHandler) TaskResponses(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId", "order")
	if err != nil {
		return err
	}

	file, err := h.exportSvc.TaskResponses(c.UserContext(), orderID)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Content)
}

func (h *ExportHandler) ArchiveTaskResponses(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "orderId", "order")
	if err != nil {
		return err
	}

	archive, err := h.exportSvc.ArchiveTaskResponses(c.UserContext(), orderID, user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": archive})
}
