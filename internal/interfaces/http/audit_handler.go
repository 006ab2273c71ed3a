package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/manufactura-api/internal/application/audit"
	"github.com/tu-usuario/manufactura-api/internal/application/dto"
)

// AuditHandler maneja las peticiones HTTP del rastro de auditoría.
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List pagina el rastro de auditoría (GET /api/audit).
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	logs, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(logs), "logs": logs})
}

// GetByID devuelve un registro de auditoría (GET /api/audit/:id).
func (h *AuditHandler) GetByID(c *fiber.Ctx) error {
	logEntry, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logEntry)
}

// ListByEntry devuelve el historial de un movimiento
// (GET /api/audit/entries/:entryID).
func (h *AuditHandler) ListByEntry(c *fiber.Ctx) error {
	logs, err := h.uc.ListByEntry(c.Context(), c.Params("entryID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(logs), "logs": logs})
}

// Flag marca o desmarca un registro para revisión (PATCH /api/audit/:id/flag).
func (h *AuditHandler) Flag(c *fiber.Ctx) error {
	var in dto.FlagAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Flag(c.Context(), c.Params("id"), in.IsFlag); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "registro actualizado"})
}

// DeleteAndRevert elimina un registro de auditoría, opcionalmente aplicando
// primero la operación inversa contra el libro (DELETE /api/audit/:id).
// La ruta va detrás de RequireRole: solo roles privilegiados revierten.
func (h *AuditHandler) DeleteAndRevert(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.DeleteAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.DeleteAndRevert(c.Context(), c.Params("id"), userID, in.Revert, in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "registro eliminado", "reverted": in.Revert})
}
