package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/manufactura-api/internal/application/dto"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/application/manufacturing"
)

// ProductionHandler maneja las peticiones HTTP del motor de producción.
type ProductionHandler struct {
	uc       *manufacturing.UseCase
	ledgerUC *ledger.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *manufacturing.UseCase, ledgerUC *ledger.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc, ledgerUC: ledgerUC}
}

// Register registra una producción (POST /api/manufacturing/productions).
func (h *ProductionHandler) Register(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.RegisterProduction(c.Context(), manufacturing.ProductionInput{
		ParentProductID: in.ProductID,
		Quantity:        in.Quantity,
		LocationID:      in.LocationID,
		UserID:          userID,
		Notes:           in.Notes,
		ReferenceID:     in.ReferenceID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductionResponse{
		ReferenceID: result.ParentEntry.ReferenceID,
		Parent:      result.ParentEntry,
		Components:  result.ComponentEntries,
	})
}

// GetByReference devuelve las filas correlacionadas de un evento de
// producción (GET /api/manufacturing/productions/:referenceID).
func (h *ProductionHandler) GetByReference(c *fiber.Ctx) error {
	entries, err := h.ledgerUC.ListByReference(c.Context(), c.Params("referenceID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EntryListResponse{Total: len(entries), Entries: entries})
}
