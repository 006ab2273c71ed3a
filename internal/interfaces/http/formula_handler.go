package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/manufactura-api/internal/application/dto"
	"github.com/tu-usuario/manufactura-api/internal/application/formula"
)

// FormulaHandler maneja las peticiones HTTP del grafo de fórmulas.
type FormulaHandler struct {
	uc *formula.UseCase
}

// NewFormulaHandler construye el handler.
func NewFormulaHandler(uc *formula.UseCase) *FormulaHandler {
	return &FormulaHandler{uc: uc}
}

// AddComponent agrega una arista a la fórmula
// (POST /api/formulas/:productID/components).
func (h *FormulaHandler) AddComponent(c *fiber.Ctx) error {
	var in dto.AddComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	edge, err := h.uc.AddComponent(c.Context(), c.Params("productID"), in.ComponentProductID, in.QuantityPerUnit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(edge)
}

// Components lista los componentes directos (GET /api/formulas/:productID/components).
func (h *FormulaHandler) Components(c *fiber.Ctx) error {
	components, err := h.uc.Components(c.Context(), c.Params("productID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(components), "components": components})
}

// UsedIn lista dónde participa el producto como componente
// (GET /api/formulas/:productID/used-in).
func (h *FormulaHandler) UsedIn(c *fiber.Ctx) error {
	edges, err := h.uc.UsedIn(c.Context(), c.Params("productID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(edges), "used_in": edges})
}

// RemoveComponent elimina una arista directa
// (DELETE /api/formulas/:productID/components/:componentID).
func (h *FormulaHandler) RemoveComponent(c *fiber.Ctx) error {
	if err := h.uc.RemoveComponent(c.Context(), c.Params("productID"), c.Params("componentID")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "componente eliminado"})
}

// RemoveAll elimina toda la fórmula (DELETE /api/formulas/:productID).
func (h *FormulaHandler) RemoveAll(c *fiber.Ctx) error {
	if err := h.uc.RemoveAll(c.Context(), c.Params("productID")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "fórmula eliminada"})
}
