package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/manufactura-api/internal/application/dto"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos.
type MovementHandler struct {
	uc *ledger.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create registra un movimiento manual (POST /api/ledger/entries).
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Create(c.Context(), ledger.CreateEntryInput{
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		UserID:      userID,
		EntryType:   in.EntryType,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		Reason:      in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Update aplica un parche parcial a un movimiento (PUT /api/ledger/entries/:id).
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Update(c.Context(), c.Params("id"), ledger.UpdateEntryPatch{
		Quantity:   in.Quantity,
		EntryType:  in.EntryType,
		LocationID: in.LocationID,
		Notes:      in.Notes,
	}, userID, in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// Delete elimina un movimiento (DELETE /api/ledger/entries/:id).
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	reason := c.Query("reason")
	if err := h.uc.Delete(c.Context(), c.Params("id"), userID, reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento eliminado"})
}

// GetByID devuelve un movimiento (GET /api/ledger/entries/:id).
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// ListByProduct lista los movimientos de un producto con rango de fechas
// opcional (GET /api/ledger/products/:productID/entries?from=&to=).
func (h *MovementHandler) ListByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	entries, err := h.uc.ListByProduct(c.Context(), c.Params("productID"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EntryListResponse{Total: len(entries), Entries: entries})
}

// Balance devuelve el saldo derivado de un producto
// (GET /api/ledger/products/:productID/balance?location_id=).
func (h *MovementHandler) Balance(c *fiber.Ctx) error {
	productID := c.Params("productID")
	locationID := c.Query("location_id")
	balance, err := h.uc.Balance(c.Context(), productID, locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ProductID: productID, LocationID: locationID, Balance: balance})
}

// Balances lista los saldos por producto (GET /api/ledger/balances?location_id=).
func (h *MovementHandler) Balances(c *fiber.Ctx) error {
	balances, err := h.uc.Balances(c.Context(), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(balances), "balances": balances})
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
