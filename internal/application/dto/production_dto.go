package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
)

// RegisterProductionRequest body para POST /api/manufacturing/productions.
type RegisterProductionRequest struct {
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
	ReferenceID string          `json:"reference_id,omitempty"`
}

// ProductionResponse filas creadas por una producción (padre + descuentos).
type ProductionResponse struct {
	ReferenceID string                `json:"reference_id"`
	Parent      *entity.LedgerEntry   `json:"parent"`
	Components  []*entity.LedgerEntry `json:"components"`
}
