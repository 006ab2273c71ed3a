package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
)

// CreateEntryRequest body para POST /api/ledger/entries.
// Quantity siempre positiva; la dirección la da entry_type.
type CreateEntryRequest struct {
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id"`
	EntryType   string          `json:"entry_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// UpdateEntryRequest parche parcial para PUT /api/ledger/entries/:id.
type UpdateEntryRequest struct {
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	EntryType  *string          `json:"entry_type,omitempty"`
	LocationID *string          `json:"location_id,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// BalanceResponse saldo derivado de un producto.
type BalanceResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
}

// EntryListResponse listado de movimientos.
type EntryListResponse struct {
	Total   int                   `json:"total"`
	Entries []*entity.LedgerEntry `json:"entries"`
}
