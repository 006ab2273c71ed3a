package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
// La dirección la define el tipo, no el signo de la cantidad capturada;
// manufacturing_out es la excepción: se almacena ya negado (descuento de
// componente) y se suma tal cual.
const (
	EntryTypeManualIn         = "manual_in"
	EntryTypeManualOut        = "manual_out"
	EntryTypeManufacturingIn  = "manufacturing_in"
	EntryTypeManufacturingOut = "manufacturing_out"
)

// ValidEntryType indica si t es un tipo de movimiento conocido.
func ValidEntryType(t string) bool {
	switch t {
	case EntryTypeManualIn, EntryTypeManualOut, EntryTypeManufacturingIn, EntryTypeManufacturingOut:
		return true
	}
	return false
}

// LedgerEntry es un hecho inmutable del libro de movimientos. El stock nunca
// se almacena: siempre se deriva sumando SignedQuantity sobre las filas.
type LedgerEntry struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id"`
	UserID      string          `json:"user_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	EntryType   string          `json:"entry_type"`
	ReferenceID string          `json:"reference_id"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SignedQuantity devuelve el aporte de la fila al saldo:
// manual_in/manufacturing_in suman, manual_out resta (se guarda positiva),
// manufacturing_out ya viene negativa y se toma tal cual.
func (e *LedgerEntry) SignedQuantity() decimal.Decimal {
	switch e.EntryType {
	case EntryTypeManualOut:
		return e.Quantity.Neg()
	default:
		return e.Quantity
	}
}

// Snapshot serializa la fila como blob opaco para la auditoría.
func (e *LedgerEntry) Snapshot() (json.RawMessage, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("serializar snapshot de movimiento: %w", err)
	}
	return raw, nil
}

// EntryFromSnapshot reconstruye una fila desde el blob de auditoría y valida
// que conserve la forma mínima de un movimiento (para poder revertir).
func EntryFromSnapshot(raw json.RawMessage) (*LedgerEntry, error) {
	var e LedgerEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("deserializar snapshot de movimiento: %w", err)
	}
	if e.ProductID == "" || e.LocationID == "" || !ValidEntryType(e.EntryType) {
		return nil, fmt.Errorf("snapshot de movimiento incompleto o con tipo desconocido")
	}
	return &e, nil
}
