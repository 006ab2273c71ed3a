package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormulaComponent es una arista del grafo de fórmulas (BOM):
// producir una unidad de ParentProductID consume QuantityPerUnit de
// ComponentProductID. El grafo debe permanecer acíclico.
type FormulaComponent struct {
	ID                 string          `json:"id"`
	ParentProductID    string          `json:"parent_product_id"`
	ComponentProductID string          `json:"component_product_id"`
	QuantityPerUnit    decimal.Decimal `json:"quantity_per_unit"`
	CreatedAt          time.Time       `json:"created_at"`
}
