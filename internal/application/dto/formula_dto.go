package dto

import "github.com/shopspring/decimal"

// AddComponentRequest body para POST /api/formulas/:productID/components.
type AddComponentRequest struct {
	ComponentProductID string          `json:"component_product_id"`
	QuantityPerUnit    decimal.Decimal `json:"quantity_per_unit"`
}
