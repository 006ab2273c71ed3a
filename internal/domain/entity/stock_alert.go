package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAlert es una alerta de stock bajo. A lo sumo una alerta abierta
// (no resuelta) por producto; CurrentStock se refresca mientras siga abierta.
type StockAlert struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	MinStock     decimal.Decimal `json:"min_stock"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Resolved     bool            `json:"resolved"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Notification es el aviso asociado a una alerta. A lo sumo una notificación
// sin leer por alerta abierta para no generar ruido repetido.
type Notification struct {
	ID        string    `json:"id"`
	AlertID   string    `json:"alert_id"`
	ProductID string    `json:"product_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
