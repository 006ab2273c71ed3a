package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto. Un insumo (materia prima) no puede tener fórmula.
const (
	CategoryRawMaterial  = "raw_material"
	CategorySemiFinished = "semi_finished"
	CategoryFinished     = "finished"
)

// Product es el catálogo de productos. Este núcleo lo consulta (existencia,
// categoría, umbral mínimo) pero no es su dueño.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Category  string
	Unit      string           // unidad de medida: kg, l, und...
	MinStock  *decimal.Decimal // umbral de alerta; nil = sin alerta configurada
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasThreshold indica si el producto tiene umbral mínimo configurado.
func (p *Product) HasThreshold() bool { return p.MinStock != nil }
