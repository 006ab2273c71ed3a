package repository

import "github.com/tu-usuario/manufactura-api/internal/domain/entity"

// FormulaRepository define el puerto para las aristas del grafo de fórmulas (BOM).
type FormulaRepository interface {
	Add(component *entity.FormulaComponent) error
	// Components devuelve solo los componentes directos (un nivel).
	Components(parentProductID string) ([]*entity.FormulaComponent, error)
	// UsedIn devuelve las fórmulas donde el producto participa como componente.
	UsedIn(componentProductID string) ([]*entity.FormulaComponent, error)
	Has(parentProductID, componentProductID string) (bool, error)
	Remove(parentProductID, componentProductID string) error
	RemoveAll(parentProductID string) error
}
