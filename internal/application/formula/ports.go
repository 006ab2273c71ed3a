package formula

import (
	"context"

	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// TxRunner hace transaccionales la verificación de aciclicidad y la
// inserción de la arista: ninguna otra escritura puede colarse entre ambas.
type TxRunner interface {
	RunFormula(ctx context.Context, fn func(
		formulaRepo repository.FormulaRepository,
		productRepo repository.ProductRepository,
	) error) error
}
