package manufacturing

import (
	"context"

	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una producción completa (fila padre + descuentos de
// componentes + espejo de auditoría) dentro de una sola transacción.
type TxRunner interface {
	RunManufacturing(ctx context.Context, fn func(
		entryRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
		formulaRepo repository.FormulaRepository,
		productRepo repository.ProductRepository,
	) error) error
}
