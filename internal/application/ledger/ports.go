package ledger

import (
	"context"

	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la verificación de saldo, la
// escritura del movimiento y su espejo de auditoría sean una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		entryRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockChangeNotifier es el hook post-commit hacia el evaluador de alertas.
// Se invoca solo después de un Commit exitoso; su falla nunca afecta la
// mutación que lo disparó.
type StockChangeNotifier interface {
	NotifyStockChange(productIDs ...string)
}
