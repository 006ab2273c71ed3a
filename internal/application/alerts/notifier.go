package alerts

import (
	"context"
	"time"

	"github.com/tu-usuario/manufactura-api/pkg/logger"
)

// Notifier es el adaptador post-commit que implementa
// ledger.StockChangeNotifier: evalúa alertas en segundo plano con su propio
// contexto. Las fallas se registran, nunca se propagan a la mutación.
type Notifier struct {
	eval    *Evaluator
	log     *logger.Logger
	timeout time.Duration
}

// NewNotifier construye el adaptador asíncrono. timeout <= 0 usa 30s.
func NewNotifier(eval *Evaluator, log *logger.Logger, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Notifier{eval: eval, log: log, timeout: timeout}
}

// NotifyStockChange lanza la evaluación de alertas para los productos
// afectados por una mutación ya confirmada.
func (n *Notifier) NotifyStockChange(productIDs ...string) {
	ids := make([]string, len(productIDs))
	copy(ids, productIDs)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.eval.Evaluate(ctx, ids...); err != nil {
			n.log.Warn().Err(err).Strs("product_ids", ids).Msg("evaluación de alertas fallida")
		}
	}()
}
