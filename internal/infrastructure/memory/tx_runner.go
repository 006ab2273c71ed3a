package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/manufactura-api/internal/application/formula"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/application/manufacturing"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ manufacturing.TxRunner = (*TxRunner)(nil)
var _ formula.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones sobre el Store: serializa las operaciones con
// un mutex propio y restaura un snapshot del estado cuando fn falla, de modo
// que "todo o nada" se cumple igual que con una transacción real.
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(fn func() error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	before := r.store.snapshot()
	if err := fn(); err != nil {
		r.store.restore(before)
		return err
	}
	return nil
}

// Run ejecuta fn como una transacción simulada con los repos del almacén.
func (r *TxRunner) Run(ctx context.Context, fn func(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(func() error {
		return fn(NewLedgerRepository(r.store), NewAuditRepository(r.store), NewProductRepository(r.store))
	})
}

// RunManufacturing versión con repo de fórmulas para el motor de producción.
func (r *TxRunner) RunManufacturing(ctx context.Context, fn func(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	formulaRepo repository.FormulaRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(func() error {
		return fn(NewLedgerRepository(r.store), NewAuditRepository(r.store), NewFormulaRepository(r.store), NewProductRepository(r.store))
	})
}

// RunFormula transacción simulada para el grafo de fórmulas.
func (r *TxRunner) RunFormula(ctx context.Context, fn func(
	formulaRepo repository.FormulaRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(func() error {
		return fn(NewFormulaRepository(r.store), NewProductRepository(r.store))
	})
}
