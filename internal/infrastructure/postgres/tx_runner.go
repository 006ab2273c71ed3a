package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/manufactura-api/internal/application/formula"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/application/manufacturing"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de los casos de uso.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ manufacturing.TxRunner = (*TxRunner)(nil)
var _ formula.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool del tenant.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Cubre las mutaciones simples del libro y la reversión.
func (r *TxRunner) Run(ctx context.Context, fn func(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLedgerRepository(tx), NewAuditRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunManufacturing igual que Run pero con el repo de fórmulas, para que la
// expansión de una producción lea el BOM dentro de la misma transacción.
func (r *TxRunner) RunManufacturing(ctx context.Context, fn func(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	formulaRepo repository.FormulaRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLedgerRepository(tx), NewAuditRepository(tx), NewFormulaRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunFormula transacción para validar e insertar aristas del grafo de fórmulas.
func (r *TxRunner) RunFormula(ctx context.Context, fn func(
	formulaRepo repository.FormulaRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewFormulaRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
