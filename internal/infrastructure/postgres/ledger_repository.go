package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// signedQuantitySQL replica en SQL el mapeo tipo→signo de
// entity.LedgerEntry.SignedQuantity: manual_out se guarda positiva y resta;
// manufacturing_out ya viene negada y se suma tal cual.
const signedQuantitySQL = `CASE WHEN entry_type = 'manual_out' THEN -quantity ELSE quantity END`

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_entries (id, product_id, location_id, user_id, quantity, entry_type, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.LocationID, entry.UserID,
		entry.Quantity, entry.EntryType, entry.ReferenceID, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, location_id, user_id, quantity, entry_type, reference_id, notes, created_at
		FROM ledger_entries WHERE id = $1`
	var e entity.LedgerEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ProductID, &e.LocationID, &e.UserID,
		&e.Quantity, &e.EntryType, &e.ReferenceID, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return &e, nil
}

// Update persiste los campos mutables (cantidad, tipo, ubicación, notas).
func (r *LedgerRepo) Update(entry *entity.LedgerEntry) error {
	query := `
		UPDATE ledger_entries
		SET quantity = $2, entry_type = $3, location_id = $4, notes = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.Quantity, entry.EntryType, entry.LocationID, entry.Notes,
	)
	if err != nil {
		return fmt.Errorf("update ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update ledger entry %s: fila inexistente", entry.ID)
	}
	return nil
}

// Delete elimina un movimiento.
func (r *LedgerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	return nil
}

// Balance deriva el saldo sumando las filas (locationID vacío = global).
func (r *LedgerRepo) Balance(productID, locationID string) (decimal.Decimal, error) {
	return r.balance(productID, locationID)
}

// BalanceForUpdate deriva el saldo bloqueando antes el agregado
// (producto, ubicación) hasta el commit. Sustituye el SELECT ... FOR UPDATE
// de un stock materializado: aquí no hay fila que bloquear porque el saldo
// solo existe derivado.
func (r *LedgerRepo) BalanceForUpdate(productID, locationID string) (decimal.Decimal, error) {
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		productID+":"+locationID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lock balance aggregate: %w", err)
	}
	return r.balance(productID, locationID)
}

func (r *LedgerRepo) balance(productID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(` + signedQuantitySQL + `), 0)
		FROM ledger_entries WHERE product_id = $1`
	args := []any{productID}
	if locationID != "" {
		query += ` AND location_id = $2`
		args = append(args, locationID)
	}
	var balance decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("balance: %w", err)
	}
	return balance, nil
}

// Balances lista los saldos derivados por producto.
func (r *LedgerRepo) Balances(locationID string) ([]repository.ProductBalance, error) {
	query := `
		SELECT product_id, COALESCE(SUM(` + signedQuantitySQL + `), 0)
		FROM ledger_entries`
	args := []any{}
	if locationID != "" {
		query += ` WHERE location_id = $1`
		args = append(args, locationID)
	}
	query += ` GROUP BY product_id ORDER BY product_id`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("balances: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductBalance
	for rows.Next() {
		b := repository.ProductBalance{LocationID: locationID}
		if err := rows.Scan(&b.ProductID, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, location_id, user_id, quantity, entry_type, reference_id, notes, created_at
		FROM ledger_entries WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.list(query, args...)
}

// ListByReference devuelve las filas correlacionadas de un evento
// (producción: padre + descuentos), en orden de creación.
func (r *LedgerRepo) ListByReference(referenceID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, location_id, user_id, quantity, entry_type, reference_id, notes, created_at
		FROM ledger_entries WHERE reference_id = $1
		ORDER BY created_at ASC`
	return r.list(query, referenceID)
}

func (r *LedgerRepo) list(query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.LocationID, &e.UserID,
			&e.Quantity, &e.EntryType, &e.ReferenceID, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
