package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

var _ repository.FormulaRepository = (*FormulaRepo)(nil)

// FormulaRepo implementación de FormulaRepository sobre PostgreSQL (usable con pool o tx).
type FormulaRepo struct {
	q Querier
}

// NewFormulaRepository construye el adaptador de fórmulas. Pasar pool o tx (Querier).
func NewFormulaRepository(q Querier) *FormulaRepo {
	return &FormulaRepo{q: q}
}

// Add inserta una arista padre→componente. El constraint único
// (parent_product_id, component_product_id) respalda la detección de duplicados.
func (r *FormulaRepo) Add(component *entity.FormulaComponent) error {
	if component.ID == "" {
		component.ID = uuid.New().String()
	}
	query := `
		INSERT INTO formula_components (id, parent_product_id, component_product_id, quantity_per_unit, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		component.ID, component.ParentProductID, component.ComponentProductID,
		component.QuantityPerUnit, component.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrComponentExists
		}
		return fmt.Errorf("add formula component: %w", err)
	}
	return nil
}

// Components devuelve los componentes directos (un nivel) de un producto.
func (r *FormulaRepo) Components(parentProductID string) ([]*entity.FormulaComponent, error) {
	query := `
		SELECT id, parent_product_id, component_product_id, quantity_per_unit, created_at
		FROM formula_components WHERE parent_product_id = $1
		ORDER BY component_product_id`
	return r.list(query, parentProductID)
}

// UsedIn devuelve las fórmulas donde el producto participa como componente.
func (r *FormulaRepo) UsedIn(componentProductID string) ([]*entity.FormulaComponent, error) {
	query := `
		SELECT id, parent_product_id, component_product_id, quantity_per_unit, created_at
		FROM formula_components WHERE component_product_id = $1
		ORDER BY parent_product_id`
	return r.list(query, componentProductID)
}

// Has indica si existe la arista directa padre→componente.
func (r *FormulaRepo) Has(parentProductID, componentProductID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM formula_components WHERE parent_product_id = $1 AND component_product_id = $2)`,
		parentProductID, componentProductID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has formula component: %w", err)
	}
	return exists, nil
}

// Remove elimina una arista directa. No falla si no existe.
func (r *FormulaRepo) Remove(parentProductID, componentProductID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM formula_components WHERE parent_product_id = $1 AND component_product_id = $2`,
		parentProductID, componentProductID,
	)
	if err != nil {
		return fmt.Errorf("remove formula component: %w", err)
	}
	return nil
}

// RemoveAll elimina toda la fórmula de un producto.
func (r *FormulaRepo) RemoveAll(parentProductID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM formula_components WHERE parent_product_id = $1`, parentProductID)
	if err != nil {
		return fmt.Errorf("remove formula: %w", err)
	}
	return nil
}

func (r *FormulaRepo) list(query string, args ...any) ([]*entity.FormulaComponent, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list formula components: %w", err)
	}
	defer rows.Close()
	var list []*entity.FormulaComponent
	for rows.Next() {
		var c entity.FormulaComponent
		if err := rows.Scan(&c.ID, &c.ParentProductID, &c.ComponentProductID, &c.QuantityPerUnit, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan formula component: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
