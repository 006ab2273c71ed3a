package formula

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// UseCase administra el grafo de fórmulas (BOM): aristas padre→componente con
// cantidad por unidad. Garantiza que el grafo nunca contenga ciclos.
type UseCase struct {
	txRunner    TxRunner
	formulaRepo repository.FormulaRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso de fórmulas.
func NewUseCase(txRunner TxRunner, formulaRepo repository.FormulaRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{txRunner: txRunner, formulaRepo: formulaRepo, productRepo: productRepo}
}

// AddComponent agrega una arista a la fórmula del padre. Rechaza
// autorreferencias, aristas duplicadas, padres de categoría insumo y
// cualquier arista que complete un ciclo. Verificación e inserción van en la
// misma transacción.
func (uc *UseCase) AddComponent(ctx context.Context, parentID, componentID string, quantityPerUnit decimal.Decimal) (*entity.FormulaComponent, error) {
	if parentID == "" || componentID == "" || !quantityPerUnit.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if parentID == componentID {
		return nil, domain.ErrSelfReference
	}

	edge := &entity.FormulaComponent{
		ID:                 uuid.New().String(),
		ParentProductID:    parentID,
		ComponentProductID: componentID,
		QuantityPerUnit:    quantityPerUnit,
		CreatedAt:          time.Now(),
	}

	err := uc.txRunner.RunFormula(ctx, func(
		formulaRepo repository.FormulaRepository,
		productRepo repository.ProductRepository,
	) error {
		parent, err := productRepo.GetByID(parentID)
		if err != nil {
			return err
		}
		component, err := productRepo.GetByID(componentID)
		if err != nil {
			return err
		}
		if parent == nil || component == nil {
			return domain.ErrNotFound
		}
		// Un insumo no se fabrica: no puede tener fórmula.
		if parent.Category == entity.CategoryRawMaterial {
			return domain.ErrInvalidInput
		}

		exists, err := formulaRepo.Has(parentID, componentID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrComponentExists
		}

		cycles, err := wouldCycle(formulaRepo, parentID, componentID)
		if err != nil {
			return err
		}
		if cycles {
			return domain.ErrCircularDependency
		}
		return formulaRepo.Add(edge)
	})
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// wouldCycle reporta si agregar la arista parent→component cerraría un ciclo,
// es decir, si parent ya es alcanzable descendiendo desde component.
// Recorrido completo con conjunto de visitados, sin tope de profundidad.
func wouldCycle(formulaRepo repository.FormulaRepository, parentID, componentID string) (bool, error) {
	visited := map[string]bool{componentID: true}
	queue := []string{componentID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := formulaRepo.Components(current)
		if err != nil {
			return false, err
		}
		for _, child := range children {
			if child.ComponentProductID == parentID {
				return true, nil
			}
			if !visited[child.ComponentProductID] {
				visited[child.ComponentProductID] = true
				queue = append(queue, child.ComponentProductID)
			}
		}
	}
	return false, nil
}

// Components devuelve los componentes directos del padre (un solo nivel:
// una producción no expande subfórmulas anidadas).
func (uc *UseCase) Components(ctx context.Context, parentID string) ([]*entity.FormulaComponent, error) {
	if parentID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.formulaRepo.Components(parentID)
}

// UsedIn lista las fórmulas donde el producto participa como componente
// (lo consume el guardián de borrado del catálogo, externo a este núcleo).
func (uc *UseCase) UsedIn(ctx context.Context, componentID string) ([]*entity.FormulaComponent, error) {
	if componentID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.formulaRepo.UsedIn(componentID)
}

// RemoveComponent elimina una arista directa. Incondicional: la validación de
// dependencias aguas abajo es responsabilidad de otros componentes.
func (uc *UseCase) RemoveComponent(ctx context.Context, parentID, componentID string) error {
	if parentID == "" || componentID == "" {
		return domain.ErrInvalidInput
	}
	return uc.formulaRepo.Remove(parentID, componentID)
}

// RemoveAll elimina toda la fórmula de un producto. Incondicional.
func (uc *UseCase) RemoveAll(ctx context.Context, parentID string) error {
	if parentID == "" {
		return domain.ErrInvalidInput
	}
	return uc.formulaRepo.RemoveAll(parentID)
}
