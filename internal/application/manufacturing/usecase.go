package manufacturing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// UseCase es el motor de expansión de producciones: convierte un evento de
// fabricación en 1 fila manufacturing_in del padre + N filas manufacturing_out
// de componentes, todas correlacionadas y persistidas atómicamente.
type UseCase struct {
	txRunner     TxRunner
	ledgerUC     *ledger.UseCase
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	formulaRepo  repository.FormulaRepository // lectura fuera de transacción
	notifier     ledger.StockChangeNotifier   // opcional
}

// NewUseCase construye el motor de producción.
func NewUseCase(
	txRunner TxRunner,
	ledgerUC *ledger.UseCase,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	formulaRepo repository.FormulaRepository,
	notifier ledger.StockChangeNotifier,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledgerUC:     ledgerUC,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		formulaRepo:  formulaRepo,
		notifier:     notifier,
	}
}

// ProductionInput entrada para registrar una producción.
type ProductionInput struct {
	ParentProductID string
	Quantity        decimal.Decimal // unidades producidas (> 0)
	LocationID      string
	UserID          string
	Notes           string
	ReferenceID     string // opcional; por defecto el id de la fila padre
}

// ProductionResult filas creadas por la producción.
type ProductionResult struct {
	ParentEntry      *entity.LedgerEntry
	ComponentEntries []*entity.LedgerEntry
}

// RegisterProduction ejecuta la máquina de estados de una producción:
// resolver fórmula → pre-validar componentes bajo bloqueo → commit atómico de
// todas las filas con su auditoría → notificar alertas post-commit.
// Sin fórmula, degrada a un create simple de una sola fila.
func (uc *UseCase) RegisterProduction(ctx context.Context, in ProductionInput) (*ProductionResult, error) {
	if in.ParentProductID == "" || in.LocationID == "" || in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	parent, err := uc.productRepo.GetByID(in.ParentProductID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}

	var result ProductionResult
	err = uc.txRunner.RunManufacturing(ctx, func(
		entryRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
		formulaRepo repository.FormulaRepository,
		_ repository.ProductRepository,
	) error {
		components, err := formulaRepo.Components(in.ParentProductID)
		if err != nil {
			return err
		}
		return uc.expand(entryRepo, auditRepo, components, in, &result)
	})
	if err != nil {
		return nil, err
	}

	affected := []string{in.ParentProductID}
	for _, ce := range result.ComponentEntries {
		affected = append(affected, ce.ProductID)
	}
	uc.notify(affected...)
	return &result, nil
}

// expand hace la pre-validación y las inserciones dentro de la transacción.
func (uc *UseCase) expand(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	components []*entity.FormulaComponent,
	in ProductionInput,
	result *ProductionResult,
) error {
	// Bloquear agregados en orden determinista para no cruzar bloqueos entre
	// producciones concurrentes.
	sort.Slice(components, func(i, j int) bool {
		return components[i].ComponentProductID < components[j].ComponentProductID
	})

	// Pre-validar: todo componente corto aborta antes de escribir nada.
	required := make([]decimal.Decimal, len(components))
	for i, c := range components {
		required[i] = c.QuantityPerUnit.Mul(in.Quantity)
		available, err := entryRepo.BalanceForUpdate(c.ComponentProductID, in.LocationID)
		if err != nil {
			return err
		}
		if available.Sub(required[i]).IsNegative() {
			return &domain.InsufficientComponentError{
				ComponentID: c.ComponentProductID,
				Required:    required[i],
				Available:   available,
			}
		}
	}

	// Fila padre: entrada de producto terminado.
	parentEntry := &entity.LedgerEntry{
		ID:         uuid.New().String(),
		ProductID:  in.ParentProductID,
		LocationID: in.LocationID,
		UserID:     in.UserID,
		Quantity:   in.Quantity,
		EntryType:  entity.EntryTypeManufacturingIn,
		Notes:      in.Notes,
		CreatedAt:  time.Now(),
	}
	parentEntry.ReferenceID = in.ReferenceID
	if parentEntry.ReferenceID == "" {
		parentEntry.ReferenceID = parentEntry.ID
	}
	if err := uc.ledgerUC.CreateInTx(entryRepo, auditRepo, parentEntry, "producción registrada"); err != nil {
		return err
	}
	result.ParentEntry = parentEntry

	// Una fila manufacturing_out por componente, correlacionada con el padre.
	for i, c := range components {
		componentEntry := &entity.LedgerEntry{
			ID:          uuid.New().String(),
			ProductID:   c.ComponentProductID,
			LocationID:  in.LocationID,
			UserID:      in.UserID,
			Quantity:    required[i].Neg(),
			EntryType:   entity.EntryTypeManufacturingOut,
			ReferenceID: parentEntry.ID,
			CreatedAt:   time.Now(),
		}
		if err := uc.ledgerUC.CreateInTx(entryRepo, auditRepo, componentEntry, "descuento automático de componente"); err != nil {
			return err
		}
		result.ComponentEntries = append(result.ComponentEntries, componentEntry)
	}
	return nil
}

func (uc *UseCase) notify(productIDs ...string) {
	if uc.notifier != nil {
		uc.notifier.NotifyStockChange(productIDs...)
	}
}
