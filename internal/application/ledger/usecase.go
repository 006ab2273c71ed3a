package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// UseCase implementa el libro de movimientos: create/update/delete con
// verificación de saldo no-negativo bajo bloqueo, espejo de auditoría en la
// misma transacción y saldo siempre derivado (nunca materializado).
type UseCase struct {
	txRunner     TxRunner
	ledgerRepo   repository.LedgerRepository // lecturas fuera de transacción
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	notifier     StockChangeNotifier // opcional
}

// NewUseCase construye el caso de uso del libro.
func NewUseCase(
	txRunner TxRunner,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	notifier StockChangeNotifier,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledgerRepo:   ledgerRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		notifier:     notifier,
	}
}

// CreateEntryInput entrada para registrar un movimiento. Quantity siempre
// positiva: el mapeo tipo→signo se aplica internamente.
type CreateEntryInput struct {
	ProductID   string
	LocationID  string
	UserID      string
	EntryType   string
	Quantity    decimal.Decimal
	ReferenceID string
	Notes       string
	Reason      string // motivo para la auditoría (opcional)
}

// UpdateEntryPatch parche parcial: solo cantidad, tipo, ubicación y notas son
// mutables; id, producto y fecha de creación no.
type UpdateEntryPatch struct {
	Quantity   *decimal.Decimal
	EntryType  *string
	LocationID *string
	Notes      *string
}

// Create valida, verifica el saldo bajo bloqueo cuando el efecto neto es una
// reducción, e inserta fila + registro de auditoría en una transacción.
func (uc *UseCase) Create(ctx context.Context, in CreateEntryInput) (*entity.LedgerEntry, error) {
	if in.ProductID == "" || in.LocationID == "" || in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidEntryType(in.EntryType) || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}

	entry := NewEntry(in)

	err = uc.txRunner.Run(ctx, func(
		entryRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
	) error {
		return uc.CreateInTx(entryRepo, auditRepo, entry, in.Reason)
	})
	if err != nil {
		return nil, err
	}
	uc.notify(entry.ProductID)
	return entry, nil
}

// NewEntry arma la fila a partir de la entrada, aplicando el mapeo tipo→signo
// (manufacturing_out se almacena negada).
func NewEntry(in CreateEntryInput) *entity.LedgerEntry {
	qty := in.Quantity
	if in.EntryType == entity.EntryTypeManufacturingOut {
		qty = qty.Neg()
	}
	return &entity.LedgerEntry{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		UserID:      in.UserID,
		Quantity:    qty,
		EntryType:   in.EntryType,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
	}
}

// CreateInTx inserta un movimiento usando los repositorios de la transacción
// del caller (mismo patrón que usa el motor de producción y la reversión).
// Verifica el saldo bajo bloqueo solo cuando el efecto neto es negativo.
func (uc *UseCase) CreateInTx(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	entry *entity.LedgerEntry,
	reason string,
) error {
	delta := entry.SignedQuantity()
	if delta.IsNegative() {
		balance, err := entryRepo.BalanceForUpdate(entry.ProductID, entry.LocationID)
		if err != nil {
			return err
		}
		resulting := balance.Add(delta)
		if resulting.IsNegative() {
			return &domain.NegativeInventoryError{
				ProductID:  entry.ProductID,
				LocationID: entry.LocationID,
				Balance:    balance,
				Resulting:  resulting,
			}
		}
	}
	if err := entryRepo.Create(entry); err != nil {
		return err
	}
	snap, err := entry.Snapshot()
	if err != nil {
		return err
	}
	return auditRepo.Create(&entity.AuditLogEntry{
		ID:        uuid.New().String(),
		EntryID:   entry.ID,
		Action:    entity.AuditActionCreate,
		NewData:   snap,
		UserID:    entry.UserID,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
}

// Update aplica un parche parcial. Si el cambio vuelve el efecto neto más
// negativo, re-valida el saldo excluyendo la fila que se modifica. Un cambio
// de ubicación valida ambos agregados (origen y destino).
func (uc *UseCase) Update(ctx context.Context, id string, patch UpdateEntryPatch, userID, reason string) (*entity.LedgerEntry, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	var updated *entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(
		entryRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		updated, err = uc.UpdateInTx(entryRepo, auditRepo, id, patch, userID, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notify(updated.ProductID)
	return updated, nil
}

func validatePatch(patch UpdateEntryPatch) error {
	if patch.Quantity == nil && patch.EntryType == nil && patch.LocationID == nil && patch.Notes == nil {
		return domain.ErrInvalidInput
	}
	if patch.Quantity != nil && !patch.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if patch.EntryType != nil && !entity.ValidEntryType(*patch.EntryType) {
		return domain.ErrInvalidInput
	}
	if patch.LocationID != nil && *patch.LocationID == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// UpdateInTx versión del update que opera sobre los repos de una transacción
// existente (la usa la reversión de auditoría).
func (uc *UseCase) UpdateInTx(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	id string,
	patch UpdateEntryPatch,
	userID, reason string,
) (*entity.LedgerEntry, error) {
	existing, err := entryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	oldSnap, err := existing.Snapshot()
	if err != nil {
		return nil, err
	}

	updated := *existing
	if patch.EntryType != nil {
		updated.EntryType = *patch.EntryType
	}
	if patch.LocationID != nil {
		updated.LocationID = *patch.LocationID
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	// Normalizar el signo almacenado según el tipo resultante: la magnitud
	// viene del parche o de la fila actual.
	magnitude := existing.Quantity.Abs()
	if patch.Quantity != nil {
		magnitude = *patch.Quantity
	}
	if updated.EntryType == entity.EntryTypeManufacturingOut {
		updated.Quantity = magnitude.Neg()
	} else {
		updated.Quantity = magnitude
	}

	oldSigned := existing.SignedQuantity()
	newSigned := updated.SignedQuantity()

	if updated.LocationID == existing.LocationID {
		// Re-validar solo cuando el efecto neto se vuelve más negativo.
		if newSigned.LessThan(oldSigned) {
			balance, err := entryRepo.BalanceForUpdate(existing.ProductID, existing.LocationID)
			if err != nil {
				return nil, err
			}
			// Saldo excluyendo la fila que cambia.
			excluded := balance.Sub(oldSigned)
			resulting := excluded.Add(newSigned)
			if resulting.IsNegative() {
				return nil, &domain.NegativeInventoryError{
					ProductID:  existing.ProductID,
					LocationID: existing.LocationID,
					Balance:    excluded,
					Resulting:  resulting,
				}
			}
		}
	} else {
		// Mover de ubicación: quitar el aporte en origen y sumarlo en destino.
		if oldSigned.IsPositive() {
			balance, err := entryRepo.BalanceForUpdate(existing.ProductID, existing.LocationID)
			if err != nil {
				return nil, err
			}
			excluded := balance.Sub(oldSigned)
			if excluded.IsNegative() {
				return nil, &domain.NegativeInventoryError{
					ProductID:  existing.ProductID,
					LocationID: existing.LocationID,
					Balance:    excluded,
					Resulting:  excluded,
				}
			}
		}
		if newSigned.IsNegative() {
			balance, err := entryRepo.BalanceForUpdate(existing.ProductID, updated.LocationID)
			if err != nil {
				return nil, err
			}
			resulting := balance.Add(newSigned)
			if resulting.IsNegative() {
				return nil, &domain.NegativeInventoryError{
					ProductID:  existing.ProductID,
					LocationID: updated.LocationID,
					Balance:    balance,
					Resulting:  resulting,
				}
			}
		}
	}

	if err := entryRepo.Update(&updated); err != nil {
		return nil, err
	}
	newSnap, err := updated.Snapshot()
	if err != nil {
		return nil, err
	}
	err = auditRepo.Create(&entity.AuditLogEntry{
		ID:        uuid.New().String(),
		EntryID:   updated.ID,
		Action:    entity.AuditActionUpdate,
		OldData:   oldSnap,
		NewData:   newSnap,
		UserID:    userID,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete elimina un movimiento. Si la fila aporta un aumento neto, re-valida
// el saldo excluyéndola (quitarla podría dejar otras salidas en negativo);
// si aporta una reducción, la eliminación siempre es segura.
func (uc *UseCase) Delete(ctx context.Context, id, userID, reason string) error {
	var deleted *entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(
		entryRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		deleted, err = uc.DeleteInTx(entryRepo, auditRepo, id, userID, reason)
		return err
	})
	if err != nil {
		return err
	}
	uc.notify(deleted.ProductID)
	return nil
}

// DeleteInTx versión del delete sobre los repos de una transacción existente.
func (uc *UseCase) DeleteInTx(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	id, userID, reason string,
) (*entity.LedgerEntry, error) {
	existing, err := entryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	signed := existing.SignedQuantity()
	if signed.IsPositive() {
		balance, err := entryRepo.BalanceForUpdate(existing.ProductID, existing.LocationID)
		if err != nil {
			return nil, err
		}
		resulting := balance.Sub(signed)
		if resulting.IsNegative() {
			return nil, &domain.NegativeInventoryError{
				ProductID:  existing.ProductID,
				LocationID: existing.LocationID,
				Balance:    balance,
				Resulting:  resulting,
			}
		}
	}
	oldSnap, err := existing.Snapshot()
	if err != nil {
		return nil, err
	}
	if err := entryRepo.Delete(id); err != nil {
		return nil, err
	}
	err = auditRepo.Create(&entity.AuditLogEntry{
		ID:        uuid.New().String(),
		EntryID:   existing.ID,
		Action:    entity.AuditActionDelete,
		OldData:   oldSnap,
		UserID:    userID,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// Balance devuelve el saldo derivado de un producto (locationID vacío = global).
func (uc *UseCase) Balance(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	if productID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return uc.ledgerRepo.Balance(productID, locationID)
}

// Balances lista los saldos por producto, opcionalmente por ubicación.
func (uc *UseCase) Balances(ctx context.Context, locationID string) ([]repository.ProductBalance, error) {
	return uc.ledgerRepo.Balances(locationID)
}

// GetByID devuelve un movimiento o ErrNotFound.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	e, err := uc.ledgerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// ListByProduct lista los movimientos de un producto en un rango de fechas.
func (uc *UseCase) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByProduct(productID, from, to, limit, offset)
}

// ListByReference devuelve las filas correlacionadas de un evento.
func (uc *UseCase) ListByReference(ctx context.Context, referenceID string) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByReference(referenceID)
}

func (uc *UseCase) notify(productIDs ...string) {
	if uc.notifier != nil {
		uc.notifier.NotifyStockChange(productIDs...)
	}
}
