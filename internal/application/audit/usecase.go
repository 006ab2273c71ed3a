package audit

import (
	"context"

	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// UseCase administra el rastro de auditoría. Los registros los crea el espejo
// del libro (misma transacción que cada mutación); aquí viven la consulta, el
// marcador de revisión y la eliminación con reversión compensatoria.
type UseCase struct {
	txRunner  ledger.TxRunner
	ledgerUC  *ledger.UseCase
	auditRepo repository.AuditRepository // lecturas y flag fuera de transacción
	notifier  ledger.StockChangeNotifier // opcional
}

// NewUseCase construye el caso de uso de auditoría.
func NewUseCase(txRunner ledger.TxRunner, ledgerUC *ledger.UseCase, auditRepo repository.AuditRepository, notifier ledger.StockChangeNotifier) *UseCase {
	return &UseCase{txRunner: txRunner, ledgerUC: ledgerUC, auditRepo: auditRepo, notifier: notifier}
}

// DeleteAndRevert elimina un registro de auditoría y, si revert es true,
// aplica primero el inverso de la acción original contra el libro:
// create→delete, update→parche con old_data, delete→re-inserción de old_data.
// Reversión y eliminación son una sola transacción: si el inverso falla, no
// se elimina nada y la falla se reporta como RevertError.
func (uc *UseCase) DeleteAndRevert(ctx context.Context, logID, userID string, revert bool, reason string) error {
	if logID == "" || userID == "" {
		return domain.ErrInvalidInput
	}
	var affectedProduct string
	err := uc.txRunner.Run(ctx, func(
		entryRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
		_ repository.ProductRepository,
	) error {
		logEntry, err := auditRepo.GetByID(logID)
		if err != nil {
			return err
		}
		if logEntry == nil {
			return domain.ErrNotFound
		}
		if revert {
			productID, err := uc.applyInverse(entryRepo, auditRepo, logEntry, userID, reason)
			if err != nil {
				return &domain.RevertError{LogID: logID, Err: err}
			}
			affectedProduct = productID
		}
		return auditRepo.Delete(logID)
	})
	if err != nil {
		return err
	}
	if affectedProduct != "" {
		uc.notify(affectedProduct)
	}
	return nil
}

// applyInverse replica el inverso de la acción original usando las mismas
// primitivas del libro, de modo que las validaciones normales (saldo
// no-negativo) apliquen también a la compensación y esta deje su propio
// rastro de auditoría.
func (uc *UseCase) applyInverse(
	entryRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
	logEntry *entity.AuditLogEntry,
	userID, reason string,
) (string, error) {
	if reason == "" {
		reason = "reversión de auditoría"
	}
	switch logEntry.Action {
	case entity.AuditActionCreate:
		// Inverso de create: eliminar la fila que creó.
		deleted, err := uc.ledgerUC.DeleteInTx(entryRepo, auditRepo, logEntry.EntryID, userID, reason)
		if err != nil {
			return "", err
		}
		return deleted.ProductID, nil

	case entity.AuditActionUpdate:
		// Inverso de update: volver a aplicar old_data como parche.
		old, err := entity.EntryFromSnapshot(logEntry.OldData)
		if err != nil {
			return "", err
		}
		magnitude := old.Quantity.Abs()
		patch := ledger.UpdateEntryPatch{
			Quantity:   &magnitude,
			EntryType:  &old.EntryType,
			LocationID: &old.LocationID,
			Notes:      &old.Notes,
		}
		updated, err := uc.ledgerUC.UpdateInTx(entryRepo, auditRepo, logEntry.EntryID, patch, userID, reason)
		if err != nil {
			return "", err
		}
		return updated.ProductID, nil

	case entity.AuditActionDelete:
		// Inverso de delete: re-insertar la fila desde old_data (id nuevo),
		// sujeto a la validación normal de create.
		old, err := entity.EntryFromSnapshot(logEntry.OldData)
		if err != nil {
			return "", err
		}
		restored := ledger.NewEntry(ledger.CreateEntryInput{
			ProductID:   old.ProductID,
			LocationID:  old.LocationID,
			UserID:      userID,
			EntryType:   old.EntryType,
			Quantity:    old.Quantity.Abs(),
			ReferenceID: old.ReferenceID,
			Notes:       old.Notes,
		})
		if err := uc.ledgerUC.CreateInTx(entryRepo, auditRepo, restored, reason); err != nil {
			return "", err
		}
		return restored.ProductID, nil
	}
	return "", domain.ErrInvalidInput
}

// Flag marca o desmarca un registro para revisión humana. Ortogonal a la
// reversión: nunca toca el libro.
func (uc *UseCase) Flag(ctx context.Context, logID string, flag bool) error {
	if logID == "" {
		return domain.ErrInvalidInput
	}
	logEntry, err := uc.auditRepo.GetByID(logID)
	if err != nil {
		return err
	}
	if logEntry == nil {
		return domain.ErrNotFound
	}
	return uc.auditRepo.SetFlag(logID, flag)
}

// GetByID devuelve un registro de auditoría o ErrNotFound.
func (uc *UseCase) GetByID(ctx context.Context, logID string) (*entity.AuditLogEntry, error) {
	logEntry, err := uc.auditRepo.GetByID(logID)
	if err != nil {
		return nil, err
	}
	if logEntry == nil {
		return nil, domain.ErrNotFound
	}
	return logEntry, nil
}

// List pagina el rastro de auditoría (más reciente primero).
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.AuditLogEntry, error) {
	return uc.auditRepo.List(limit, offset)
}

// ListByEntry devuelve el historial de auditoría de un movimiento.
func (uc *UseCase) ListByEntry(ctx context.Context, entryID string) ([]*entity.AuditLogEntry, error) {
	if entryID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.auditRepo.ListByEntry(entryID)
}

func (uc *UseCase) notify(productIDs ...string) {
	if uc.notifier != nil {
		uc.notifier.NotifyStockChange(productIDs...)
	}
}
