package repository

import "github.com/tu-usuario/manufactura-api/internal/domain/entity"

// AuditRepository define el puerto de persistencia de la auditoría.
// Las filas son inmutables salvo IsFlag; se eliminan solo junto a una
// reversión o purga administrativa.
type AuditRepository interface {
	Create(log *entity.AuditLogEntry) error
	GetByID(id string) (*entity.AuditLogEntry, error)
	SetFlag(id string, flag bool) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.AuditLogEntry, error)
	ListByEntry(entryID string) ([]*entity.AuditLogEntry, error)
}
