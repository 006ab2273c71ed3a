package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL (usable con pool o tx).
// entry_id no es foreign key: un registro de acción delete debe sobrevivir a
// la fila del libro que describe.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste un registro de auditoría.
func (r *AuditRepo) Create(log *entity.AuditLogEntry) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_log (id, entry_id, action, old_data, new_data, user_id, reason, is_flag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.EntryID, log.Action, log.OldData, log.NewData,
		log.UserID, log.Reason, log.IsFlag, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID (nil si no existe).
func (r *AuditRepo) GetByID(id string) (*entity.AuditLogEntry, error) {
	query := `
		SELECT id, entry_id, action, old_data, new_data, user_id, reason, is_flag, created_at
		FROM audit_log WHERE id = $1`
	var a entity.AuditLogEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.EntryID, &a.Action, &a.OldData, &a.NewData,
		&a.UserID, &a.Reason, &a.IsFlag, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit log: %w", err)
	}
	return &a, nil
}

// SetFlag actualiza el marcador de revisión (único campo mutable).
func (r *AuditRepo) SetFlag(id string, flag bool) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE audit_log SET is_flag = $2 WHERE id = $1`, id, flag)
	if err != nil {
		return fmt.Errorf("set audit flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set audit flag %s: fila inexistente", id)
	}
	return nil
}

// Delete elimina un registro (solo junto a una reversión o purga).
func (r *AuditRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM audit_log WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete audit log: %w", err)
	}
	return nil
}

// List pagina la auditoría, más reciente primero.
func (r *AuditRepo) List(limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, entry_id, action, old_data, new_data, user_id, reason, is_flag, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByEntry devuelve el historial de un movimiento, en orden cronológico.
func (r *AuditRepo) ListByEntry(entryID string) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, entry_id, action, old_data, new_data, user_id, reason, is_flag, created_at
		FROM audit_log WHERE entry_id = $1 ORDER BY created_at ASC`
	return r.list(query, entryID)
}

func (r *AuditRepo) list(query string, args ...any) ([]*entity.AuditLogEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLogEntry
	for rows.Next() {
		var a entity.AuditLogEntry
		if err := rows.Scan(&a.ID, &a.EntryID, &a.Action, &a.OldData, &a.NewData,
			&a.UserID, &a.Reason, &a.IsFlag, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
