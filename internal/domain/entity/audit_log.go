package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en la auditoría.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditLogEntry registra una mutación del libro con snapshots antes/después.
// create lleva solo NewData, delete solo OldData, update ambos.
// Inmutable salvo IsFlag (marcador de revisión humana).
type AuditLogEntry struct {
	ID        string          `json:"id"`
	EntryID   string          `json:"entry_id"`
	Action    string          `json:"action"`
	OldData   json.RawMessage `json:"old_data,omitempty"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	UserID    string          `json:"user_id"`
	Reason    string          `json:"reason,omitempty"`
	IsFlag    bool            `json:"is_flag"`
	CreatedAt time.Time       `json:"created_at"`
}
