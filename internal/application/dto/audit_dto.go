package dto

// DeleteAuditRequest body para DELETE /api/audit/:id.
type DeleteAuditRequest struct {
	Revert bool   `json:"revert"`
	Reason string `json:"reason,omitempty"`
}

// FlagAuditRequest body para PATCH /api/audit/:id/flag.
type FlagAuditRequest struct {
	IsFlag bool `json:"is_flag"`
}
