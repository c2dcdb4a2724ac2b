package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchChangesDTO cambios propuestos sobre un lote. Punteros nil = sin cambio.
type BatchChangesDTO struct {
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Category  *string          `json:"category,omitempty"`
}

// WasteChangesDTO cambios propuestos sobre un registro de desperdicio.
type WasteChangesDTO struct {
	Reason      *string `json:"reason,omitempty"`
	Severity    *string `json:"severity,omitempty"`
	Preventable *bool   `json:"preventable,omitempty"`
}

// SubmitApprovalRequest body para POST /api/approvals. El payload es una
// unión discriminada por target_type: solo la variante correspondiente
// puede venir poblada.
type SubmitApprovalRequest struct {
	BranchID     string           `json:"branch_id,omitempty"`
	TargetType   string           `json:"target_type"` // INVENTORY_ITEM | WASTE_LOG
	TargetID     string           `json:"target_id"`
	Action       string           `json:"action"` // UPDATE | DELETE
	BatchChanges *BatchChangesDTO `json:"batch_changes,omitempty"`
	WasteChanges *WasteChangesDTO `json:"waste_changes,omitempty"`
	Reason       string           `json:"reason,omitempty"`
}

// ReviewApprovalRequest body para POST /api/approvals/:id/review.
type ReviewApprovalRequest struct {
	Decision string `json:"decision"` // APPROVED | REJECTED
}

// ApprovalResponse una solicitud de aprobación.
type ApprovalResponse struct {
	ID           string           `json:"id"`
	BranchID     string           `json:"branch_id"`
	SubmittedBy  string           `json:"submitted_by"`
	TargetType   string           `json:"target_type"`
	TargetID     string           `json:"target_id"`
	Action       string           `json:"action"`
	BatchChanges *BatchChangesDTO `json:"batch_changes,omitempty"`
	WasteChanges *WasteChangesDTO `json:"waste_changes,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	Status       string           `json:"status"`
	ReviewedBy   string           `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
