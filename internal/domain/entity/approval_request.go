package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
)

// Estados de una solicitud de aprobación. PENDING es el único estado no
// terminal; una solicitud resuelta es inmutable.
const (
	ApprovalStatusPending  = "PENDING"
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
)

// Entidades objetivo y acciones permitidas en una solicitud.
const (
	ApprovalTargetInventoryItem = "INVENTORY_ITEM"
	ApprovalTargetWasteLog      = "WASTE_LOG"

	ApprovalActionUpdate = "UPDATE"
	ApprovalActionDelete = "DELETE"
)

// InventoryBatchChanges son los campos editables de un lote vía aprobación.
// Punteros nil = campo sin cambio.
type InventoryBatchChanges struct {
	Quantity  *decimal.Decimal
	UnitCost  *decimal.Decimal
	ExpiresAt *time.Time
	Category  *string
}

// Empty indica si no propone ningún cambio.
func (c *InventoryBatchChanges) Empty() bool {
	return c == nil || (c.Quantity == nil && c.UnitCost == nil && c.ExpiresAt == nil && c.Category == nil)
}

// WasteLogChanges son los campos editables de un desperdicio vía aprobación.
// El costo nunca es editable: siempre lo calcula el motor de valuación.
type WasteLogChanges struct {
	Reason      *string
	Severity    *string
	Preventable *bool
}

// Empty indica si no propone ningún cambio.
func (c *WasteLogChanges) Empty() bool {
	return c == nil || (c.Reason == nil && c.Severity == nil && c.Preventable == nil)
}

// ApprovalPayload es la unión etiquetada de cambios propuestos, discriminada
// por el tipo de entidad objetivo. Solo la variante del objetivo puede venir
// poblada; se valida al someter la solicitud, no al aplicarla.
type ApprovalPayload struct {
	InventoryBatch *InventoryBatchChanges
	WasteLog       *WasteLogChanges
}

// ApprovalRequest es una solicitud de mutación/borrado sometida por un rol
// sin privilegio de mutación directa, pendiente de revisión.
type ApprovalRequest struct {
	ID          string
	TenantID    string
	BranchID    string
	SubmittedBy string
	TargetType  string // INVENTORY_ITEM | WASTE_LOG
	TargetID    string
	Action      string // UPDATE | DELETE
	Payload     ApprovalPayload
	Reason      string
	Status      string // PENDING | APPROVED | REJECTED
	ReviewedBy  string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
}

// ValidatePayload verifica la coherencia unión-objetivo-acción al someter:
// UPDATE exige la variante del objetivo con al menos un cambio y ninguna otra;
// DELETE no lleva payload.
func (r *ApprovalRequest) ValidatePayload() error {
	switch r.Action {
	case ApprovalActionDelete:
		if r.Payload.InventoryBatch != nil || r.Payload.WasteLog != nil {
			return domain.ErrInvalidInput
		}
		return nil
	case ApprovalActionUpdate:
		switch r.TargetType {
		case ApprovalTargetInventoryItem:
			if r.Payload.InventoryBatch.Empty() || r.Payload.WasteLog != nil {
				return domain.ErrInvalidInput
			}
		case ApprovalTargetWasteLog:
			if r.Payload.WasteLog.Empty() || r.Payload.InventoryBatch != nil {
				return domain.ErrInvalidInput
			}
		default:
			return domain.ErrInvalidInput
		}
		return nil
	default:
		return domain.ErrInvalidInput
	}
}

// Resolved indica si la solicitud ya llegó a un estado terminal.
func (r *ApprovalRequest) Resolved() bool {
	return r.Status == ApprovalStatusApproved || r.Status == ApprovalStatusRejected
}
