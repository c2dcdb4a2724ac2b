package approval

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// ApprovalUseCase es la máquina de estados que antepone revisión de un rol
// superior a las mutaciones/borrados de un empleado:
// PENDING → {APPROVED, REJECTED}, ambos terminales.
type ApprovalUseCase struct {
	txRunner     TxRunner
	approvalRepo repository.ApprovalRepository
	batchRepo    repository.BatchRepository
	wasteRepo    repository.WasteRepository
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(
	txRunner TxRunner,
	approvalRepo repository.ApprovalRepository,
	batchRepo repository.BatchRepository,
	wasteRepo repository.WasteRepository,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		txRunner:     txRunner,
		approvalRepo: approvalRepo,
		batchRepo:    batchRepo,
		wasteRepo:    wasteRepo,
	}
}

// SubmitInput entrada para someter una solicitud.
type SubmitInput struct {
	BranchID   string
	TargetType string // INVENTORY_ITEM | WASTE_LOG
	TargetID   string
	Action     string // UPDATE | DELETE
	Payload    entity.ApprovalPayload
	Reason     string
}

// Submit crea una solicitud PENDING sin tocar la entidad objetivo. Solo el
// rol empleado somete: los roles con mutación directa no pasan por aquí.
// El payload queda capturado como snapshot y se aplica tal cual al aprobar.
func (uc *ApprovalUseCase) Submit(ctx context.Context, scope entity.TenantContext, in SubmitInput) (*entity.ApprovalRequest, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if scope.Role != entity.RoleEmpleado {
		return nil, domain.ErrForbidden
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = scope.BranchID
	}
	if branchID == "" || in.TargetID == "" {
		return nil, domain.ErrInvalidInput
	}

	request := &entity.ApprovalRequest{
		ID:          uuid.New().String(),
		TenantID:    scope.TenantID,
		BranchID:    branchID,
		SubmittedBy: scope.UserID,
		TargetType:  in.TargetType,
		TargetID:    in.TargetID,
		Action:      in.Action,
		Payload:     in.Payload,
		Reason:      in.Reason,
		Status:      entity.ApprovalStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := request.ValidatePayload(); err != nil {
		return nil, err
	}
	if err := validateProposedValues(request.Payload); err != nil {
		return nil, err
	}
	// El objetivo debe existir en el tenant al someter; al revisar solo se
	// re-verifica existencia, nunca se re-valida el snapshot contra el
	// estado actual.
	if err := uc.targetExists(scope.TenantID, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}
	if err := uc.approvalRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// validateProposedValues valida los valores del snapshot en el momento de
// someter (no al aplicar): cantidades positivas, costos no negativos,
// severidad del catálogo.
func validateProposedValues(p entity.ApprovalPayload) error {
	if c := p.InventoryBatch; c != nil {
		if c.Quantity != nil && !c.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidQuantity
		}
		if c.UnitCost != nil && c.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	if c := p.WasteLog; c != nil && c.Severity != nil {
		switch *c.Severity {
		case entity.WasteSeverityLow, entity.WasteSeverityMedium, entity.WasteSeverityHigh:
		default:
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func (uc *ApprovalUseCase) targetExists(tenantID, targetType, targetID string) error {
	switch targetType {
	case entity.ApprovalTargetInventoryItem:
		_, err := uc.batchRepo.GetByID(tenantID, targetID)
		return err
	case entity.ApprovalTargetWasteLog:
		_, err := uc.wasteRepo.GetByID(tenantID, targetID)
		return err
	default:
		return domain.ErrInvalidInput
	}
}

// Review resuelve una solicitud PENDING. APPROVED aplica el snapshot a la
// entidad objetivo en la misma transacción que la transición de estado: si
// la aplicación falla (p. ej. el objetivo fue borrado mientras tanto), toda
// la revisión falla y la solicitud sigue PENDING, nunca queda aprobada en
// silencio. REJECTED solo cambia estado y revisor. Una solicitud resuelta
// devuelve ErrInvalidStateTransition y el payload jamás se re-aplica.
func (uc *ApprovalUseCase) Review(ctx context.Context, scope entity.TenantContext, requestID, decision string) (*entity.ApprovalRequest, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !scope.CanReview() {
		return nil, domain.ErrForbidden
	}
	if decision != entity.ApprovalStatusApproved && decision != entity.ApprovalStatusRejected {
		return nil, domain.ErrInvalidInput
	}

	var reviewed *entity.ApprovalRequest
	err := uc.txRunner.RunApproval(ctx, func(
		approvalRepo repository.ApprovalRepository,
		batchRepo repository.BatchRepository,
		wasteRepo repository.WasteRepository,
	) error {
		request, err := approvalRepo.GetByIDForUpdate(scope.TenantID, requestID)
		if err != nil {
			return err
		}
		if request.Resolved() {
			return domain.ErrInvalidStateTransition
		}
		if decision == entity.ApprovalStatusApproved {
			if err := applyPayload(batchRepo, wasteRepo, request); err != nil {
				return err
			}
		}
		now := time.Now()
		request.Status = decision
		request.ReviewedBy = scope.UserID
		request.ReviewedAt = &now
		if err := approvalRepo.UpdateStatus(request); err != nil {
			return err
		}
		reviewed = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// applyPayload aplica el snapshot aprobado sobre la entidad objetivo, dentro
// de la transacción de la revisión.
func applyPayload(batchRepo repository.BatchRepository, wasteRepo repository.WasteRepository, request *entity.ApprovalRequest) error {
	switch request.TargetType {
	case entity.ApprovalTargetInventoryItem:
		if request.Action == entity.ApprovalActionDelete {
			return batchRepo.Delete(request.TenantID, request.TargetID)
		}
		batch, err := batchRepo.GetByID(request.TenantID, request.TargetID)
		if err != nil {
			return err
		}
		c := request.Payload.InventoryBatch
		if c.Quantity != nil {
			batch.Quantity = *c.Quantity
		}
		if c.UnitCost != nil {
			batch.UnitCost = *c.UnitCost
		}
		if c.ExpiresAt != nil {
			batch.ExpiresAt = *c.ExpiresAt
		}
		if c.Category != nil {
			batch.Category = *c.Category
		}
		return batchRepo.Update(batch)
	case entity.ApprovalTargetWasteLog:
		if request.Action == entity.ApprovalActionDelete {
			// Borrar el registro no repone stock: la deducción del evento
			// original es histórica.
			return wasteRepo.Delete(request.TenantID, request.TargetID)
		}
		event, err := wasteRepo.GetByID(request.TenantID, request.TargetID)
		if err != nil {
			return err
		}
		c := request.Payload.WasteLog
		if c.Reason != nil {
			event.Reason = *c.Reason
		}
		if c.Severity != nil {
			event.Severity = *c.Severity
		}
		if c.Preventable != nil {
			event.Preventable = *c.Preventable
		}
		return wasteRepo.Update(event)
	default:
		return domain.ErrInvalidInput
	}
}

// List lista solicitudes del tenant filtradas por sucursal y estado.
func (uc *ApprovalUseCase) List(ctx context.Context, scope entity.TenantContext, branchID, status string, limit, offset int) ([]*entity.ApprovalRequest, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}
	return uc.approvalRepo.List(scope.TenantID, branchID, status, limit, offset)
}

// Get devuelve una solicitud del tenant.
func (uc *ApprovalUseCase) Get(ctx context.Context, scope entity.TenantContext, requestID string) (*entity.ApprovalRequest, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return uc.approvalRepo.GetByID(scope.TenantID, requestID)
}
