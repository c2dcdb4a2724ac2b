package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cocinaops/CocinaOps-api/internal/application/approval"
	"github.com/cocinaops/CocinaOps-api/internal/application/dto"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// ApprovalHandler maneja el flujo de aprobación: someter, listar, revisar
// (protegido).
type ApprovalHandler struct {
	uc *approval.ApprovalUseCase
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(uc *approval.ApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

func approvalToDTO(r *entity.ApprovalRequest) dto.ApprovalResponse {
	out := dto.ApprovalResponse{
		ID:          r.ID,
		BranchID:    r.BranchID,
		SubmittedBy: r.SubmittedBy,
		TargetType:  r.TargetType,
		TargetID:    r.TargetID,
		Action:      r.Action,
		Reason:      r.Reason,
		Status:      r.Status,
		ReviewedBy:  r.ReviewedBy,
		ReviewedAt:  r.ReviewedAt,
		CreatedAt:   r.CreatedAt,
	}
	if c := r.Payload.InventoryBatch; c != nil {
		out.BatchChanges = &dto.BatchChangesDTO{
			Quantity:  c.Quantity,
			UnitCost:  c.UnitCost,
			ExpiresAt: c.ExpiresAt,
			Category:  c.Category,
		}
	}
	if c := r.Payload.WasteLog; c != nil {
		out.WasteChanges = &dto.WasteChangesDTO{
			Reason:      c.Reason,
			Severity:    c.Severity,
			Preventable: c.Preventable,
		}
	}
	return out
}

// Submit godoc
// @Summary      Someter solicitud de aprobación
// @Description  Crea una solicitud PENDING con el snapshot de cambios. Solo
//
//	el rol empleado somete; la entidad objetivo no se toca hasta
//	la aprobación.
//
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitApprovalRequest  true  "target_type, target_id, action, cambios"
// @Success      201   {object}  dto.ApprovalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/approvals [post]
func (h *ApprovalHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payload := entity.ApprovalPayload{}
	if in.BatchChanges != nil {
		payload.InventoryBatch = &entity.InventoryBatchChanges{
			Quantity:  in.BatchChanges.Quantity,
			UnitCost:  in.BatchChanges.UnitCost,
			ExpiresAt: in.BatchChanges.ExpiresAt,
			Category:  in.BatchChanges.Category,
		}
	}
	if in.WasteChanges != nil {
		payload.WasteLog = &entity.WasteLogChanges{
			Reason:      in.WasteChanges.Reason,
			Severity:    in.WasteChanges.Severity,
			Preventable: in.WasteChanges.Preventable,
		}
	}
	request, err := h.uc.Submit(c.Context(), GetTenantContext(c), approval.SubmitInput{
		BranchID:   in.BranchID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Action:     in.Action,
		Payload:    payload,
		Reason:     in.Reason,
	})
	if err != nil {
		if err == domain.ErrInvalidInput || err == domain.ErrInvalidQuantity {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la entidad objetivo no existe"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el rol empleado somete solicitudes"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(approvalToDTO(request))
}

// List godoc
// @Summary      Listar solicitudes de aprobación
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vacío = la del token)"
// @Param        status     query  string  false  "PENDING | APPROVED | REJECTED"
// @Success      200  {array}  dto.ApprovalResponse
// @Router       /api/approvals [get]
func (h *ApprovalHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), GetTenantContext(c), c.Query("branch_id"), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ApprovalResponse, 0, len(list))
	for _, r := range list {
		out = append(out, approvalToDTO(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ApprovalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/approvals/{id} [get]
func (h *ApprovalHandler) GetByID(c *fiber.Ctx) error {
	request, err := h.uc.Get(c.Context(), GetTenantContext(c), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(approvalToDTO(request))
}

// Review godoc
// @Summary      Revisar solicitud (aprobar o rechazar)
// @Description  APPROVED aplica el snapshot en la misma transacción que la
//
//	transición de estado. Una solicitud ya resuelta devuelve 409
//	y nunca se re-aplica.
//
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la solicitud"
// @Param        body  body  dto.ReviewApprovalRequest  true  "decision: APPROVED | REJECTED"
// @Success      200   {object}  dto.ApprovalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/review [post]
func (h *ApprovalHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.uc.Review(c.Context(), GetTenantContext(c), c.Params("id"), in.Decision)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "decision debe ser APPROVED o REJECTED"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud o entidad objetivo no encontrada"})
		}
		if err == domain.ErrInvalidStateTransition {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_RESOLVED", Message: "la solicitud ya fue resuelta"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso de revisión"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(approvalToDTO(request))
}
