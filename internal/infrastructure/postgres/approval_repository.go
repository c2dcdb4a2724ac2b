package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo implementación de ApprovalRepository sobre PostgreSQL.
// El payload (unión etiquetada de cambios) se guarda como JSONB.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador de solicitudes de aprobación.
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

type approvalPayloadRow struct {
	InventoryBatch *entity.InventoryBatchChanges `json:"inventory_batch,omitempty"`
	WasteLog       *entity.WasteLogChanges       `json:"waste_log,omitempty"`
}

const approvalColumns = `id, tenant_id, branch_id, submitted_by, target_type, target_id,
	action, payload, reason, status, reviewed_by, reviewed_at, created_at`

func scanApproval(row pgx.Row) (*entity.ApprovalRequest, error) {
	var req entity.ApprovalRequest
	var raw []byte
	err := row.Scan(
		&req.ID, &req.TenantID, &req.BranchID, &req.SubmittedBy, &req.TargetType, &req.TargetID,
		&req.Action, &raw, &req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	var payload approvalPayloadRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal approval payload: %w", err)
		}
	}
	req.Payload = entity.ApprovalPayload{InventoryBatch: payload.InventoryBatch, WasteLog: payload.WasteLog}
	return &req, nil
}

// Create inserta una solicitud en estado PENDING.
func (r *ApprovalRepo) Create(request *entity.ApprovalRequest) error {
	if err := requireTenant(request.TenantID); err != nil {
		return err
	}
	raw, err := json.Marshal(approvalPayloadRow{
		InventoryBatch: request.Payload.InventoryBatch,
		WasteLog:       request.Payload.WasteLog,
	})
	if err != nil {
		return fmt.Errorf("marshal approval payload: %w", err)
	}
	query := `
		INSERT INTO approval_requests (id, tenant_id, branch_id, submitted_by, target_type, target_id,
			action, payload, reason, status, reviewed_by, reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(context.Background(), query,
		request.ID, request.TenantID, request.BranchID, request.SubmittedBy, request.TargetType, request.TargetID,
		request.Action, raw, request.Reason, request.Status, request.ReviewedBy, request.ReviewedAt, request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create approval request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud del tenant; de otro tenant es ErrNotFound.
func (r *ApprovalRepo) GetByID(tenantID, requestID string) (*entity.ApprovalRequest, error) {
	return r.getByID(tenantID, requestID, false)
}

// GetByIDForUpdate bloquea la fila de la solicitud durante la revisión.
func (r *ApprovalRepo) GetByIDForUpdate(tenantID, requestID string) (*entity.ApprovalRequest, error) {
	return r.getByID(tenantID, requestID, true)
}

func (r *ApprovalRepo) getByID(tenantID, requestID string, lock bool) (*entity.ApprovalRequest, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE id = $1 AND tenant_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	req, err := scanApproval(r.q.QueryRow(context.Background(), query, requestID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get approval request: %w", err)
	}
	return req, nil
}

// List lista solicitudes por sucursal, con filtro opcional por estado.
func (r *ApprovalRepo) List(tenantID, branchID, status string, limit, offset int) ([]*entity.ApprovalRequest, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE tenant_id = $1 AND branch_id = $2`
	args := []interface{}{tenantID, branchID}
	idx := 3
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, status)
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list approval requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.ApprovalRequest
	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// UpdateStatus persiste la transición PENDING → APPROVED/REJECTED. Solo toca
// filas aún pendientes; si la fila ya fue resuelta devuelve
// ErrInvalidStateTransition en vez de reescribirla.
func (r *ApprovalRepo) UpdateStatus(request *entity.ApprovalRequest) error {
	if err := requireTenant(request.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE approval_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4 AND tenant_id = $5 AND status = $6`
	tag, err := r.q.Exec(context.Background(), query,
		request.Status, request.ReviewedBy, request.ReviewedAt,
		request.ID, request.TenantID, entity.ApprovalStatusPending,
	)
	if err != nil {
		return fmt.Errorf("update approval status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}
