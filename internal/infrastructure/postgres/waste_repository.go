package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

var _ repository.WasteRepository = (*WasteRepo)(nil)

// WasteRepo implementación de WasteRepository sobre PostgreSQL.
// Las etiquetas se guardan como text[] para poder agregarlas con unnest.
type WasteRepo struct {
	q Querier
}

// NewWasteRepository construye el adaptador de desperdicios.
func NewWasteRepository(q Querier) *WasteRepo {
	return &WasteRepo{q: q}
}

const wasteColumns = `id, tenant_id, branch_id, kind, item_name, recipe_id, unit,
	quantity, cost, estimated, severity, preventable, reason, tags, created_by, created_at`

func scanWaste(row pgx.Row) (*entity.WasteEvent, error) {
	var e entity.WasteEvent
	err := row.Scan(
		&e.ID, &e.TenantID, &e.BranchID, &e.Kind, &e.ItemName, &e.RecipeID, &e.Unit,
		&e.Quantity, &e.Cost, &e.Estimated, &e.Severity, &e.Preventable, &e.Reason,
		&e.Tags, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserta un evento de desperdicio con su costo ya calculado.
func (r *WasteRepo) Create(event *entity.WasteEvent) error {
	if err := requireTenant(event.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO waste_events (id, tenant_id, branch_id, kind, item_name, recipe_id, unit,
			quantity, cost, estimated, severity, preventable, reason, tags, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.TenantID, event.BranchID, event.Kind, event.ItemName, event.RecipeID, event.Unit,
		event.Quantity, event.Cost, event.Estimated, event.Severity, event.Preventable, event.Reason,
		event.Tags, event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create waste event: %w", err)
	}
	return nil
}

// GetByID obtiene un evento del tenant; de otro tenant es ErrNotFound.
func (r *WasteRepo) GetByID(tenantID, wasteID string) (*entity.WasteEvent, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `SELECT ` + wasteColumns + ` FROM waste_events WHERE id = $1 AND tenant_id = $2`
	e, err := scanWaste(r.q.QueryRow(context.Background(), query, wasteID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get waste event: %w", err)
	}
	return e, nil
}

// ListByBranch lista eventos de una sucursal, con filtro opcional por fechas.
func (r *WasteRepo) ListByBranch(tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.WasteEvent, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `SELECT ` + wasteColumns + ` FROM waste_events WHERE tenant_id = $1 AND branch_id = $2`
	args := []interface{}{tenantID, branchID}
	idx := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *from)
		idx++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *to)
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list waste events: %w", err)
	}
	defer rows.Close()

	var events []*entity.WasteEvent
	for rows.Next() {
		e, err := scanWaste(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waste event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update aplica cambios aprobados (motivo, severidad, evitable). El costo
// nunca se actualiza por esta vía.
func (r *WasteRepo) Update(event *entity.WasteEvent) error {
	if err := requireTenant(event.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE waste_events
		SET reason = $1, severity = $2, preventable = $3, tags = $4
		WHERE id = $5 AND tenant_id = $6`
	tag, err := r.q.Exec(context.Background(), query,
		event.Reason, event.Severity, event.Preventable, event.Tags,
		event.ID, event.TenantID,
	)
	if err != nil {
		return fmt.Errorf("update waste event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el evento. El stock deducido al crearlo no se restaura.
func (r *WasteRepo) Delete(tenantID, wasteID string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM waste_events WHERE id = $1 AND tenant_id = $2`, wasteID, tenantID)
	if err != nil {
		return fmt.Errorf("delete waste event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
