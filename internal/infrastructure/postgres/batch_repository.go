package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, tenant_id, branch_id, item_name, category, unit,
	quantity, unit_cost, received_at, expires_at, created_by, created_at`

func scanBatch(row pgx.Row) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	err := row.Scan(
		&b.ID, &b.TenantID, &b.BranchID, &b.ItemName, &b.Category, &b.Unit,
		&b.Quantity, &b.UnitCost, &b.ReceivedAt, &b.ExpiresAt, &b.CreatedBy, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta un lote nuevo.
func (r *BatchRepo) Create(batch *entity.InventoryBatch) error {
	if err := requireTenant(batch.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO inventory_batches (id, tenant_id, branch_id, item_name, category, unit,
			quantity, unit_cost, received_at, expires_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.TenantID, batch.BranchID, batch.ItemName, batch.Category, batch.Unit,
		batch.Quantity, batch.UnitCost, batch.ReceivedAt, batch.ExpiresAt, batch.CreatedBy, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote del tenant. Un lote de otro tenant es ErrNotFound:
// no se filtra existencia entre tenants.
func (r *BatchRepo) GetByID(tenantID, batchID string) (*entity.InventoryBatch, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `SELECT ` + batchColumns + ` FROM inventory_batches WHERE id = $1 AND tenant_id = $2`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, batchID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListAvailable devuelve los lotes con cantidad disponible para el ítem,
// en orden FIFO: received_at ascendente, desempate por id.
func (r *BatchRepo) ListAvailable(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	return r.listAvailable(tenantID, branchID, itemName, unit, false)
}

// ListAvailableForUpdate es ListAvailable bloqueando las filas (FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *BatchRepo) ListAvailableForUpdate(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	return r.listAvailable(tenantID, branchID, itemName, unit, true)
}

func (r *BatchRepo) listAvailable(tenantID, branchID, itemName, unit string, lock bool) ([]*entity.InventoryBatch, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE tenant_id = $1 AND branch_id = $2 AND item_name = $3 AND unit = $4 AND quantity > 0
		ORDER BY received_at ASC, id ASC`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, tenantID, branchID, itemName, unit)
	if err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	defer rows.Close()

	var batches []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// UpdateQuantity fija la cantidad restante de un lote.
func (r *BatchRepo) UpdateQuantity(tenantID, batchID string, quantity decimal.Decimal) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	query := `UPDATE inventory_batches SET quantity = $1 WHERE id = $2 AND tenant_id = $3`
	tag, err := r.q.Exec(context.Background(), query, quantity, batchID, tenantID)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote. Un lote consumido a cero nunca queda como fila en cero.
func (r *BatchRepo) Delete(tenantID, batchID string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_batches WHERE id = $1 AND tenant_id = $2`, batchID, tenantID)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update aplica una edición directa o aprobada sobre el lote.
func (r *BatchRepo) Update(batch *entity.InventoryBatch) error {
	if err := requireTenant(batch.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE inventory_batches
		SET item_name = $1, category = $2, unit = $3, quantity = $4, unit_cost = $5, expires_at = $6
		WHERE id = $7 AND tenant_id = $8`
	tag, err := r.q.Exec(context.Background(), query,
		batch.ItemName, batch.Category, batch.Unit, batch.Quantity, batch.UnitCost, batch.ExpiresAt,
		batch.ID, batch.TenantID,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByBranch lista los lotes de una sucursal con paginación.
func (r *BatchRepo) ListByBranch(tenantID, branchID string, limit, offset int) ([]*entity.InventoryBatch, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE tenant_id = $1 AND branch_id = $2
		ORDER BY received_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
