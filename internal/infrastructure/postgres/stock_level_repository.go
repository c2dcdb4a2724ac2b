package postgres

import (
	"context"
	"fmt"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL.
// La tabla tiene constraint único sobre (tenant_id, branch_id, item_name,
// category, unit); el 23505 se traduce a ErrDuplicate.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de niveles de stock.
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Create inserta una configuración de nivel. Duplicado → ErrDuplicate.
func (r *StockLevelRepo) Create(level *entity.StockLevel) error {
	if err := requireTenant(level.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO stock_levels (id, tenant_id, branch_id, item_name, category, unit,
			min_quantity, reorder_point, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		level.ID, level.TenantID, level.BranchID, level.ItemName, level.Category, level.Unit,
		level.MinQuantity, level.ReorderPoint, level.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock level: %w", err)
	}
	return nil
}

// List lista los niveles configurados de una sucursal.
func (r *StockLevelRepo) List(tenantID, branchID string) ([]*entity.StockLevel, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT id, tenant_id, branch_id, item_name, category, unit, min_quantity, reorder_point, updated_at
		FROM stock_levels
		WHERE tenant_id = $1 AND branch_id = $2
		ORDER BY item_name ASC`
	rows, err := r.q.Query(context.Background(), query, tenantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	var levels []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ID, &l.TenantID, &l.BranchID, &l.ItemName, &l.Category, &l.Unit,
			&l.MinQuantity, &l.ReorderPoint, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, &l)
	}
	return levels, rows.Err()
}
