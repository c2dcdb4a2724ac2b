package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación read-only de ReportRepository sobre PostgreSQL.
// Las agregaciones corren en la DB, no en memoria.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// LowStock devuelve los ítems cuyo disponible agregado (suma de lotes con
// cantidad > 0) está por debajo del mínimo configurado. Un ítem sin lotes
// cuenta como disponible cero.
func (r *ReportRepo) LowStock(ctx context.Context, tenantID, branchID string) ([]entity.LowStockItem, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT sl.item_name, sl.category, sl.unit,
		       COALESCE(SUM(b.quantity), 0) AS available,
		       sl.min_quantity
		FROM stock_levels sl
		LEFT JOIN inventory_batches b
		       ON b.tenant_id = sl.tenant_id
		      AND b.branch_id = sl.branch_id
		      AND b.item_name = sl.item_name
		      AND b.unit = sl.unit
		      AND b.quantity > 0
		WHERE sl.tenant_id = $1 AND sl.branch_id = $2
		GROUP BY sl.item_name, sl.category, sl.unit, sl.min_quantity
		HAVING COALESCE(SUM(b.quantity), 0) < sl.min_quantity
		ORDER BY sl.item_name ASC`
	rows, err := r.q.Query(ctx, query, tenantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("low stock report: %w", err)
	}
	defer rows.Close()

	var items []entity.LowStockItem
	for rows.Next() {
		var it entity.LowStockItem
		if err := rows.Scan(&it.ItemName, &it.Category, &it.Unit, &it.Available, &it.Minimum); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// WasteSummaryByTag agrega los eventos de desperdicio por etiqueta en el
// rango dado: conteo y costo total, de mayor a menor costo.
func (r *ReportRepo) WasteSummaryByTag(ctx context.Context, tenantID, branchID string, from, to time.Time) ([]repository.WasteTagSummaryRow, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT t.tag, COUNT(*) AS event_count, SUM(w.cost) AS total_cost
		FROM waste_events w,
		     unnest(w.tags) AS t(tag)
		WHERE w.tenant_id = $1 AND w.branch_id = $2
		  AND w.created_at >= $3 AND w.created_at <= $4
		GROUP BY t.tag
		ORDER BY total_cost DESC, t.tag ASC`
	rows, err := r.q.Query(ctx, query, tenantID, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("waste summary by tag: %w", err)
	}
	defer rows.Close()

	var summary []repository.WasteTagSummaryRow
	for rows.Next() {
		var row repository.WasteTagSummaryRow
		if err := rows.Scan(&row.Tag, &row.EventCount, &row.TotalCost); err != nil {
			return nil, fmt.Errorf("scan waste summary row: %w", err)
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}
