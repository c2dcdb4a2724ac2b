package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

var _ repository.ReportRepository = reportData{}

type reportData struct{ d *data }

// LowStock compara el disponible agregado por ítem contra el mínimo
// configurado en los niveles de stock de la sucursal.
func (r reportData) LowStock(_ context.Context, tenantID, branchID string) ([]entity.LowStockItem, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var out []entity.LowStockItem
	for _, level := range r.d.stockLevels {
		if level.TenantID != tenantID || level.BranchID != branchID {
			continue
		}
		available := decimal.Zero
		for _, b := range r.d.batches {
			if b.TenantID != tenantID || b.BranchID != branchID {
				continue
			}
			if !strings.EqualFold(b.ItemName, level.ItemName) || !strings.EqualFold(b.Unit, level.Unit) {
				continue
			}
			available = available.Add(b.Quantity)
		}
		if available.LessThan(level.MinQuantity) {
			out = append(out, entity.LowStockItem{
				ItemName:  level.ItemName,
				Category:  level.Category,
				Unit:      level.Unit,
				Available: available,
				Minimum:   level.MinQuantity,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

// WasteSummaryByTag agrega los eventos por etiqueta en el rango dado.
func (r reportData) WasteSummaryByTag(_ context.Context, tenantID, branchID string, from, to time.Time) ([]repository.WasteTagSummaryRow, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	byTag := make(map[string]*repository.WasteTagSummaryRow)
	for _, w := range r.d.wasteEvents {
		if w.TenantID != tenantID || w.BranchID != branchID {
			continue
		}
		if w.CreatedAt.Before(from) || w.CreatedAt.After(to) {
			continue
		}
		for _, tag := range w.Tags {
			row, ok := byTag[tag]
			if !ok {
				row = &repository.WasteTagSummaryRow{Tag: tag, TotalCost: decimal.Zero}
				byTag[tag] = row
			}
			row.EventCount++
			row.TotalCost = row.TotalCost.Add(w.Cost)
		}
	}
	out := make([]repository.WasteTagSummaryRow, 0, len(byTag))
	for _, row := range byTag {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCost.Equal(out[j].TotalCost) {
			return out[i].Tag < out[j].Tag
		}
		return out[i].TotalCost.GreaterThan(out[j].TotalCost)
	})
	return out, nil
}
