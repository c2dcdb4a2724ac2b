package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// WasteTagSummaryRow resultado crudo del resumen de desperdicios por etiqueta.
// Lo produce la DB; el use case lo convierte en DTO.
type WasteTagSummaryRow struct {
	Tag        string
	EventCount int
	TotalCost  decimal.Decimal
}

// ReportRepository define las consultas de lectura para reportes operativos.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// LowStock devuelve los ítems cuyo disponible agregado está por debajo
	// del mínimo configurado en stock_levels.
	LowStock(ctx context.Context, tenantID, branchID string) ([]entity.LowStockItem, error)
	// WasteSummaryByTag agrega los eventos de desperdicio por etiqueta en el
	// rango dado (conteo y costo total).
	WasteSummaryByTag(ctx context.Context, tenantID, branchID string, from, to time.Time) ([]WasteTagSummaryRow, error)
}
