package reports

import (
	"context"
	"time"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// ReportUseCase consultas de lectura para operaciones: stock bajo y resumen
// de desperdicios. No muta nada.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reportRepo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo}
}

// LowStock devuelve los ítems por debajo del mínimo configurado.
func (uc *ReportUseCase) LowStock(ctx context.Context, scope entity.TenantContext, branchID string) ([]entity.LowStockItem, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}
	return uc.reportRepo.LowStock(ctx, scope.TenantID, branchID)
}

// WasteSummary agrega los desperdicios por etiqueta en el rango dado.
// Rango vacío = últimos 30 días.
func (uc *ReportUseCase) WasteSummary(ctx context.Context, scope entity.TenantContext, branchID string, from, to time.Time) ([]repository.WasteTagSummaryRow, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return uc.reportRepo.WasteSummaryByTag(ctx, scope.TenantID, branchID, from, to)
}
