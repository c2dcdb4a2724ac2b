package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cocinaops/CocinaOps-api/internal/application/dto"
	"github.com/cocinaops/CocinaOps-api/internal/application/reports"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
)

// ReportHandler reportes operativos de solo lectura (protegido).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// LowStock godoc
// @Summary      Reporte de stock bajo
// @Description  Ítems cuyo disponible agregado está por debajo del mínimo
//
//	configurado en niveles de stock.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vacío = la del token)"
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.LowStock(c.Context(), GetTenantContext(c), c.Query("branch_id"))
	if err != nil {
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LowStockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemDTO{
			ItemName:  it.ItemName,
			Category:  it.Category,
			Unit:      it.Unit,
			Available: it.Available,
			Minimum:   it.Minimum,
		})
	}
	return c.JSON(out)
}
