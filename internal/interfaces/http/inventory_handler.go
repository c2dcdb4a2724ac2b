package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cocinaops/CocinaOps-api/internal/application/dto"
	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/costing"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// InventoryHandler maneja el libro de lotes: alta, consulta FIFO, deducción
// y configuración de niveles (protegido).
type InventoryHandler struct {
	uc *ledger.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *ledger.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func batchToDTO(b *entity.InventoryBatch) dto.BatchResponse {
	out := dto.BatchResponse{
		ID:         b.ID,
		BranchID:   b.BranchID,
		ItemName:   b.ItemName,
		Category:   b.Category,
		Unit:       b.Unit,
		Quantity:   b.Quantity,
		UnitCost:   b.UnitCost.Round(2),
		ReceivedAt: b.ReceivedAt,
	}
	if !b.ExpiresAt.IsZero() {
		exp := b.ExpiresAt
		out.ExpiresAt = &exp
	}
	return out
}

// breakdownToDTO redondea los montos a 2 decimales. Es la única frontera
// donde se redondea: internamente todo viaja con precisión completa.
func breakdownToDTO(bd costing.Breakdown) dto.CostBreakdownResponse {
	lines := make([]dto.DeductionLineDTO, 0, len(bd.Lines))
	for _, l := range bd.Lines {
		lines = append(lines, dto.DeductionLineDTO{
			BatchID:          l.BatchID,
			QuantityUsed:     l.QuantityUsed,
			UnitCost:         l.UnitCost.Round(2),
			RemainingInBatch: l.RemainingInBatch,
		})
	}
	return dto.CostBreakdownResponse{
		Lines:         lines,
		ExactCost:     bd.ExactCost.Round(2),
		EstimatedCost: bd.EstimatedCost.Round(2),
		TotalCost:     bd.Total().Round(2),
		Shortfall:     bd.Shortfall,
		Estimated:     bd.Estimated,
		NoHistory:     bd.NoHistory,
	}
}

// AddBatch godoc
// @Summary      Registrar lote de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddBatchRequest  true  "item_name, unit, quantity, unit_cost"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) AddBatch(c *fiber.Ctx) error {
	var in dto.AddBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := ledger.AddBatchInput{
		BranchID: in.BranchID,
		ItemName: in.ItemName,
		Category: in.Category,
		Unit:     in.Unit,
		Quantity: in.Quantity,
		UnitCost: in.UnitCost,
	}
	if in.ReceivedAt != nil {
		input.ReceivedAt = *in.ReceivedAt
	}
	if in.ExpiresAt != nil {
		input.ExpiresAt = *in.ExpiresAt
	}
	batch, err := h.uc.AddBatch(c.Context(), GetTenantContext(c), input)
	if err != nil {
		if err == domain.ErrInvalidQuantity || err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(batchToDTO(batch))
}

// ListBatches godoc
// @Summary      Listar lotes de la sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vacío = la del token)"
// @Param        item_name  query  string  false  "Filtrar por ítem (devuelve orden FIFO)"
// @Param        unit       query  string  false  "Unidad (requerida con item_name)"
// @Success      200  {array}   dto.BatchResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	scope := GetTenantContext(c)
	branchID := c.Query("branch_id")
	itemName := c.Query("item_name")
	unit := c.Query("unit")

	var (
		batches []*entity.InventoryBatch
		err     error
	)
	if itemName != "" {
		batches, err = h.uc.QueryAvailable(c.Context(), scope, branchID, itemName, unit)
	} else {
		var page dto.PageRequest
		if err := c.QueryParser(&page); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
		}
		page.DefaultPage()
		batches, err = h.uc.ListBatches(c.Context(), scope, branchID, page.Limit, page.Offset)
	}
	if err != nil {
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, batchToDTO(b))
	}
	return c.JSON(out)
}

// Deduct godoc
// @Summary      Deducción FIFO estricta
// @Description  Consume stock en orden FIFO dentro de una transacción. Si el
//
//	disponible no alcanza, no se modifica ningún lote.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductRequest  true  "item_name, unit, quantity"
// @Success      200   {object}  dto.CostBreakdownResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/deduct [post]
func (h *InventoryHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bd, err := h.uc.Deduct(c.Context(), GetTenantContext(c), ledger.DeductInput{
		BranchID: in.BranchID,
		ItemName: in.ItemName,
		Unit:     in.Unit,
		Quantity: in.Quantity,
	})
	if err != nil {
		if err == domain.ErrInvalidQuantity {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
		}
		if err == domain.ErrInsufficientInventory {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: "inventario insuficiente, no se aplicó ninguna deducción"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol empleado debe usar el flujo de aprobación"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(breakdownToDTO(bd))
}

// ConfigureStockLevel godoc
// @Summary      Configurar niveles de stock de un ítem
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockLevelRequest  true  "item_name, unit, min_quantity, reorder_point"
// @Success      201   {object}  dto.StockLevelResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-levels [post]
func (h *InventoryHandler) ConfigureStockLevel(c *fiber.Ctx) error {
	var in dto.StockLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	level, err := h.uc.ConfigureStockLevel(c.Context(), GetTenantContext(c), ledger.StockLevelInput{
		BranchID:     in.BranchID,
		ItemName:     in.ItemName,
		Category:     in.Category,
		Unit:         in.Unit,
		MinQuantity:  in.MinQuantity,
		ReorderPoint: in.ReorderPoint,
	})
	if err != nil {
		if err == domain.ErrInvalidInput || err == domain.ErrInvalidQuantity {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe configuración para ese ítem"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para configurar niveles"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockLevelResponse{
		ID:           level.ID,
		BranchID:     level.BranchID,
		ItemName:     level.ItemName,
		Category:     level.Category,
		Unit:         level.Unit,
		MinQuantity:  level.MinQuantity,
		ReorderPoint: level.ReorderPoint,
	})
}

// ListStockLevels godoc
// @Summary      Listar niveles configurados
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vacío = la del token)"
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/inventory/stock-levels [get]
func (h *InventoryHandler) ListStockLevels(c *fiber.Ctx) error {
	levels, err := h.uc.ListStockLevels(c.Context(), GetTenantContext(c), c.Query("branch_id"))
	if err != nil {
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelResponse{
			ID:           l.ID,
			BranchID:     l.BranchID,
			ItemName:     l.ItemName,
			Category:     l.Category,
			Unit:         l.Unit,
			MinQuantity:  l.MinQuantity,
			ReorderPoint: l.ReorderPoint,
		})
	}
	return c.JSON(out)
}
