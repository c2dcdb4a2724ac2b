package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cocinaops/CocinaOps-api/internal/application/dto"
	"github.com/cocinaops/CocinaOps-api/internal/application/reports"
	"github.com/cocinaops/CocinaOps-api/internal/application/waste"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// WasteHandler maneja registro, listado y resumen de desperdicios (protegido).
type WasteHandler struct {
	uc      *waste.WasteUseCase
	reports *reports.ReportUseCase
}

// NewWasteHandler construye el handler.
func NewWasteHandler(uc *waste.WasteUseCase, reports *reports.ReportUseCase) *WasteHandler {
	return &WasteHandler{uc: uc, reports: reports}
}

func wasteToDTO(e *entity.WasteEvent, ingredients []waste.IngredientWasteCost) dto.WasteEventResponse {
	out := dto.WasteEventResponse{
		ID:          e.ID,
		BranchID:    e.BranchID,
		Kind:        e.Kind,
		ItemName:    e.ItemName,
		RecipeID:    e.RecipeID,
		Unit:        e.Unit,
		Quantity:    e.Quantity,
		Cost:        e.Cost.Round(2),
		Estimated:   e.Estimated,
		Severity:    e.Severity,
		Preventable: e.Preventable,
		Reason:      e.Reason,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
	}
	for _, ing := range ingredients {
		out.Ingredients = append(out.Ingredients, dto.IngredientWasteCostDTO{
			ItemName:  ing.ItemName,
			Unit:      ing.Unit,
			Required:  ing.Required,
			Shortfall: ing.Shortfall,
			Cost:      ing.Cost.Round(2),
			Estimated: ing.Estimated,
			NoHistory: ing.NoHistory,
		})
	}
	return out
}

// Register godoc
// @Summary      Registrar desperdicio
// @Description  RAW deduce stock del ítem; PRODUCT deduce los ingredientes de
//
//	la receta prorrateados por porción. El costo sale del libro de
//	lotes, con estimación marcada si el stock no alcanza.
//
// @Tags         waste
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterWasteRequest  true  "kind, quantity, reason; item_name+unit (RAW) o recipe_id (PRODUCT)"
// @Success      201   {object}  dto.WasteEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/waste [post]
func (h *WasteHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterWasteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.RegisterWaste(c.Context(), GetTenantContext(c), waste.RegisterWasteInput{
		BranchID:    in.BranchID,
		Kind:        in.Kind,
		ItemName:    in.ItemName,
		Unit:        in.Unit,
		RecipeID:    in.RecipeID,
		Quantity:    in.Quantity,
		Severity:    in.Severity,
		Preventable: in.Preventable,
		Reason:      in.Reason,
		Tags:        in.Tags,
	})
	if err != nil {
		if err == domain.ErrInvalidInput || err == domain.ErrInvalidQuantity {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(wasteToDTO(result.Event, result.Ingredients))
}

// List godoc
// @Summary      Listar desperdicios
// @Tags         waste
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vacío = la del token)"
// @Param        from       query  string  false  "Desde (RFC3339)"
// @Param        to         query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}  dto.WasteEventResponse
// @Router       /api/waste [get]
func (h *WasteHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	events, err := h.uc.ListWaste(c.Context(), GetTenantContext(c), c.Query("branch_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.WasteEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, wasteToDTO(e, nil))
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de desperdicios por etiqueta
// @Tags         waste
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vacío = la del token)"
// @Param        from       query  string  false  "Desde (RFC3339, vacío = 30 días atrás)"
// @Param        to         query  string  false  "Hasta (RFC3339, vacío = ahora)"
// @Success      200  {array}  dto.WasteSummaryRowDTO
// @Router       /api/waste/summary [get]
func (h *WasteHandler) Summary(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	var fromT, toT time.Time
	if from != nil {
		fromT = *from
	}
	if to != nil {
		toT = *to
	}
	rows, err := h.reports.WasteSummary(c.Context(), GetTenantContext(c), c.Query("branch_id"), fromT, toT)
	if err != nil {
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.WasteSummaryRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.WasteSummaryRowDTO{
			Tag:        row.Tag,
			EventCount: row.EventCount,
			TotalCost:  row.TotalCost.Round(2),
		})
	}
	return c.JSON(out)
}

// parseDateRange lee from/to como RFC3339 de la query. Ausentes = nil.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
