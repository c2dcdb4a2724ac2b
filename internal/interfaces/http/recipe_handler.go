package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cocinaops/CocinaOps-api/internal/application/dto"
	"github.com/cocinaops/CocinaOps-api/internal/application/recipes"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// RecipeHandler maneja recetas y su costeo consultivo (protegido).
type RecipeHandler struct {
	uc *recipes.RecipeUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *recipes.RecipeUseCase) *RecipeHandler {
	return &RecipeHandler{uc: uc}
}

func recipeToDTO(r *entity.Recipe) dto.RecipeResponse {
	ingredients := make([]dto.RecipeIngredientDTO, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, dto.RecipeIngredientDTO{
			ItemName: ing.ItemName,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return dto.RecipeResponse{
		ID:          r.ID,
		ProductName: r.ProductName,
		PortionSize: r.PortionSize,
		Ingredients: ingredients,
		CreatedAt:   r.CreatedAt,
	}
}

// Create godoc
// @Summary      Crear receta
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecipeRequest  true  "product_name, portion_size, ingredients"
// @Success      201   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/recipes [post]
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ingredients := make([]entity.RecipeIngredient, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ingredients = append(ingredients, entity.RecipeIngredient{
			ItemName: ing.ItemName,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	recipe, err := h.uc.CreateRecipe(c.Context(), GetTenantContext(c), recipes.CreateRecipeInput{
		ProductName: in.ProductName,
		PortionSize: in.PortionSize,
		Ingredients: ingredients,
	})
	if err != nil {
		if err == domain.ErrInvalidInput || err == domain.ErrInvalidQuantity {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(recipeToDTO(recipe))
}

// List godoc
// @Summary      Listar recetas
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RecipeResponse
// @Router       /api/recipes [get]
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListRecipes(c.Context(), GetTenantContext(c), page.Limit, page.Offset)
	if err != nil {
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.RecipeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, recipeToDTO(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener receta
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [get]
func (h *RecipeHandler) GetByID(c *fiber.Ctx) error {
	recipe, err := h.uc.GetRecipe(c.Context(), GetTenantContext(c), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(recipeToDTO(recipe))
}

// CalculateCost godoc
// @Summary      Costeo de una receta
// @Description  Proyecta la receta sobre el stock disponible con costo
//
//	unitario promedio ponderado. Solo lectura: no deduce stock.
//
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID de la receta"
// @Param        branch_id  query  string  false  "Sucursal (vacío = la del token)"
// @Success      200  {object}  dto.RecipeCostResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/cost [get]
func (h *RecipeHandler) CalculateCost(c *fiber.Ctx) error {
	cost, err := h.uc.CalculateCost(c.Context(), GetTenantContext(c), c.Params("id"), c.Query("branch_id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		if err == domain.ErrInvalidQuantity {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PORTION_SIZE", Message: "la receta tiene tamaño de porción inválido"})
		}
		if err == domain.ErrScopeViolation {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_VIOLATION", Message: "token sin tenant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	ingredients := make([]dto.IngredientCostDTO, 0, len(cost.Ingredients))
	for _, ic := range cost.Ingredients {
		ingredients = append(ingredients, dto.IngredientCostDTO{
			ItemName: ic.ItemName,
			Unit:     ic.Unit,
			Quantity: ic.Quantity,
			UnitCost: ic.UnitCost.Round(2),
			Cost:     ic.Cost.Round(2),
			Missing:  ic.Missing,
		})
	}
	return c.JSON(dto.RecipeCostResponse{
		RecipeID:       cost.RecipeID,
		ProductName:    cost.ProductName,
		PortionSize:    cost.PortionSize,
		TotalCost:      cost.TotalCost.Round(2),
		CostPerPortion: cost.CostPerPortion.Round(2),
		Ingredients:    ingredients,
		ComputedAt:     cost.ComputedAt,
	})
}
