package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeIngredientDTO ingrediente de receta en requests y responses.
type RecipeIngredientDTO struct {
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// CreateRecipeRequest body para POST /api/recipes.
type CreateRecipeRequest struct {
	ProductName string                `json:"product_name"`
	PortionSize decimal.Decimal       `json:"portion_size"`
	Ingredients []RecipeIngredientDTO `json:"ingredients"`
}

// RecipeResponse una receta.
type RecipeResponse struct {
	ID          string                `json:"id"`
	ProductName string                `json:"product_name"`
	PortionSize decimal.Decimal       `json:"portion_size"`
	Ingredients []RecipeIngredientDTO `json:"ingredients"`
	CreatedAt   time.Time             `json:"created_at"`
}

// IngredientCostDTO costo consultivo de un ingrediente.
type IngredientCostDTO struct {
	ItemName string          `json:"item_name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
	Missing  bool            `json:"missing,omitempty"`
}

// RecipeCostResponse costeo de una receta (foto consultiva, no deduce stock).
type RecipeCostResponse struct {
	RecipeID       string              `json:"recipe_id"`
	ProductName    string              `json:"product_name"`
	PortionSize    decimal.Decimal     `json:"portion_size"`
	TotalCost      decimal.Decimal     `json:"total_cost"`
	CostPerPortion decimal.Decimal     `json:"cost_per_portion"`
	Ingredients    []IngredientCostDTO `json:"ingredients"`
	ComputedAt     time.Time           `json:"computed_at"`
}
