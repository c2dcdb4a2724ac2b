package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterWasteRequest body para POST /api/waste.
// kind RAW exige item_name + unit; kind PRODUCT exige recipe_id.
type RegisterWasteRequest struct {
	BranchID    string          `json:"branch_id,omitempty"`
	Kind        string          `json:"kind"`
	ItemName    string          `json:"item_name,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	RecipeID    string          `json:"recipe_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Severity    string          `json:"severity,omitempty"`
	Preventable bool            `json:"preventable"`
	Reason      string          `json:"reason"`
	Tags        []string        `json:"tags,omitempty"`
}

// IngredientWasteCostDTO desglose por ingrediente de un desperdicio PRODUCT.
type IngredientWasteCostDTO struct {
	ItemName  string          `json:"item_name"`
	Unit      string          `json:"unit"`
	Required  decimal.Decimal `json:"required"`
	Shortfall decimal.Decimal `json:"shortfall"`
	Cost      decimal.Decimal `json:"cost"`
	Estimated bool            `json:"estimated"`
	NoHistory bool            `json:"no_history,omitempty"`
}

// WasteEventResponse un evento de desperdicio valuado.
type WasteEventResponse struct {
	ID          string                   `json:"id"`
	BranchID    string                   `json:"branch_id"`
	Kind        string                   `json:"kind"`
	ItemName    string                   `json:"item_name,omitempty"`
	RecipeID    string                   `json:"recipe_id,omitempty"`
	Unit        string                   `json:"unit,omitempty"`
	Quantity    decimal.Decimal          `json:"quantity"`
	Cost        decimal.Decimal          `json:"cost"`
	Estimated   bool                     `json:"estimated"`
	Severity    string                   `json:"severity"`
	Preventable bool                     `json:"preventable"`
	Reason      string                   `json:"reason"`
	Tags        []string                 `json:"tags"`
	Ingredients []IngredientWasteCostDTO `json:"ingredients,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// WasteSummaryRowDTO agregado de desperdicios por etiqueta.
type WasteSummaryRowDTO struct {
	Tag        string          `json:"tag"`
	EventCount int             `json:"event_count"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}
