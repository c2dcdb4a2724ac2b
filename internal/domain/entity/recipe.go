package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe es una receta del tenant: producto terminado con su lista ordenada
// de ingredientes por tamaño de porción.
type Recipe struct {
	ID          string
	TenantID    string
	ProductName string
	PortionSize decimal.Decimal // > 0; porciones que rinde la lista de ingredientes
	Ingredients []RecipeIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient es un ingrediente de la receta. La unidad debe coincidir
// con la unidad de los lotes del ítem para que el costeo encuentre stock.
type RecipeIngredient struct {
	ItemName string
	Quantity decimal.Decimal // > 0, por PortionSize unidades de producto
	Unit     string
}
