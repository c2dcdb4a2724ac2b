package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de desperdicio.
const (
	WasteKindRaw     = "RAW"     // materia prima: deduce stock directo
	WasteKindProduct = "PRODUCT" // producto terminado: deduce ingredientes vía receta
)

// Severidades de un evento de desperdicio.
const (
	WasteSeverityLow    = "LOW"
	WasteSeverityMedium = "MEDIUM"
	WasteSeverityHigh   = "HIGH"
)

// WasteEvent es un desperdicio registrado. El costo se calcula siempre al
// crear el evento a partir del libro de lotes, nunca lo aporta el usuario.
type WasteEvent struct {
	ID          string
	TenantID    string
	BranchID    string
	Kind        string // RAW | PRODUCT
	ItemName    string // para RAW
	RecipeID    string // para PRODUCT
	Unit        string
	Quantity    decimal.Decimal
	Cost        decimal.Decimal // >= 0, calculado
	Estimated   bool            // parte del costo salió del fallback, no de lotes reales
	Severity    string
	Preventable bool
	Reason      string
	Tags        []string
	CreatedBy   string
	CreatedAt   time.Time
}
