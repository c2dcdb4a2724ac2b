package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel es la configuración de niveles por ítem y sucursal. La clave
// compuesta (tenant, branch, item, category, unit) tiene constraint único.
type StockLevel struct {
	ID           string
	TenantID     string
	BranchID     string
	ItemName     string
	Category     string
	Unit         string
	MinQuantity  decimal.Decimal
	ReorderPoint decimal.Decimal
	UpdatedAt    time.Time
}

// LowStockItem es una fila del reporte de stock bajo: disponible agregado
// contra el mínimo configurado.
type LowStockItem struct {
	ItemName  string
	Category  string
	Unit      string
	Available decimal.Decimal
	Minimum   decimal.Decimal
}
