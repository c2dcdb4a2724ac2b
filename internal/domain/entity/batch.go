package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBatch es un lote discreto de inventario recibido en una fecha,
// con su propio costo unitario y vencimiento. La cantidad solo baja por
// deducción; al llegar a cero el lote se elimina, nunca se conserva en cero.
type InventoryBatch struct {
	ID         string
	TenantID   string
	BranchID   string
	ItemName   string
	Category   string
	Unit       string
	Quantity   decimal.Decimal // cantidad disponible, siempre > 0 en filas persistidas
	UnitCost   decimal.Decimal
	ReceivedAt time.Time
	ExpiresAt  time.Time
	CreatedBy  string
	CreatedAt  time.Time
}

// DeductionLine es el consumo aplicado sobre un lote concreto durante una
// deducción FIFO. Es la única base para el cálculo de costos.
type DeductionLine struct {
	BatchID          string
	QuantityUsed     decimal.Decimal
	UnitCost         decimal.Decimal
	RemainingInBatch decimal.Decimal // 0 implica que el lote fue eliminado
}
