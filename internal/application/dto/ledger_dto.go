package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddBatchRequest body para POST /api/inventory/batches.
type AddBatchRequest struct {
	BranchID   string          `json:"branch_id,omitempty"`
	ItemName   string          `json:"item_name"`
	Category   string          `json:"category,omitempty"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"` // vacío = ahora
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// BatchResponse un lote de inventario.
type BatchResponse struct {
	ID         string          `json:"id"`
	BranchID   string          `json:"branch_id"`
	ItemName   string          `json:"item_name"`
	Category   string          `json:"category,omitempty"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt time.Time       `json:"received_at"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// DeductRequest body para POST /api/inventory/deduct.
type DeductRequest struct {
	BranchID string          `json:"branch_id,omitempty"`
	ItemName string          `json:"item_name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DeductionLineDTO consumo aplicado sobre un lote.
type DeductionLineDTO struct {
	BatchID          string          `json:"batch_id"`
	QuantityUsed     decimal.Decimal `json:"quantity_used"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	RemainingInBatch decimal.Decimal `json:"remaining_in_batch"`
}

// CostBreakdownResponse desglose de costo de una deducción. Los montos van
// redondeados a 2 decimales solo en esta frontera.
type CostBreakdownResponse struct {
	Lines         []DeductionLineDTO `json:"lines"`
	ExactCost     decimal.Decimal    `json:"exact_cost"`
	EstimatedCost decimal.Decimal    `json:"estimated_cost"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
	Shortfall     decimal.Decimal    `json:"shortfall"`
	Estimated     bool               `json:"estimated"`
	NoHistory     bool               `json:"no_history,omitempty"`
}

// StockLevelRequest body para POST /api/inventory/stock-levels.
type StockLevelRequest struct {
	BranchID     string          `json:"branch_id,omitempty"`
	ItemName     string          `json:"item_name"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// StockLevelResponse configuración de niveles de un ítem.
type StockLevelResponse struct {
	ID           string          `json:"id"`
	BranchID     string          `json:"branch_id"`
	ItemName     string          `json:"item_name"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// LowStockItemDTO fila del reporte de stock bajo.
type LowStockItemDTO struct {
	ItemName  string          `json:"item_name"`
	Category  string          `json:"category,omitempty"`
	Unit      string          `json:"unit"`
	Available decimal.Decimal `json:"available"`
	Minimum   decimal.Decimal `json:"minimum"`
}
