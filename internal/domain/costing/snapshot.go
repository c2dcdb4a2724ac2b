package costing

import (
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// WeightedAverageUnitCost calcula el costo unitario promedio ponderado del
// stock disponible: Σ(cantidad × costo) / Σ(cantidad). Es la foto consultiva
// usada por el costeo de recetas (lectura, nunca deduce); el consumo real
// siempre se valúa con FIFO exacto vía Attribute.
// ok=false cuando no hay cantidad disponible.
func WeightedAverageUnitCost(batches []*entity.InventoryBatch) (decimal.Decimal, bool) {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, b := range batches {
		totalQty = totalQty.Add(b.Quantity)
		totalValue = totalValue.Add(b.Quantity.Mul(b.UnitCost))
	}
	if !totalQty.GreaterThan(decimal.Zero) {
		return decimal.Zero, false
	}
	return totalValue.Div(totalQty), true
}
