package costing

import (
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// Plan calcula el plan de consumo FIFO sobre lotes ya ordenados por
// (received_at ASC, id ASC). No muta nada: devuelve las líneas de deducción
// por lote y el faltante (requested - consumido). Aplicar el plan contra el
// almacenamiento es responsabilidad del caso de uso, dentro de una transacción.
func Plan(batches []*entity.InventoryBatch, requested decimal.Decimal) ([]entity.DeductionLine, decimal.Decimal, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, decimal.Zero, domain.ErrInvalidQuantity
	}
	remaining := requested
	lines := make([]entity.DeductionLine, 0, len(batches))
	for _, b := range batches {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		used := decimal.Min(b.Quantity, remaining)
		if !used.GreaterThan(decimal.Zero) {
			continue
		}
		lines = append(lines, entity.DeductionLine{
			BatchID:          b.ID,
			QuantityUsed:     used,
			UnitCost:         b.UnitCost,
			RemainingInBatch: b.Quantity.Sub(used),
		})
		remaining = remaining.Sub(used)
	}
	return lines, remaining, nil
}
