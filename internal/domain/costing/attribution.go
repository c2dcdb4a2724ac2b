package costing

import (
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// Breakdown es el desglose de costo de una cantidad consumida: la parte
// exacta (líneas FIFO con costo real por lote) y la parte estimada por
// fallback cuando los lotes no alcanzaron. Los llamadores distinguen
// siempre costo exacto de estimado.
type Breakdown struct {
	Lines         []entity.DeductionLine
	ExactCost     decimal.Decimal
	Shortfall     decimal.Decimal
	EstimatedCost decimal.Decimal
	Estimated     bool // hubo faltante cubierto por estimación
	NoHistory     bool // nunca existió un lote del ítem: el faltante vale 0
}

// Total devuelve costo exacto + estimado.
func (b Breakdown) Total() decimal.Decimal {
	return b.ExactCost.Add(b.EstimatedCost)
}

// Attribute calcula el costo de una deducción: Σ(cantidad × costo unitario)
// sobre las líneas, más el faltante valuado al costo unitario del lote
// recibido más recientemente (latestUnitCost). latestUnitCost nil significa
// que jamás existió un lote del ítem: el faltante se valúa en 0, marcado
// con NoHistory en vez de fallar.
func Attribute(lines []entity.DeductionLine, shortfall decimal.Decimal, latestUnitCost *decimal.Decimal) Breakdown {
	exact := decimal.Zero
	for _, l := range lines {
		exact = exact.Add(l.QuantityUsed.Mul(l.UnitCost))
	}
	bd := Breakdown{Lines: lines, ExactCost: exact, Shortfall: shortfall}
	if shortfall.GreaterThan(decimal.Zero) {
		bd.Estimated = true
		if latestUnitCost != nil {
			bd.EstimatedCost = shortfall.Mul(*latestUnitCost)
		} else {
			bd.NoHistory = true
		}
	}
	return bd
}
