package costing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/costing"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// lote construye un lote de prueba con cantidad y costo.
func lote(id, qty, cost string, daysAgo int) *entity.InventoryBatch {
	return &entity.InventoryBatch{
		ID:         id,
		TenantID:   "t1",
		BranchID:   "b1",
		ItemName:   "tomate",
		Unit:       "kg",
		Quantity:   dec(qty),
		UnitCost:   dec(cost),
		ReceivedAt: time.Now().AddDate(0, 0, -daysAgo),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Plan (FIFO)
// ──────────────────────────────────────────────────────────────────────────────

// Deducir 12 de [10@1.00, 10@1.50] debe consumir el lote viejo completo y 2
// del nuevo: costo exacto 10×1.00 + 2×1.50 = 13.00.
func TestPlan_ConsumeEnOrdenFIFO(t *testing.T) {
	batches := []*entity.InventoryBatch{
		lote("viejo", "10", "1.00", 5),
		lote("nuevo", "10", "1.50", 1),
	}

	lines, shortfall, err := costing.Plan(batches, dec("12"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, shortfall.IsZero(), "no debe haber faltante")

	assert.Equal(t, "viejo", lines[0].BatchID, "el lote más viejo se consume primero")
	assert.True(t, lines[0].QuantityUsed.Equal(dec("10")))
	assert.True(t, lines[0].RemainingInBatch.IsZero(), "el lote viejo queda en cero")

	assert.Equal(t, "nuevo", lines[1].BatchID)
	assert.True(t, lines[1].QuantityUsed.Equal(dec("2")))
	assert.True(t, lines[1].RemainingInBatch.Equal(dec("8")))

	bd := costing.Attribute(lines, shortfall, nil)
	assert.True(t, bd.ExactCost.Equal(dec("13")),
		"costo exacto: 10×1.00 + 2×1.50 = 13, obtuve %s", bd.ExactCost)
}

// La cantidad consumida debe igualar exactamente la pedida cuando alcanza:
// ni más ni menos (conservación).
func TestPlan_ConservaCantidad(t *testing.T) {
	batches := []*entity.InventoryBatch{
		lote("a", "3.5", "2.00", 3),
		lote("b", "4.25", "2.10", 2),
		lote("c", "10", "1.90", 1),
	}
	requested := dec("7.75")

	lines, shortfall, err := costing.Plan(batches, requested)
	require.NoError(t, err)
	assert.True(t, shortfall.IsZero())

	consumed := decimal.Zero
	for _, l := range lines {
		consumed = consumed.Add(l.QuantityUsed)
	}
	assert.True(t, consumed.Equal(requested),
		"consumido %s debe igualar pedido %s", consumed, requested)
}

// Pedido mayor al disponible: las líneas agotan todos los lotes y el
// faltante es la diferencia exacta.
func TestPlan_FaltanteExacto(t *testing.T) {
	batches := []*entity.InventoryBatch{
		lote("a", "4", "1.00", 2),
		lote("b", "3", "1.20", 1),
	}

	lines, shortfall, err := costing.Plan(batches, dec("10"))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, shortfall.Equal(dec("3")), "faltante 10-7=3, obtuve %s", shortfall)
	for _, l := range lines {
		assert.True(t, l.RemainingInBatch.IsZero(), "todos los lotes deben quedar agotados")
	}
}

// Cantidad cero o negativa es inválida, nunca un no-op silencioso.
func TestPlan_CantidadInvalida(t *testing.T) {
	batches := []*entity.InventoryBatch{lote("a", "5", "1.00", 1)}

	_, _, err := costing.Plan(batches, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, _, err = costing.Plan(batches, dec("-2"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Attribute (atribución de costos con fallback)
// ──────────────────────────────────────────────────────────────────────────────

// Sin faltante no hay estimación: Total == ExactCost.
func TestAttribute_SinFaltante(t *testing.T) {
	lines := []entity.DeductionLine{
		{BatchID: "a", QuantityUsed: dec("2"), UnitCost: dec("3.00")},
	}
	bd := costing.Attribute(lines, decimal.Zero, nil)

	assert.False(t, bd.Estimated)
	assert.False(t, bd.NoHistory)
	assert.True(t, bd.Total().Equal(dec("6")))
}

// El faltante se valúa al costo del lote más reciente y queda marcado como
// estimado, separado del costo exacto.
func TestAttribute_FaltanteConFallback(t *testing.T) {
	lines := []entity.DeductionLine{
		{BatchID: "a", QuantityUsed: dec("4"), UnitCost: dec("1.00")},
	}
	latest := dec("1.50")
	bd := costing.Attribute(lines, dec("3"), &latest)

	assert.True(t, bd.Estimated, "debe marcarse estimado")
	assert.False(t, bd.NoHistory)
	assert.True(t, bd.ExactCost.Equal(dec("4")))
	assert.True(t, bd.EstimatedCost.Equal(dec("4.5")), "3 × 1.50 = 4.50")
	assert.True(t, bd.Total().Equal(dec("8.5")))
}

// Ítem sin historia de lotes: el faltante vale cero y se señala NoHistory
// en vez de fallar.
func TestAttribute_SinHistoria(t *testing.T) {
	bd := costing.Attribute(nil, dec("5"), nil)

	assert.True(t, bd.Estimated)
	assert.True(t, bd.NoHistory)
	assert.True(t, bd.EstimatedCost.IsZero())
	assert.True(t, bd.Total().IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests WeightedAverageUnitCost (foto consultiva)
// ──────────────────────────────────────────────────────────────────────────────

// Promedio ponderado: (10×1.00 + 5×1.60) / 15 = 1.20.
func TestWeightedAverage_Pondera(t *testing.T) {
	batches := []*entity.InventoryBatch{
		lote("a", "10", "1.00", 2),
		lote("b", "5", "1.60", 1),
	}
	avg, ok := costing.WeightedAverageUnitCost(batches)
	require.True(t, ok)
	assert.True(t, avg.Equal(dec("1.2")), "promedio ponderado 1.20, obtuve %s", avg)
}

// Sin stock disponible el promedio no existe.
func TestWeightedAverage_SinStock(t *testing.T) {
	avg, ok := costing.WeightedAverageUnitCost(nil)
	assert.False(t, ok)
	assert.True(t, avg.IsZero())
}
