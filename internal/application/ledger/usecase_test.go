package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func gerente() entity.TenantContext {
	return entity.TenantContext{TenantID: "t1", BranchID: "b1", UserID: "u1", Role: entity.RoleGerente}
}

func newLedger(t *testing.T) (*ledger.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := ledger.NewLedgerUseCase(store, store.Batches(), store.StockLevels())
	return uc, store
}

// addBatch inserta un lote con received_at controlado para fijar el orden FIFO.
func addBatch(t *testing.T, uc *ledger.LedgerUseCase, scope entity.TenantContext, qty, cost string, receivedAt time.Time) *entity.InventoryBatch {
	t.Helper()
	b, err := uc.AddBatch(context.Background(), scope, ledger.AddBatchInput{
		ItemName:   "tomate",
		Unit:       "kg",
		Quantity:   dec(qty),
		UnitCost:   dec(cost),
		ReceivedAt: receivedAt,
	})
	require.NoError(t, err)
	return b
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Deduct (deducción FIFO estricta)
// ──────────────────────────────────────────────────────────────────────────────

// Deducción que alcanza: consume en orden FIFO, elimina el lote agotado y
// deja el resto del lote nuevo disponible.
func TestDeduct_FIFOYLimpiezaDeLotes(t *testing.T) {
	uc, _ := newLedger(t)
	scope := gerente()
	base := time.Now().Add(-48 * time.Hour)
	viejo := addBatch(t, uc, scope, "10", "1.00", base)
	nuevo := addBatch(t, uc, scope, "10", "1.50", base.Add(24*time.Hour))

	bd, err := uc.Deduct(context.Background(), scope, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: dec("12"),
	})
	require.NoError(t, err)
	assert.True(t, bd.Total().Equal(dec("13")), "10×1.00 + 2×1.50 = 13, obtuve %s", bd.Total())
	assert.False(t, bd.Estimated)

	disponibles, err := uc.QueryAvailable(context.Background(), scope, "", "tomate", "kg")
	require.NoError(t, err)
	require.Len(t, disponibles, 1, "el lote agotado debe desaparecer, no quedar en cero")
	assert.Equal(t, nuevo.ID, disponibles[0].ID)
	assert.True(t, disponibles[0].Quantity.Equal(dec("8")))

	_, err = uc.Deduct(context.Background(), scope, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: dec("8"),
	})
	require.NoError(t, err)
	_ = viejo
}

// Insuficiencia: la deducción es todo-o-nada. Tras el fallo el estado debe
// ser idéntico al previo, ningún lote parcialmente consumido.
func TestDeduct_InsuficienciaNoDejaCambiosParciales(t *testing.T) {
	uc, _ := newLedger(t)
	scope := gerente()
	base := time.Now().Add(-48 * time.Hour)
	addBatch(t, uc, scope, "4", "1.00", base)
	addBatch(t, uc, scope, "3", "1.20", base.Add(time.Hour))

	antes, err := uc.QueryAvailable(context.Background(), scope, "", "tomate", "kg")
	require.NoError(t, err)

	_, err = uc.Deduct(context.Background(), scope, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)

	despues, err := uc.QueryAvailable(context.Background(), scope, "", "tomate", "kg")
	require.NoError(t, err)
	require.Len(t, despues, len(antes), "ningún lote debe desaparecer")
	for i := range antes {
		assert.Equal(t, antes[i].ID, despues[i].ID)
		assert.True(t, antes[i].Quantity.Equal(despues[i].Quantity),
			"lote %s: cantidad %s debe seguir siendo %s", antes[i].ID, despues[i].Quantity, antes[i].Quantity)
	}
}

// Cantidad cero o negativa se rechaza antes de tocar nada.
func TestDeduct_CantidadInvalida(t *testing.T) {
	uc, _ := newLedger(t)
	scope := gerente()
	addBatch(t, uc, scope, "5", "1.00", time.Now())

	_, err := uc.Deduct(context.Background(), scope, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Deduct(context.Background(), scope, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// El rol empleado no muta directamente: debe pasar por aprobación.
func TestDeduct_EmpleadoBloqueado(t *testing.T) {
	uc, _ := newLedger(t)
	scope := gerente()
	addBatch(t, uc, scope, "5", "1.00", time.Now())

	empleado := entity.TenantContext{TenantID: "t1", BranchID: "b1", UserID: "u2", Role: entity.RoleEmpleado}
	_, err := uc.Deduct(context.Background(), empleado, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Contexto sin tenant: violación de aislamiento, nunca un barrido global.
func TestDeduct_SinTenant(t *testing.T) {
	uc, _ := newLedger(t)
	scope := entity.TenantContext{BranchID: "b1", UserID: "u1", Role: entity.RoleAdmin}
	_, err := uc.Deduct(context.Background(), scope, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests aislamiento por tenant
// ──────────────────────────────────────────────────────────────────────────────

// El stock de un tenant es invisible para otro, aun con mismo ítem y sucursal.
func TestQueryAvailable_AislamientoPorTenant(t *testing.T) {
	uc, _ := newLedger(t)
	addBatch(t, uc, gerente(), "10", "1.00", time.Now())

	otro := entity.TenantContext{TenantID: "t2", BranchID: "b1", UserID: "u9", Role: entity.RoleGerente}
	disponibles, err := uc.QueryAvailable(context.Background(), otro, "", "tomate", "kg")
	require.NoError(t, err)
	assert.Empty(t, disponibles, "el tenant t2 no debe ver lotes de t1")

	_, err = uc.Deduct(context.Background(), otro, ledger.DeductInput{
		ItemName: "tomate", Unit: "kg", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory,
		"deducir contra stock de otro tenant equivale a no tener stock")
}

// El nombre del ítem y la unidad se comparan con igualdad exacta, igual que
// las columnas en SQL: "Tomate" y "tomate" son ítems distintos.
func TestQueryAvailable_DistingueMayusculas(t *testing.T) {
	uc, _ := newLedger(t)
	scope := gerente()
	addBatch(t, uc, scope, "10", "1.00", time.Now())

	disponibles, err := uc.QueryAvailable(context.Background(), scope, "", "Tomate", "kg")
	require.NoError(t, err)
	assert.Empty(t, disponibles, "\"Tomate\" no debe encontrar lotes de \"tomate\"")

	disponibles, err = uc.QueryAvailable(context.Background(), scope, "", "tomate", "KG")
	require.NoError(t, err)
	assert.Empty(t, disponibles, "la unidad también se compara exacta")

	_, err = uc.Deduct(context.Background(), scope, ledger.DeductInput{
		ItemName: "Tomate", Unit: "kg", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests niveles de stock
// ──────────────────────────────────────────────────────────────────────────────

// La clave compuesta (tenant, branch, item, category, unit) es única.
func TestConfigureStockLevel_Duplicado(t *testing.T) {
	uc, _ := newLedger(t)
	scope := gerente()
	in := ledger.StockLevelInput{
		ItemName:     "tomate",
		Category:     "verduras",
		Unit:         "kg",
		MinQuantity:  dec("5"),
		ReorderPoint: dec("10"),
	}
	_, err := uc.ConfigureStockLevel(context.Background(), scope, in)
	require.NoError(t, err)

	_, err = uc.ConfigureStockLevel(context.Background(), scope, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Misma clave salvo la unidad: no es duplicado.
	in.Unit = "caja"
	_, err = uc.ConfigureStockLevel(context.Background(), scope, in)
	assert.NoError(t, err)

	// La clave única compara exacto: cambiar mayúsculas produce otra clave.
	in.Unit = "Caja"
	_, err = uc.ConfigureStockLevel(context.Background(), scope, in)
	assert.NoError(t, err, "la clave compuesta no normaliza mayúsculas")
}

// El empleado tampoco configura niveles.
func TestConfigureStockLevel_EmpleadoBloqueado(t *testing.T) {
	uc, _ := newLedger(t)
	empleado := entity.TenantContext{TenantID: "t1", BranchID: "b1", UserID: "u2", Role: entity.RoleEmpleado}
	_, err := uc.ConfigureStockLevel(context.Background(), empleado, ledger.StockLevelInput{
		ItemName: "tomate", Unit: "kg", MinQuantity: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
