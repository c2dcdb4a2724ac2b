package waste_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/application/recipes"
	"github.com/cocinaops/CocinaOps-api/internal/application/waste"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	domwaste "github.com/cocinaops/CocinaOps-api/internal/domain/waste"
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

type fixture struct {
	store    *memory.Store
	ledgerUC *ledger.LedgerUseCase
	recipeUC *recipes.RecipeUseCase
	wasteUC  *waste.WasteUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:    store,
		ledgerUC: ledger.NewLedgerUseCase(store, store.Batches(), store.StockLevels()),
		recipeUC: recipes.NewRecipeUseCase(store.Recipes(), store.Batches(), nil, nil),
		wasteUC:  waste.NewWasteUseCase(store, store.Recipes(), store.Waste()),
	}
}

func (f *fixture) stock(t *testing.T, item, qty, cost string, receivedAt time.Time) {
	t.Helper()
	_, err := f.ledgerUC.AddBatch(context.Background(), gerente(), ledger.AddBatchInput{
		ItemName: item, Unit: "kg", Quantity: dec(qty), UnitCost: dec(cost), ReceivedAt: receivedAt,
	})
	require.NoError(t, err)
}

func (f *fixture) available(t *testing.T, item string) decimal.Decimal {
	t.Helper()
	batches, err := f.ledgerUC.QueryAvailable(context.Background(), gerente(), "", item, "kg")
	require.NoError(t, err)
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Quantity)
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RAW
// ──────────────────────────────────────────────────────────────────────────────

// Desperdicio RAW con stock suficiente: deduce FIFO y valúa exacto.
func TestRegisterWaste_RawDeduceYValua(t *testing.T) {
	f := newFixture(t)
	base := time.Now().Add(-48 * time.Hour)
	f.stock(t, "tomate", "10", "1.00", base)
	f.stock(t, "tomate", "10", "1.50", base.Add(time.Hour))

	result, err := f.wasteUC.RegisterWaste(context.Background(), gerente(), waste.RegisterWasteInput{
		Kind:     entity.WasteKindRaw,
		ItemName: "tomate",
		Unit:     "kg",
		Quantity: dec("12"),
		Severity: entity.WasteSeverityHigh,
		Reason:   "caja dañada en recepción",
	})
	require.NoError(t, err)

	assert.True(t, result.Event.Cost.Equal(dec("13")), "10×1.00 + 2×1.50 = 13, obtuve %s", result.Event.Cost)
	assert.False(t, result.Event.Estimated)
	assert.True(t, f.available(t, "tomate").Equal(dec("8")), "el stock baja por el desperdicio")
	assert.Contains(t, result.Event.Tags, domwaste.TagDamage)
	assert.Contains(t, result.Event.Tags, entity.WasteKindRaw)
}

// RAW con faltante: consume lo disponible y estima el resto al costo del
// lote más reciente, marcado como estimado. El registro nunca se bloquea.
func TestRegisterWaste_RawConFaltanteEstima(t *testing.T) {
	f := newFixture(t)
	base := time.Now().Add(-48 * time.Hour)
	f.stock(t, "tomate", "4", "1.00", base)
	f.stock(t, "tomate", "3", "1.20", base.Add(time.Hour))

	result, err := f.wasteUC.RegisterWaste(context.Background(), gerente(), waste.RegisterWasteInput{
		Kind:     entity.WasteKindRaw,
		ItemName: "tomate",
		Unit:     "kg",
		Quantity: dec("10"),
		Reason:   "producto vencido",
	})
	require.NoError(t, err)

	// exacto 4×1.00 + 3×1.20 = 7.60; faltante 3 × 1.20 (lote más reciente) = 3.60
	assert.True(t, result.Event.Cost.Equal(dec("11.2")), "7.60 + 3.60 = 11.20, obtuve %s", result.Event.Cost)
	assert.True(t, result.Event.Estimated, "parte del costo es estimado")
	assert.True(t, f.available(t, "tomate").IsZero(), "todo el stock quedó consumido")
}

// RAW de un ítem sin historia: costo cero, estimado, sin fallar.
func TestRegisterWaste_RawSinHistoria(t *testing.T) {
	f := newFixture(t)

	result, err := f.wasteUC.RegisterWaste(context.Background(), gerente(), waste.RegisterWasteInput{
		Kind:     entity.WasteKindRaw,
		ItemName: "azafrán",
		Unit:     "kg",
		Quantity: dec("1"),
		Reason:   "derrame",
	})
	require.NoError(t, err)
	assert.True(t, result.Event.Cost.IsZero())
	assert.True(t, result.Event.Estimated)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PRODUCT
// ──────────────────────────────────────────────────────────────────────────────

// PRODUCT prorratea la receta por porción y deduce cada ingrediente.
func TestRegisterWaste_ProductProrratea(t *testing.T) {
	f := newFixture(t)
	scope := gerente()
	base := time.Now().Add(-48 * time.Hour)
	f.stock(t, "harina", "10", "1.00", base)
	f.stock(t, "queso", "10", "4.00", base)

	recipe, err := f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pizza",
		PortionSize: dec("4"),
		Ingredients: []entity.RecipeIngredient{
			{ItemName: "harina", Quantity: dec("2"), Unit: "kg"},
			{ItemName: "queso", Quantity: dec("1"), Unit: "kg"},
		},
	})
	require.NoError(t, err)

	// 2 porciones = multiplicador 0.5: harina 1kg, queso 0.5kg
	result, err := f.wasteUC.RegisterWaste(context.Background(), scope, waste.RegisterWasteInput{
		Kind:     entity.WasteKindProduct,
		RecipeID: recipe.ID,
		Quantity: dec("2"),
		Reason:   "pizza quemada",
	})
	require.NoError(t, err)

	// 1×1.00 + 0.5×4.00 = 3.00
	assert.True(t, result.Event.Cost.Equal(dec("3")), "costo 3.00, obtuve %s", result.Event.Cost)
	assert.False(t, result.Event.Estimated)
	assert.Contains(t, result.Event.Tags, domwaste.TagCookingError)

	require.Len(t, result.Ingredients, 2)
	assert.True(t, f.available(t, "harina").Equal(dec("9")))
	assert.True(t, f.available(t, "queso").Equal(dec("9.5")))
}

// PRODUCT con un ingrediente corto: ese ingrediente se estima, los demás
// exactos, y el desglose enumera cuál fue cuál.
func TestRegisterWaste_ProductIngredienteCorto(t *testing.T) {
	f := newFixture(t)
	scope := gerente()
	base := time.Now().Add(-48 * time.Hour)
	f.stock(t, "harina", "10", "1.00", base)
	f.stock(t, "queso", "0.2", "4.00", base)

	recipe, err := f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pizza",
		PortionSize: dec("4"),
		Ingredients: []entity.RecipeIngredient{
			{ItemName: "harina", Quantity: dec("2"), Unit: "kg"},
			{ItemName: "queso", Quantity: dec("1"), Unit: "kg"},
		},
	})
	require.NoError(t, err)

	result, err := f.wasteUC.RegisterWaste(context.Background(), scope, waste.RegisterWasteInput{
		Kind:     entity.WasteKindProduct,
		RecipeID: recipe.ID,
		Quantity: dec("2"),
		Reason:   "devolución de cliente",
	})
	require.NoError(t, err)

	assert.True(t, result.Event.Estimated, "el evento hereda la estimación del ingrediente corto")
	require.Len(t, result.Ingredients, 2)

	harina, queso := result.Ingredients[0], result.Ingredients[1]
	assert.False(t, harina.Estimated, "harina alcanzó")
	assert.True(t, queso.Estimated, "queso quedó corto")
	assert.True(t, queso.Shortfall.Equal(dec("0.3")), "faltaron 0.5-0.2=0.3 kg de queso")
	// queso: exacto 0.2×4.00 + estimado 0.3×4.00 = 2.00
	assert.True(t, queso.Cost.Equal(dec("2")), "costo del queso 2.00, obtuve %s", queso.Cost)
}

// Receta inexistente: no se persiste evento ni se deduce nada.
func TestRegisterWaste_ProductRecetaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.wasteUC.RegisterWaste(context.Background(), gerente(), waste.RegisterWasteInput{
		Kind:     entity.WasteKindProduct,
		RecipeID: "no-existe",
		Quantity: dec("1"),
		Reason:   "prueba",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	events, err := f.wasteUC.ListWaste(context.Background(), gerente(), "", nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests validación
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterWaste_Validacion(t *testing.T) {
	f := newFixture(t)
	scope := gerente()

	_, err := f.wasteUC.RegisterWaste(context.Background(), scope, waste.RegisterWasteInput{
		Kind: entity.WasteKindRaw, ItemName: "tomate", Unit: "kg", Quantity: decimal.Zero, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.wasteUC.RegisterWaste(context.Background(), scope, waste.RegisterWasteInput{
		Kind: "OTRO", ItemName: "tomate", Unit: "kg", Quantity: dec("1"), Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.wasteUC.RegisterWaste(context.Background(), scope, waste.RegisterWasteInput{
		Kind: entity.WasteKindRaw, ItemName: "tomate", Unit: "kg", Quantity: dec("1"),
		Severity: "CRITICAL", Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "severidad fuera del catálogo")

	// Severidad vacía toma MEDIUM por defecto.
	result, err := f.wasteUC.RegisterWaste(context.Background(), scope, waste.RegisterWasteInput{
		Kind: entity.WasteKindRaw, ItemName: "tomate", Unit: "kg", Quantity: dec("1"), Reason: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.WasteSeverityMedium, result.Event.Severity)
}
