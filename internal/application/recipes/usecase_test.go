package recipes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/application/recipes"
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

type fixture struct {
	store    *memory.Store
	ledgerUC *ledger.LedgerUseCase
	recipeUC *recipes.RecipeUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:    store,
		ledgerUC: ledger.NewLedgerUseCase(store, store.Batches(), store.StockLevels()),
		recipeUC: recipes.NewRecipeUseCase(store.Recipes(), store.Batches(), nil, nil),
	}
}

func (f *fixture) stock(t *testing.T, item, unit, qty, cost string) {
	t.Helper()
	_, err := f.ledgerUC.AddBatch(context.Background(), gerente(), ledger.AddBatchInput{
		ItemName: item, Unit: unit, Quantity: dec(qty), UnitCost: dec(cost),
		ReceivedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CalculateCost
// ──────────────────────────────────────────────────────────────────────────────

// Costeo con promedio ponderado por ingrediente y reparto por porción:
// costPerPortion × portionSize debe reconstruir el total.
func TestCalculateCost_PromedioPonderadoYPorcion(t *testing.T) {
	f := newFixture(t)
	scope := gerente()
	// harina: (10×1.00 + 5×1.60)/15 = 1.20 por kg
	f.stock(t, "harina", "kg", "10", "1.00")
	f.stock(t, "harina", "kg", "5", "1.60")
	f.stock(t, "queso", "kg", "8", "4.00")

	recipe, err := f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pizza",
		PortionSize: dec("4"),
		Ingredients: []entity.RecipeIngredient{
			{ItemName: "harina", Quantity: dec("2"), Unit: "kg"},
			{ItemName: "queso", Quantity: dec("1"), Unit: "kg"},
		},
	})
	require.NoError(t, err)

	cost, err := f.recipeUC.CalculateCost(context.Background(), scope, recipe.ID, "")
	require.NoError(t, err)

	// 2×1.20 + 1×4.00 = 6.40
	assert.True(t, cost.TotalCost.Equal(dec("6.4")), "total 6.40, obtuve %s", cost.TotalCost)
	assert.True(t, cost.CostPerPortion.Mul(cost.PortionSize).Equal(cost.TotalCost),
		"costo por porción × porciones debe reconstruir el total")

	require.Len(t, cost.Ingredients, 2)
	assert.True(t, cost.Ingredients[0].UnitCost.Equal(dec("1.2")))
	assert.False(t, cost.Ingredients[0].Missing)
}

// El costeo es consultivo: no debe deducir stock.
func TestCalculateCost_NoDeduceStock(t *testing.T) {
	f := newFixture(t)
	scope := gerente()
	f.stock(t, "harina", "kg", "10", "1.00")

	recipe, err := f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pan",
		PortionSize: dec("1"),
		Ingredients: []entity.RecipeIngredient{{ItemName: "harina", Quantity: dec("3"), Unit: "kg"}},
	})
	require.NoError(t, err)

	_, err = f.recipeUC.CalculateCost(context.Background(), scope, recipe.ID, "")
	require.NoError(t, err)

	disponibles, err := f.ledgerUC.QueryAvailable(context.Background(), scope, "", "harina", "kg")
	require.NoError(t, err)
	require.Len(t, disponibles, 1)
	assert.True(t, disponibles[0].Quantity.Equal(dec("10")), "el costeo no consume lotes")
}

// Ingrediente sin stock: costo 0 y marcado missing, el costeo no falla.
func TestCalculateCost_IngredienteSinStock(t *testing.T) {
	f := newFixture(t)
	scope := gerente()
	f.stock(t, "harina", "kg", "10", "1.00")

	recipe, err := f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pan con azafrán",
		PortionSize: dec("2"),
		Ingredients: []entity.RecipeIngredient{
			{ItemName: "harina", Quantity: dec("1"), Unit: "kg"},
			{ItemName: "azafrán", Quantity: dec("0.01"), Unit: "kg"},
		},
	})
	require.NoError(t, err)

	cost, err := f.recipeUC.CalculateCost(context.Background(), scope, recipe.ID, "")
	require.NoError(t, err)
	require.Len(t, cost.Ingredients, 2)
	assert.False(t, cost.Ingredients[0].Missing)
	assert.True(t, cost.Ingredients[1].Missing, "ingrediente sin stock debe marcarse missing")
	assert.True(t, cost.Ingredients[1].Cost.IsZero())
	assert.True(t, cost.TotalCost.Equal(dec("1")), "solo cuenta la harina: 1×1.00")
}

// Receta de otro tenant es ErrNotFound, no se filtra existencia.
func TestCalculateCost_RecetaDeOtroTenant(t *testing.T) {
	f := newFixture(t)
	recipe, err := f.recipeUC.CreateRecipe(context.Background(), gerente(), recipes.CreateRecipeInput{
		ProductName: "pizza",
		PortionSize: dec("4"),
		Ingredients: []entity.RecipeIngredient{{ItemName: "harina", Quantity: dec("2"), Unit: "kg"}},
	})
	require.NoError(t, err)

	otro := entity.TenantContext{TenantID: "t2", BranchID: "b1", UserID: "u9", Role: entity.RoleGerente}
	_, err = f.recipeUC.CalculateCost(context.Background(), otro, recipe.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateRecipe (validación)
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRecipe_Validacion(t *testing.T) {
	f := newFixture(t)
	scope := gerente()

	_, err := f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pizza",
		PortionSize: decimal.Zero,
		Ingredients: []entity.RecipeIngredient{{ItemName: "harina", Quantity: dec("1"), Unit: "kg"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "porción cero se rechaza al crear")

	_, err = f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pizza",
		PortionSize: dec("4"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "receta sin ingredientes se rechaza")

	_, err = f.recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pizza",
		PortionSize: dec("4"),
		Ingredients: []entity.RecipeIngredient{{ItemName: "harina", Quantity: dec("-1"), Unit: "kg"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad negativa de ingrediente se rechaza")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests cache de costeo (degradación)
// ──────────────────────────────────────────────────────────────────────────────

// cacheCaido simula un backend de cache inalcanzable: todo falla.
type cacheCaido struct {
	gets int
	sets int
}

func (c *cacheCaido) Get(_ context.Context, _ string) (*recipes.RecipeCost, bool, error) {
	c.gets++
	return nil, false, errors.New("conexión rechazada")
}

func (c *cacheCaido) Set(_ context.Context, _ string, _ *recipes.RecipeCost, _ time.Duration) error {
	c.sets++
	return errors.New("conexión rechazada")
}

// Un cache caído degrada a recalcular: el costeo sigue funcionando y los
// errores de lectura y escritura no se propagan al llamador.
func TestCalculateCost_CacheCaidoNoRompeElCosteo(t *testing.T) {
	store := memory.NewStore()
	caido := &cacheCaido{}
	ledgerUC := ledger.NewLedgerUseCase(store, store.Batches(), store.StockLevels())
	recipeUC := recipes.NewRecipeUseCase(store.Recipes(), store.Batches(), caido, nil)
	scope := gerente()

	_, err := ledgerUC.AddBatch(context.Background(), scope, ledger.AddBatchInput{
		ItemName: "harina", Unit: "kg", Quantity: dec("10"), UnitCost: dec("1.00"),
		ReceivedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	recipe, err := recipeUC.CreateRecipe(context.Background(), scope, recipes.CreateRecipeInput{
		ProductName: "pan",
		PortionSize: dec("1"),
		Ingredients: []entity.RecipeIngredient{{ItemName: "harina", Quantity: dec("2"), Unit: "kg"}},
	})
	require.NoError(t, err)

	cost, err := recipeUC.CalculateCost(context.Background(), scope, recipe.ID, "")
	require.NoError(t, err, "el fallo del cache nunca debe fallar el costeo")
	assert.True(t, cost.TotalCost.Equal(dec("2")), "2×1.00 = 2, obtuve %s", cost.TotalCost)

	assert.Equal(t, 1, caido.gets, "se intentó leer del cache")
	assert.Equal(t, 1, caido.sets, "se intentó escribir el resultado pese al fallo de lectura")
}
