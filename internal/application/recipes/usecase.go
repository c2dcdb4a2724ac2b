package recipes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/costing"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
	"github.com/cocinaops/CocinaOps-api/pkg/logger"
)

// costCacheTTL vida del costeo cacheado. Corto: el stock cambia con cada
// deducción y el costeo es solo consultivo.
const costCacheTTL = time.Minute

// RecipeUseCase administra recetas y proyecta su lista de ingredientes sobre
// el stock disponible para producir costo total y por porción.
type RecipeUseCase struct {
	recipeRepo repository.RecipeRepository
	batchRepo  repository.BatchRepository
	cache      CostCache
	log        *logger.Logger
}

// NewRecipeUseCase construye el caso de uso. cache nil usa NoopCostCache;
// log nil descarta los logs.
func NewRecipeUseCase(recipeRepo repository.RecipeRepository, batchRepo repository.BatchRepository, cache CostCache, log *logger.Logger) *RecipeUseCase {
	if cache == nil {
		cache = NoopCostCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecipeUseCase{recipeRepo: recipeRepo, batchRepo: batchRepo, cache: cache, log: log}
}

// CreateRecipeInput entrada para crear una receta.
type CreateRecipeInput struct {
	ProductName string
	PortionSize decimal.Decimal
	Ingredients []entity.RecipeIngredient
}

// CreateRecipe valida y persiste una receta nueva.
func (uc *RecipeUseCase) CreateRecipe(ctx context.Context, scope entity.TenantContext, in CreateRecipeInput) (*entity.Recipe, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if in.ProductName == "" || len(in.Ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !in.PortionSize.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	for _, ing := range in.Ingredients {
		if ing.ItemName == "" || ing.Unit == "" {
			return nil, domain.ErrInvalidInput
		}
		if !ing.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
	}
	now := time.Now()
	recipe := &entity.Recipe{
		ID:          uuid.New().String(),
		TenantID:    scope.TenantID,
		ProductName: in.ProductName,
		PortionSize: in.PortionSize,
		Ingredients: in.Ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe devuelve una receta del tenant.
func (uc *RecipeUseCase) GetRecipe(ctx context.Context, scope entity.TenantContext, recipeID string) (*entity.Recipe, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return uc.recipeRepo.GetByID(scope.TenantID, recipeID)
}

// ListRecipes lista recetas del tenant (paginado).
func (uc *RecipeUseCase) ListRecipes(ctx context.Context, scope entity.TenantContext, limit, offset int) ([]*entity.Recipe, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return uc.recipeRepo.List(scope.TenantID, limit, offset)
}

// IngredientCost costo consultivo de un ingrediente dentro de una receta.
type IngredientCost struct {
	ItemName string
	Unit     string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal // promedio ponderado del stock disponible
	Cost     decimal.Decimal
	Missing  bool // sin stock disponible: costo 0
}

// RecipeCost resultado del costeo de una receta.
type RecipeCost struct {
	RecipeID       string
	ProductName    string
	PortionSize    decimal.Decimal
	TotalCost      decimal.Decimal
	CostPerPortion decimal.Decimal
	Ingredients    []IngredientCost
	ComputedAt     time.Time
}

// CalculateCost proyecta la receta sobre el stock disponible: costo unitario
// promedio ponderado por ingrediente (foto consultiva, distinta del FIFO
// exacto del consumo real) × cantidad, total y por porción. Solo lectura.
func (uc *RecipeUseCase) CalculateCost(ctx context.Context, scope entity.TenantContext, recipeID, branchID string) (*RecipeCost, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}

	// El cache es consultivo: un fallo degrada a recalcular, nunca rompe el
	// costeo, pero sí se deja registro.
	cacheKey := fmt.Sprintf("recipecost:%s:%s:%s", scope.TenantID, branchID, recipeID)
	cached, ok, err := uc.cache.Get(ctx, cacheKey)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", cacheKey).Msg("cache de costeo: fallo al leer")
	} else if ok {
		return cached, nil
	}

	recipe, err := uc.recipeRepo.GetByID(scope.TenantID, recipeID)
	if err != nil {
		return nil, err
	}
	result, err := uc.costRecipe(scope.TenantID, branchID, recipe)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, cacheKey, result, costCacheTTL); err != nil {
		uc.log.Warn().Err(err).Str("key", cacheKey).Msg("cache de costeo: fallo al escribir")
	}
	return result, nil
}

// costRecipe calcula el costeo sin pasar por cache. Un tamaño de porción
// no positivo es un error de configuración, nunca se divide en silencio.
func (uc *RecipeUseCase) costRecipe(tenantID, branchID string, recipe *entity.Recipe) (*RecipeCost, error) {
	if !recipe.PortionSize.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	result := &RecipeCost{
		RecipeID:    recipe.ID,
		ProductName: recipe.ProductName,
		PortionSize: recipe.PortionSize,
		TotalCost:   decimal.Zero,
		Ingredients: make([]IngredientCost, 0, len(recipe.Ingredients)),
		ComputedAt:  time.Now(),
	}
	for _, ing := range recipe.Ingredients {
		batches, err := uc.batchRepo.ListAvailable(tenantID, branchID, ing.ItemName, ing.Unit)
		if err != nil {
			return nil, err
		}
		unitCost, ok := costing.WeightedAverageUnitCost(batches)
		ic := IngredientCost{
			ItemName: ing.ItemName,
			Unit:     ing.Unit,
			Quantity: ing.Quantity,
			UnitCost: unitCost,
			Cost:     unitCost.Mul(ing.Quantity),
			Missing:  !ok,
		}
		result.TotalCost = result.TotalCost.Add(ic.Cost)
		result.Ingredients = append(result.Ingredients, ic)
	}
	result.CostPerPortion = result.TotalCost.Div(recipe.PortionSize)
	return result, nil
}
