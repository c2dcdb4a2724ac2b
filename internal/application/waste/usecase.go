package waste

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
	"github.com/cocinaops/CocinaOps-api/internal/domain/waste"
)

// WasteUseCase valúa y registra desperdicios. RAW deduce stock del ítem
// directamente; PRODUCT deduce los ingredientes de la receta prorrateados
// por porción. En ambos casos el costo sale del libro de lotes (FIFO exacto
// con fallback marcado), jamás del usuario.
type WasteUseCase struct {
	txRunner   TxRunner
	recipeRepo repository.RecipeRepository
	wasteRepo  repository.WasteRepository
}

// NewWasteUseCase construye el caso de uso.
func NewWasteUseCase(txRunner TxRunner, recipeRepo repository.RecipeRepository, wasteRepo repository.WasteRepository) *WasteUseCase {
	return &WasteUseCase{txRunner: txRunner, recipeRepo: recipeRepo, wasteRepo: wasteRepo}
}

// RegisterWasteInput entrada para registrar un desperdicio.
// RAW: ItemName + Unit. PRODUCT: RecipeID.
type RegisterWasteInput struct {
	BranchID    string
	Kind        string // RAW | PRODUCT
	ItemName    string
	Unit        string
	RecipeID    string
	Quantity    decimal.Decimal
	Severity    string // vacío = MEDIUM
	Preventable bool
	Reason      string
	Tags        []string
}

// IngredientWasteCost desglose por ingrediente de un desperdicio PRODUCT:
// qué ingredientes se valuaron con lotes reales y cuáles con estimación.
type IngredientWasteCost struct {
	ItemName  string
	Unit      string
	Required  decimal.Decimal
	Shortfall decimal.Decimal
	Cost      decimal.Decimal
	Estimated bool
	NoHistory bool
}

// WasteResult evento persistido más el desglose de valuación.
type WasteResult struct {
	Event       *entity.WasteEvent
	Ingredients []IngredientWasteCost // solo PRODUCT
}

// RegisterWaste valúa y persiste el evento en una sola transacción. Un
// faltante de inventario no aborta el registro: la parte no cubierta se
// estima con el fallback y el resultado queda marcado como estimado
// (degradación intencional, no un error).
func (uc *WasteUseCase) RegisterWaste(ctx context.Context, scope entity.TenantContext, in RegisterWasteInput) (*WasteResult, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	severity := in.Severity
	if severity == "" {
		severity = entity.WasteSeverityMedium
	}
	switch severity {
	case entity.WasteSeverityLow, entity.WasteSeverityMedium, entity.WasteSeverityHigh:
	default:
		return nil, domain.ErrInvalidInput
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = scope.BranchID
	}
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}

	switch in.Kind {
	case entity.WasteKindRaw:
		if in.ItemName == "" || in.Unit == "" {
			return nil, domain.ErrInvalidInput
		}
		return uc.registerRaw(ctx, scope, branchID, severity, in)
	case entity.WasteKindProduct:
		if in.RecipeID == "" {
			return nil, domain.ErrInvalidInput
		}
		return uc.registerProduct(ctx, scope, branchID, severity, in)
	default:
		return nil, domain.ErrInvalidInput
	}
}

// registerRaw: deducción directa del ítem. El desperdicio crudo sí remueve
// stock real.
func (uc *WasteUseCase) registerRaw(ctx context.Context, scope entity.TenantContext, branchID, severity string, in RegisterWasteInput) (*WasteResult, error) {
	var result *WasteResult
	err := uc.txRunner.RunWaste(ctx, func(batchRepo repository.BatchRepository, wasteRepo repository.WasteRepository) error {
		bd, err := ledger.DeductAvailable(batchRepo, scope.TenantID, branchID, in.ItemName, in.Unit, in.Quantity)
		if err != nil {
			return err
		}
		event := uc.buildEvent(scope, branchID, severity, in)
		event.ItemName = in.ItemName
		event.Unit = in.Unit
		event.Cost = bd.Total()
		event.Estimated = bd.Estimated
		if err := wasteRepo.Create(event); err != nil {
			return err
		}
		result = &WasteResult{Event: event}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// registerProduct: prorratea la receta (multiplicador = cantidad / porción)
// y deduce cada ingrediente igual que un RAW. El faltante de un ingrediente
// usa el fallback en vez de abortar el evento; el resultado enumera qué
// ingredientes fueron exactos y cuáles estimados.
func (uc *WasteUseCase) registerProduct(ctx context.Context, scope entity.TenantContext, branchID, severity string, in RegisterWasteInput) (*WasteResult, error) {
	recipe, err := uc.recipeRepo.GetByID(scope.TenantID, in.RecipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.PortionSize.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	multiplier := in.Quantity.Div(recipe.PortionSize)

	var result *WasteResult
	err = uc.txRunner.RunWaste(ctx, func(batchRepo repository.BatchRepository, wasteRepo repository.WasteRepository) error {
		totalCost := decimal.Zero
		estimated := false
		ingredients := make([]IngredientWasteCost, 0, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			required := ing.Quantity.Mul(multiplier)
			bd, err := ledger.DeductAvailable(batchRepo, scope.TenantID, branchID, ing.ItemName, ing.Unit, required)
			if err != nil {
				return err
			}
			totalCost = totalCost.Add(bd.Total())
			estimated = estimated || bd.Estimated
			ingredients = append(ingredients, IngredientWasteCost{
				ItemName:  ing.ItemName,
				Unit:      ing.Unit,
				Required:  required,
				Shortfall: bd.Shortfall,
				Cost:      bd.Total(),
				Estimated: bd.Estimated,
				NoHistory: bd.NoHistory,
			})
		}
		event := uc.buildEvent(scope, branchID, severity, in)
		event.RecipeID = recipe.ID
		event.ItemName = recipe.ProductName
		event.Cost = totalCost
		event.Estimated = estimated
		if err := wasteRepo.Create(event); err != nil {
			return err
		}
		result = &WasteResult{Event: event, Ingredients: ingredients}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// buildEvent arma el evento común: etiquetas derivadas del motivo (taxonomía
// primero, luego etiquetas del usuario, luego el tipo), id y auditoría.
func (uc *WasteUseCase) buildEvent(scope entity.TenantContext, branchID, severity string, in RegisterWasteInput) *entity.WasteEvent {
	return &entity.WasteEvent{
		ID:          uuid.New().String(),
		TenantID:    scope.TenantID,
		BranchID:    branchID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		Severity:    severity,
		Preventable: in.Preventable,
		Reason:      in.Reason,
		Tags:        waste.DeriveTags(in.Reason, in.Tags, in.Kind),
		CreatedBy:   scope.UserID,
		CreatedAt:   time.Now(),
	}
}

// ListWaste lista eventos de la sucursal (paginado, rango opcional).
func (uc *WasteUseCase) ListWaste(ctx context.Context, scope entity.TenantContext, branchID string, from, to *time.Time, limit, offset int) ([]*entity.WasteEvent, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}
	return uc.wasteRepo.ListByBranch(scope.TenantID, branchID, from, to, limit, offset)
}
