package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/costing"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// LedgerUseCase opera el libro de lotes: alta de lotes, consulta FIFO y la
// deducción transaccional que alimenta todo el cálculo de costos.
type LedgerUseCase struct {
	txRunner  TxRunner
	batchRepo repository.BatchRepository
	levelRepo repository.StockLevelRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, batchRepo repository.BatchRepository, levelRepo repository.StockLevelRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, batchRepo: batchRepo, levelRepo: levelRepo}
}

// AddBatchInput entrada para crear un lote por compra/recepción.
type AddBatchInput struct {
	BranchID   string // vacío = sucursal del contexto
	ItemName   string
	Category   string
	Unit       string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	ReceivedAt time.Time // cero = ahora
	ExpiresAt  time.Time
}

// AddBatch crea un lote nuevo. La reposición siempre es un lote nuevo, nunca
// incrementa uno existente; no hay tope de lotes concurrentes por ítem.
func (uc *LedgerUseCase) AddBatch(ctx context.Context, scope entity.TenantContext, in AddBatchInput) (*entity.InventoryBatch, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if in.ItemName == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = scope.BranchID
	}
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = now
	}
	batch := &entity.InventoryBatch{
		ID:         uuid.New().String(),
		TenantID:   scope.TenantID,
		BranchID:   branchID,
		ItemName:   in.ItemName,
		Category:   in.Category,
		Unit:       in.Unit,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		ReceivedAt: receivedAt,
		ExpiresAt:  in.ExpiresAt,
		CreatedBy:  scope.UserID,
		CreatedAt:  now,
	}
	if err := uc.batchRepo.Create(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// QueryAvailable devuelve los lotes disponibles en orden FIFO. Es lectura
// pura: no bloquea filas ni muta nada.
func (uc *LedgerUseCase) QueryAvailable(ctx context.Context, scope entity.TenantContext, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}
	return uc.batchRepo.ListAvailable(scope.TenantID, branchID, itemName, unit)
}

// ListBatches lista los lotes de una sucursal (paginado).
func (uc *LedgerUseCase) ListBatches(ctx context.Context, scope entity.TenantContext, branchID string, limit, offset int) ([]*entity.InventoryBatch, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}
	return uc.batchRepo.ListByBranch(scope.TenantID, branchID, limit, offset)
}

// StockLevelInput entrada para configurar niveles de un ítem.
type StockLevelInput struct {
	BranchID     string
	ItemName     string
	Category     string
	Unit         string
	MinQuantity  decimal.Decimal
	ReorderPoint decimal.Decimal
}

// ConfigureStockLevel crea la configuración de niveles. La clave compuesta
// (tenant, branch, item, category, unit) es única: duplicado = ErrDuplicate.
func (uc *LedgerUseCase) ConfigureStockLevel(ctx context.Context, scope entity.TenantContext, in StockLevelInput) (*entity.StockLevel, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !scope.CanMutateDirectly() {
		return nil, domain.ErrForbidden
	}
	if in.ItemName == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinQuantity.LessThan(decimal.Zero) || in.ReorderPoint.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = scope.BranchID
	}
	level := &entity.StockLevel{
		ID:           uuid.New().String(),
		TenantID:     scope.TenantID,
		BranchID:     branchID,
		ItemName:     in.ItemName,
		Category:     in.Category,
		Unit:         in.Unit,
		MinQuantity:  in.MinQuantity,
		ReorderPoint: in.ReorderPoint,
		UpdatedAt:    time.Now(),
	}
	if err := uc.levelRepo.Create(level); err != nil {
		return nil, err
	}
	return level, nil
}

// ListStockLevels lista la configuración de niveles de una sucursal.
func (uc *LedgerUseCase) ListStockLevels(ctx context.Context, scope entity.TenantContext, branchID string) ([]*entity.StockLevel, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if branchID == "" {
		branchID = scope.BranchID
	}
	return uc.levelRepo.List(scope.TenantID, branchID)
}

// DeductInput entrada para una deducción FIFO.
type DeductInput struct {
	BranchID string
	ItemName string
	Unit     string
	Quantity decimal.Decimal
}

// Deduct ejecuta la deducción FIFO estricta dentro de una transacción con
// bloqueo de filas. Si el disponible no alcanza devuelve
// ErrInsufficientInventory y ningún lote queda modificado (todo o nada).
// Es la vía de edición directa de inventario: exige rol con mutación directa.
func (uc *LedgerUseCase) Deduct(ctx context.Context, scope entity.TenantContext, in DeductInput) (costing.Breakdown, error) {
	if err := scope.Validate(); err != nil {
		return costing.Breakdown{}, err
	}
	if !scope.CanMutateDirectly() {
		return costing.Breakdown{}, domain.ErrForbidden
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = scope.BranchID
	}
	var bd costing.Breakdown
	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository) error {
		var err error
		bd, err = deductLocked(batchRepo, scope.TenantID, branchID, in.ItemName, in.Unit, in.Quantity, false)
		return err
	})
	if err != nil {
		return costing.Breakdown{}, err
	}
	return bd, nil
}

// DeductAvailable consume hasta donde alcancen los lotes y valúa el faltante
// con el fallback (costo del lote recibido más recientemente). Nunca falla
// por faltante: es la primitiva del motor de desperdicios, que debe poder
// registrar el evento aun con inventario imperfecto. Debe invocarse con un
// batchRepo atado a la transacción del caller.
func DeductAvailable(batchRepo repository.BatchRepository, tenantID, branchID, itemName, unit string, quantity decimal.Decimal) (costing.Breakdown, error) {
	return deductLocked(batchRepo, tenantID, branchID, itemName, unit, quantity, true)
}

// deductLocked bloquea los lotes disponibles, arma el plan FIFO y lo aplica:
// lote en cero se elimina, lote parcial se actualiza. Con allowPartial=false
// el faltante aborta la transacción completa.
func deductLocked(batchRepo repository.BatchRepository, tenantID, branchID, itemName, unit string, quantity decimal.Decimal, allowPartial bool) (costing.Breakdown, error) {
	if tenantID == "" {
		return costing.Breakdown{}, domain.ErrScopeViolation
	}
	batches, err := batchRepo.ListAvailableForUpdate(tenantID, branchID, itemName, unit)
	if err != nil {
		return costing.Breakdown{}, err
	}
	lines, shortfall, err := costing.Plan(batches, quantity)
	if err != nil {
		return costing.Breakdown{}, err
	}
	if shortfall.GreaterThan(decimal.Zero) && !allowPartial {
		return costing.Breakdown{}, domain.ErrInsufficientInventory
	}
	for _, line := range lines {
		if line.RemainingInBatch.GreaterThan(decimal.Zero) {
			err = batchRepo.UpdateQuantity(tenantID, line.BatchID, line.RemainingInBatch)
		} else {
			err = batchRepo.Delete(tenantID, line.BatchID)
		}
		if err != nil {
			return costing.Breakdown{}, err
		}
	}
	// Fallback: costo unitario del lote recibido más recientemente. La lista
	// viene en orden FIFO, así que es el último elemento antes de aplicar
	// las eliminaciones de esta misma deducción.
	var latest *decimal.Decimal
	if len(batches) > 0 {
		latest = &batches[len(batches)-1].UnitCost
	}
	return costing.Attribute(lines, shortfall, latest), nil
}
