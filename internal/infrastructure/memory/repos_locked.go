package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// Accessors públicos del Store: devuelven adaptadores que toman el lock por
// llamada. Dentro de una transacción los repos vienen atados al snapshot y
// no re-bloquean (el lock lo sostiene runTx).

// Batches repositorio de lotes fuera de transacción.
func (s *Store) Batches() repository.BatchRepository { return lockedBatch{s} }

// Recipes repositorio de recetas.
func (s *Store) Recipes() repository.RecipeRepository { return lockedRecipe{s} }

// Waste repositorio de desperdicios fuera de transacción.
func (s *Store) Waste() repository.WasteRepository { return lockedWaste{s} }

// Approvals repositorio de solicitudes fuera de transacción.
func (s *Store) Approvals() repository.ApprovalRepository { return lockedApproval{s} }

// StockLevels repositorio de configuración de niveles.
func (s *Store) StockLevels() repository.StockLevelRepository { return lockedLevel{s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return lockedUser{s} }

// Reports consultas de reportes.
func (s *Store) Reports() repository.ReportRepository { return lockedReport{s} }

type lockedBatch struct{ s *Store }

func (l lockedBatch) Create(batch *entity.InventoryBatch) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.Create(batch)
}

func (l lockedBatch) GetByID(tenantID, batchID string) (*entity.InventoryBatch, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.GetByID(tenantID, batchID)
}

func (l lockedBatch) ListAvailable(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.ListAvailable(tenantID, branchID, itemName, unit)
}

func (l lockedBatch) ListAvailableForUpdate(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.ListAvailableForUpdate(tenantID, branchID, itemName, unit)
}

func (l lockedBatch) UpdateQuantity(tenantID, batchID string, quantity decimal.Decimal) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.UpdateQuantity(tenantID, batchID, quantity)
}

func (l lockedBatch) Delete(tenantID, batchID string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.Delete(tenantID, batchID)
}

func (l lockedBatch) Update(batch *entity.InventoryBatch) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.Update(batch)
}

func (l lockedBatch) ListByBranch(tenantID, branchID string, limit, offset int) ([]*entity.InventoryBatch, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return batchData{l.s.data}.ListByBranch(tenantID, branchID, limit, offset)
}

type lockedRecipe struct{ s *Store }

func (l lockedRecipe) Create(recipe *entity.Recipe) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return recipeData{l.s.data}.Create(recipe)
}

func (l lockedRecipe) GetByID(tenantID, recipeID string) (*entity.Recipe, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return recipeData{l.s.data}.GetByID(tenantID, recipeID)
}

func (l lockedRecipe) List(tenantID string, limit, offset int) ([]*entity.Recipe, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return recipeData{l.s.data}.List(tenantID, limit, offset)
}

type lockedWaste struct{ s *Store }

func (l lockedWaste) Create(event *entity.WasteEvent) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return wasteData{l.s.data}.Create(event)
}

func (l lockedWaste) GetByID(tenantID, wasteID string) (*entity.WasteEvent, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return wasteData{l.s.data}.GetByID(tenantID, wasteID)
}

func (l lockedWaste) ListByBranch(tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.WasteEvent, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return wasteData{l.s.data}.ListByBranch(tenantID, branchID, from, to, limit, offset)
}

func (l lockedWaste) Update(event *entity.WasteEvent) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return wasteData{l.s.data}.Update(event)
}

func (l lockedWaste) Delete(tenantID, wasteID string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return wasteData{l.s.data}.Delete(tenantID, wasteID)
}

type lockedApproval struct{ s *Store }

func (l lockedApproval) Create(request *entity.ApprovalRequest) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return approvalData{l.s.data}.Create(request)
}

func (l lockedApproval) GetByID(tenantID, requestID string) (*entity.ApprovalRequest, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return approvalData{l.s.data}.GetByID(tenantID, requestID)
}

func (l lockedApproval) GetByIDForUpdate(tenantID, requestID string) (*entity.ApprovalRequest, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return approvalData{l.s.data}.GetByIDForUpdate(tenantID, requestID)
}

func (l lockedApproval) List(tenantID, branchID, status string, limit, offset int) ([]*entity.ApprovalRequest, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return approvalData{l.s.data}.List(tenantID, branchID, status, limit, offset)
}

func (l lockedApproval) UpdateStatus(request *entity.ApprovalRequest) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return approvalData{l.s.data}.UpdateStatus(request)
}

type lockedLevel struct{ s *Store }

func (l lockedLevel) Create(level *entity.StockLevel) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return levelData{l.s.data}.Create(level)
}

func (l lockedLevel) List(tenantID, branchID string) ([]*entity.StockLevel, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return levelData{l.s.data}.List(tenantID, branchID)
}

type lockedUser struct{ s *Store }

func (l lockedUser) Create(user *entity.User) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return userData{l.s.data}.Create(user)
}

func (l lockedUser) FindByEmail(email string) (*entity.User, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return userData{l.s.data}.FindByEmail(email)
}

type lockedReport struct{ s *Store }

func (l lockedReport) LowStock(ctx context.Context, tenantID, branchID string) ([]entity.LowStockItem, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reportData{l.s.data}.LowStock(ctx, tenantID, branchID)
}

func (l lockedReport) WasteSummaryByTag(ctx context.Context, tenantID, branchID string, from, to time.Time) ([]repository.WasteTagSummaryRow, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reportData{l.s.data}.WasteSummaryByTag(ctx, tenantID, branchID, from, to)
}
