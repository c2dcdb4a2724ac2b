package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// requireTenant guardia de aislamiento: ninguna operación toca datos sin
// tenant id. Misma regla que el adaptador PostgreSQL.
func requireTenant(tenantID string) error {
	if tenantID == "" {
		return domain.ErrScopeViolation
	}
	return nil
}

// ── Lotes (sin lock: operan sobre *data; el lock lo pone el wrapper o la tx) ──

type batchData struct{ d *data }

func (r batchData) Create(batch *entity.InventoryBatch) error {
	if err := requireTenant(batch.TenantID); err != nil {
		return err
	}
	r.d.batches[batch.ID] = copyBatch(batch)
	return nil
}

func (r batchData) GetByID(tenantID, batchID string) (*entity.InventoryBatch, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	b, ok := r.d.batches[batchID]
	if !ok || b.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return copyBatch(b), nil
}

func (r batchData) listAvailable(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var out []*entity.InventoryBatch
	for _, b := range r.d.batches {
		if b.TenantID != tenantID || b.BranchID != branchID {
			continue
		}
		// Igualdad exacta, igual que la comparación de columnas en SQL.
		if b.ItemName != itemName || b.Unit != unit {
			continue
		}
		if !b.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, copyBatch(b))
	}
	// Contrato FIFO: received_at ASC con desempate por id ASC.
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return out, nil
}

func (r batchData) ListAvailable(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	return r.listAvailable(tenantID, branchID, itemName, unit)
}

// ListAvailableForUpdate: en memoria el mutex del Store ya serializa las
// transacciones, no hay bloqueo por fila que tomar.
func (r batchData) ListAvailableForUpdate(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error) {
	return r.listAvailable(tenantID, branchID, itemName, unit)
}

func (r batchData) UpdateQuantity(tenantID, batchID string, quantity decimal.Decimal) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	b, ok := r.d.batches[batchID]
	if !ok || b.TenantID != tenantID {
		return domain.ErrNotFound
	}
	c := copyBatch(b)
	c.Quantity = quantity
	r.d.batches[batchID] = c
	return nil
}

func (r batchData) Delete(tenantID, batchID string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	b, ok := r.d.batches[batchID]
	if !ok || b.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.d.batches, batchID)
	return nil
}

func (r batchData) Update(batch *entity.InventoryBatch) error {
	if err := requireTenant(batch.TenantID); err != nil {
		return err
	}
	b, ok := r.d.batches[batch.ID]
	if !ok || b.TenantID != batch.TenantID {
		return domain.ErrNotFound
	}
	r.d.batches[batch.ID] = copyBatch(batch)
	return nil
}

func (r batchData) ListByBranch(tenantID, branchID string, limit, offset int) ([]*entity.InventoryBatch, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var out []*entity.InventoryBatch
	for _, b := range r.d.batches {
		if b.TenantID == tenantID && b.BranchID == branchID {
			out = append(out, copyBatch(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return paginate(out, limit, offset), nil
}

// ── Recetas ───────────────────────────────────────────────────────────────────

type recipeData struct{ d *data }

func (r recipeData) Create(recipe *entity.Recipe) error {
	if err := requireTenant(recipe.TenantID); err != nil {
		return err
	}
	r.d.recipes[recipe.ID] = copyRecipe(recipe)
	return nil
}

func (r recipeData) GetByID(tenantID, recipeID string) (*entity.Recipe, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	rec, ok := r.d.recipes[recipeID]
	if !ok || rec.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return copyRecipe(rec), nil
}

func (r recipeData) List(tenantID string, limit, offset int) ([]*entity.Recipe, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var out []*entity.Recipe
	for _, rec := range r.d.recipes {
		if rec.TenantID == tenantID {
			out = append(out, copyRecipe(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return paginate(out, limit, offset), nil
}

// ── Desperdicios ──────────────────────────────────────────────────────────────

type wasteData struct{ d *data }

func (r wasteData) Create(event *entity.WasteEvent) error {
	if err := requireTenant(event.TenantID); err != nil {
		return err
	}
	r.d.wasteEvents[event.ID] = copyWaste(event)
	return nil
}

func (r wasteData) GetByID(tenantID, wasteID string) (*entity.WasteEvent, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	w, ok := r.d.wasteEvents[wasteID]
	if !ok || w.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return copyWaste(w), nil
}

func (r wasteData) ListByBranch(tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.WasteEvent, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var out []*entity.WasteEvent
	for _, w := range r.d.wasteEvents {
		if w.TenantID != tenantID || w.BranchID != branchID {
			continue
		}
		if from != nil && w.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && w.CreatedAt.After(*to) {
			continue
		}
		out = append(out, copyWaste(w))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r wasteData) Update(event *entity.WasteEvent) error {
	if err := requireTenant(event.TenantID); err != nil {
		return err
	}
	w, ok := r.d.wasteEvents[event.ID]
	if !ok || w.TenantID != event.TenantID {
		return domain.ErrNotFound
	}
	r.d.wasteEvents[event.ID] = copyWaste(event)
	return nil
}

func (r wasteData) Delete(tenantID, wasteID string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	w, ok := r.d.wasteEvents[wasteID]
	if !ok || w.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.d.wasteEvents, wasteID)
	return nil
}

// ── Aprobaciones ──────────────────────────────────────────────────────────────

type approvalData struct{ d *data }

func (r approvalData) Create(request *entity.ApprovalRequest) error {
	if err := requireTenant(request.TenantID); err != nil {
		return err
	}
	r.d.approvals[request.ID] = copyApproval(request)
	return nil
}

func (r approvalData) get(tenantID, requestID string) (*entity.ApprovalRequest, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	a, ok := r.d.approvals[requestID]
	if !ok || a.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return copyApproval(a), nil
}

func (r approvalData) GetByID(tenantID, requestID string) (*entity.ApprovalRequest, error) {
	return r.get(tenantID, requestID)
}

func (r approvalData) GetByIDForUpdate(tenantID, requestID string) (*entity.ApprovalRequest, error) {
	return r.get(tenantID, requestID)
}

func (r approvalData) List(tenantID, branchID, status string, limit, offset int) ([]*entity.ApprovalRequest, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var out []*entity.ApprovalRequest
	for _, a := range r.d.approvals {
		if a.TenantID != tenantID {
			continue
		}
		if branchID != "" && a.BranchID != branchID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, copyApproval(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r approvalData) UpdateStatus(request *entity.ApprovalRequest) error {
	if err := requireTenant(request.TenantID); err != nil {
		return err
	}
	a, ok := r.d.approvals[request.ID]
	if !ok || a.TenantID != request.TenantID {
		return domain.ErrNotFound
	}
	r.d.approvals[request.ID] = copyApproval(request)
	return nil
}

// ── Niveles de stock ──────────────────────────────────────────────────────────

type levelData struct{ d *data }

// levelKey replica la clave única compuesta de la tabla stock_levels:
// igualdad exacta, sin normalizar mayúsculas.
func levelKey(l *entity.StockLevel) string {
	return l.TenantID + "|" + l.BranchID + "|" + l.ItemName + "|" + l.Category + "|" + l.Unit
}

func (r levelData) Create(level *entity.StockLevel) error {
	if err := requireTenant(level.TenantID); err != nil {
		return err
	}
	key := levelKey(level)
	for _, existing := range r.d.stockLevels {
		if levelKey(existing) == key {
			return domain.ErrDuplicate
		}
	}
	r.d.stockLevels[level.ID] = copyLevel(level)
	return nil
}

func (r levelData) List(tenantID, branchID string) ([]*entity.StockLevel, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var out []*entity.StockLevel
	for _, l := range r.d.stockLevels {
		if l.TenantID == tenantID && l.BranchID == branchID {
			out = append(out, copyLevel(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

type userData struct{ d *data }

func (r userData) Create(user *entity.User) error {
	if _, exists := r.d.users[user.Email]; exists {
		return domain.ErrDuplicate
	}
	r.d.users[user.Email] = copyUser(user)
	return nil
}

func (r userData) FindByEmail(email string) (*entity.User, error) {
	u, ok := r.d.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Interfaces cubiertas por los adaptadores en memoria.
var (
	_ repository.BatchRepository      = batchData{}
	_ repository.RecipeRepository     = recipeData{}
	_ repository.WasteRepository      = wasteData{}
	_ repository.ApprovalRepository   = approvalData{}
	_ repository.StockLevelRepository = levelData{}
	_ repository.UserRepository       = userData{}
)
