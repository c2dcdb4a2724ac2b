package repository

import (
	"github.com/shopspring/decimal"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes de inventario.
// Todos los métodos exigen tenantID explícito: el aislamiento por tenant es
// parte de la firma, no un hook en tiempo de ejecución. tenantID vacío
// devuelve ErrScopeViolation antes de tocar el almacenamiento.
type BatchRepository interface {
	Create(batch *entity.InventoryBatch) error
	// GetByID devuelve ErrNotFound tanto si el lote no existe como si
	// pertenece a otro tenant (no se filtra existencia entre tenants).
	GetByID(tenantID, batchID string) (*entity.InventoryBatch, error)
	// ListAvailable devuelve lotes con cantidad > 0 para (branch, item, unit),
	// ordenados por received_at ASC con desempate por id ASC (contrato FIFO).
	ListAvailable(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error)
	// ListAvailableForUpdate es ListAvailable bloqueando las filas
	// (SELECT ... FOR UPDATE). Solo tiene sentido dentro de una transacción.
	ListAvailableForUpdate(tenantID, branchID, itemName, unit string) ([]*entity.InventoryBatch, error)
	// UpdateQuantity fija la cantidad restante de un lote (> 0).
	UpdateQuantity(tenantID, batchID string, quantity decimal.Decimal) error
	// Delete elimina el lote; un lote consumido a cero nunca queda como fila en cero.
	Delete(tenantID, batchID string) error
	// Update aplica una edición directa o aprobada sobre el lote.
	Update(batch *entity.InventoryBatch) error
	ListByBranch(tenantID, branchID string, limit, offset int) ([]*entity.InventoryBatch, error)
}
