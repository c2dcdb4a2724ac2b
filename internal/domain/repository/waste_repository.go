package repository

import (
	"time"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// WasteRepository define el puerto de persistencia para eventos de desperdicio.
type WasteRepository interface {
	Create(event *entity.WasteEvent) error
	GetByID(tenantID, wasteID string) (*entity.WasteEvent, error)
	ListByBranch(tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.WasteEvent, error)
	// Update aplica cambios aprobados (motivo, severidad, evitable). El costo
	// nunca se actualiza por esta vía.
	Update(event *entity.WasteEvent) error
	Delete(tenantID, wasteID string) error
}
