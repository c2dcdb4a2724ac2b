package repository

import "github.com/cocinaops/CocinaOps-api/internal/domain/entity"

// StockLevelRepository define el puerto para la configuración de niveles de
// stock. La clave (tenant, branch, item, category, unit) es única: un
// duplicado devuelve ErrDuplicate.
type StockLevelRepository interface {
	Create(level *entity.StockLevel) error
	List(tenantID, branchID string) ([]*entity.StockLevel, error)
}
