package repository

import "github.com/cocinaops/CocinaOps-api/internal/domain/entity"

// ApprovalRepository define el puerto de persistencia para solicitudes de
// aprobación. La transición de estado y la aplicación del payload ocurren en
// la misma transacción (vía TxRunner), nunca por separado.
type ApprovalRepository interface {
	Create(request *entity.ApprovalRequest) error
	GetByID(tenantID, requestID string) (*entity.ApprovalRequest, error)
	// GetByIDForUpdate bloquea la fila de la solicitud durante la revisión.
	GetByIDForUpdate(tenantID, requestID string) (*entity.ApprovalRequest, error)
	List(tenantID, branchID, status string, limit, offset int) ([]*entity.ApprovalRequest, error)
	// UpdateStatus persiste la transición PENDING → APPROVED/REJECTED con
	// revisor y marca de tiempo.
	UpdateStatus(request *entity.ApprovalRequest) error
}
