package approval

import (
	"context"

	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// TxRunner ejecuta la revisión de una solicitud dentro de una transacción:
// la transición de estado y la aplicación del payload sobre la entidad
// objetivo se confirman juntas, exactamente una vez.
type TxRunner interface {
	RunApproval(ctx context.Context, fn func(
		approvalRepo repository.ApprovalRepository,
		batchRepo repository.BatchRepository,
		wasteRepo repository.WasteRepository,
	) error) error
}
