package waste

import (
	"context"

	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// TxRunner ejecuta el registro de un desperdicio dentro de una transacción:
// las deducciones de lotes y la inserción del evento se confirman juntas o
// no se confirman.
type TxRunner interface {
	RunWaste(ctx context.Context, fn func(batchRepo repository.BatchRepository, wasteRepo repository.WasteRepository) error) error
}
