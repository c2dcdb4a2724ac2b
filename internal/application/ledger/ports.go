package ledger

import (
	"context"

	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de lotes atado a esa tx. Garantiza que "leer lotes disponibles
// → calcular consumo → escribir cantidades" sea atómico frente a deducciones
// concurrentes sobre el mismo ítem/sucursal.
type TxRunner interface {
	Run(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error
}
