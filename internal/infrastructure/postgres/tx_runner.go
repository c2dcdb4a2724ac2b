package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocinaops/CocinaOps-api/internal/application/approval"
	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/application/waste"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// Ensure TxRunner implements the application tx ports.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ waste.TxRunner = (*TxRunner)(nil)
var _ approval.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el repo de lotes atado a la tx
// y hace Commit o Rollback. Es la base de las deducciones atómicas.
func (r *TxRunner) Run(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWaste inicia una transacción con lotes y desperdicios: la deducción de
// ingredientes y el evento de desperdicio se persisten juntos o no se
// persisten.
func (r *TxRunner) RunWaste(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	wasteRepo repository.WasteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx), NewWasteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunApproval inicia una transacción para la revisión de solicitudes: la
// transición de estado y la aplicación de cambios sobre lote o desperdicio
// ocurren en la misma tx.
func (r *TxRunner) RunApproval(ctx context.Context, fn func(
	approvalRepo repository.ApprovalRepository,
	batchRepo repository.BatchRepository,
	wasteRepo repository.WasteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewApprovalRepository(tx), NewBatchRepository(tx), NewWasteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
