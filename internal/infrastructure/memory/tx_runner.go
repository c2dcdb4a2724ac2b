package memory

import (
	"context"

	"github.com/cocinaops/CocinaOps-api/internal/application/approval"
	"github.com/cocinaops/CocinaOps-api/internal/application/ledger"
	"github.com/cocinaops/CocinaOps-api/internal/application/waste"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

// Ensure Store implements los puertos transaccionales de los casos de uso.
var (
	_ ledger.TxRunner   = (*Store)(nil)
	_ waste.TxRunner    = (*Store)(nil)
	_ approval.TxRunner = (*Store)(nil)
)

// runTx ejecuta fn sobre un snapshot de los datos con el lock tomado y
// confirma por swap: si fn falla, el snapshot se descarta y no queda ningún
// cambio parcial.
func (s *Store) runTx(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(snapshot); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

// Run transacción del libro de lotes.
func (s *Store) Run(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error {
	return s.runTx(func(d *data) error {
		return fn(batchData{d})
	})
}

// RunWaste transacción de registro de desperdicio (lotes + evento).
func (s *Store) RunWaste(ctx context.Context, fn func(batchRepo repository.BatchRepository, wasteRepo repository.WasteRepository) error) error {
	return s.runTx(func(d *data) error {
		return fn(batchData{d}, wasteData{d})
	})
}

// RunApproval transacción de revisión (solicitud + entidad objetivo).
func (s *Store) RunApproval(ctx context.Context, fn func(
	approvalRepo repository.ApprovalRepository,
	batchRepo repository.BatchRepository,
	wasteRepo repository.WasteRepository,
) error) error {
	return s.runTx(func(d *data) error {
		return fn(approvalData{d}, batchData{d}, wasteData{d})
	})
}
