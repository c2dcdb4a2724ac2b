package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// requireTenant guardia de aislamiento: toda consulta/escritura sobre datos
// multi-tenant exige tenant id en la firma, antes de tocar la DB.
func requireTenant(tenantID string) error {
	if tenantID == "" {
		return domain.ErrScopeViolation
	}
	return nil
}
