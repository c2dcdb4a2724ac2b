package entity

import (
	"github.com/cocinaops/CocinaOps-api/internal/domain"
)

// Roles de la plataforma, de mayor a menor privilegio.
// "empleado" es el único rol mutador que pasa por el flujo de aprobación.
const (
	RoleAdmin    = "admin"
	RoleGerente  = "gerente"
	RoleEmpleado = "empleado"
)

// TenantContext es el alcance explícito de cada llamada: tenant, sucursal,
// usuario y rol. Se pasa como parámetro en todos los casos de uso; no existe
// estado global de "usuario actual".
type TenantContext struct {
	TenantID string
	BranchID string
	UserID   string
	Role     string
}

// Validate verifica que el contexto lleve tenant id. Su ausencia es una
// violación de aislamiento (error de programación), no un error de usuario.
func (tc TenantContext) Validate() error {
	if tc.TenantID == "" {
		return domain.ErrScopeViolation
	}
	return nil
}

// CanMutateDirectly indica si el rol puede mutar inventario/desperdicios
// sin pasar por el flujo de aprobación.
func (tc TenantContext) CanMutateDirectly() bool {
	return tc.Role == RoleAdmin || tc.Role == RoleGerente
}

// CanReview indica si el rol puede resolver solicitudes de aprobación.
func (tc TenantContext) CanReview() bool {
	return tc.Role == RoleAdmin || tc.Role == RoleGerente
}
