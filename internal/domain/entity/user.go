package entity

import "time"

// User representa un usuario del sistema (pertenece a un tenant y,
// salvo admin, a una sucursal).
type User struct {
	ID           string
	TenantID     string
	BranchID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, gerente, empleado
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
