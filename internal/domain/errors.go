package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrScopeViolation indica una operación sobre datos multi-tenant sin tenant id.
	// Es un error de programación: aborta antes de cualquier escritura y nunca se reintenta.
	ErrScopeViolation = errors.New("operación sin tenant id: violación de aislamiento")

	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad o tamaño de porción inválido")
	ErrInsufficientInventory  = errors.New("inventario insuficiente")
	ErrInvalidStateTransition = errors.New("la solicitud ya fue resuelta")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrUserNotFound           = errors.New("usuario no encontrado")
)
