package repository

import "github.com/cocinaops/CocinaOps-api/internal/domain/entity"

// RecipeRepository define el puerto de persistencia para recetas.
type RecipeRepository interface {
	Create(recipe *entity.Recipe) error
	// GetByID devuelve ErrNotFound si no existe o si es de otro tenant.
	GetByID(tenantID, recipeID string) (*entity.Recipe, error)
	List(tenantID string, limit, offset int) ([]*entity.Recipe, error)
}
