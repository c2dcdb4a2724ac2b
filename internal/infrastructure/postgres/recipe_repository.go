package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cocinaops/CocinaOps-api/internal/domain"
	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
	"github.com/cocinaops/CocinaOps-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación de RecipeRepository sobre PostgreSQL.
// Los ingredientes se guardan como JSONB: la lista es un valor de la receta,
// no filas con identidad propia.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador de recetas.
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

type recipeIngredientRow struct {
	ItemName string          `json:"item_name"`
	Quantity json.RawMessage `json:"quantity"`
	Unit     string          `json:"unit"`
}

func marshalIngredients(ingredients []entity.RecipeIngredient) ([]byte, error) {
	rows := make([]recipeIngredientRow, 0, len(ingredients))
	for _, ing := range ingredients {
		qty, err := ing.Quantity.MarshalJSON()
		if err != nil {
			return nil, err
		}
		rows = append(rows, recipeIngredientRow{ItemName: ing.ItemName, Quantity: qty, Unit: ing.Unit})
	}
	return json.Marshal(rows)
}

func unmarshalIngredients(raw []byte) ([]entity.RecipeIngredient, error) {
	var rows []recipeIngredientRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	ingredients := make([]entity.RecipeIngredient, 0, len(rows))
	for _, row := range rows {
		ing := entity.RecipeIngredient{ItemName: row.ItemName, Unit: row.Unit}
		if err := ing.Quantity.UnmarshalJSON(row.Quantity); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// Create inserta una receta con su lista de ingredientes.
func (r *RecipeRepo) Create(recipe *entity.Recipe) error {
	if err := requireTenant(recipe.TenantID); err != nil {
		return err
	}
	ingredients, err := marshalIngredients(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("marshal ingredients: %w", err)
	}
	query := `
		INSERT INTO recipes (id, tenant_id, product_name, portion_size, ingredients, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		recipe.ID, recipe.TenantID, recipe.ProductName, recipe.PortionSize,
		ingredients, recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

// GetByID obtiene una receta del tenant; de otro tenant es ErrNotFound.
func (r *RecipeRepo) GetByID(tenantID, recipeID string) (*entity.Recipe, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT id, tenant_id, product_name, portion_size, ingredients, created_at, updated_at
		FROM recipes WHERE id = $1 AND tenant_id = $2`
	var rec entity.Recipe
	var raw []byte
	err := r.q.QueryRow(context.Background(), query, recipeID, tenantID).Scan(
		&rec.ID, &rec.TenantID, &rec.ProductName, &rec.PortionSize, &raw, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if rec.Ingredients, err = unmarshalIngredients(raw); err != nil {
		return nil, fmt.Errorf("unmarshal ingredients: %w", err)
	}
	return &rec, nil
}

// List lista las recetas del tenant con paginación.
func (r *RecipeRepo) List(tenantID string, limit, offset int) ([]*entity.Recipe, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT id, tenant_id, product_name, portion_size, ingredients, created_at, updated_at
		FROM recipes WHERE tenant_id = $1
		ORDER BY product_name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*entity.Recipe
	for rows.Next() {
		var rec entity.Recipe
		var raw []byte
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.ProductName, &rec.PortionSize, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		if rec.Ingredients, err = unmarshalIngredients(raw); err != nil {
			return nil, fmt.Errorf("unmarshal ingredients: %w", err)
		}
		recipes = append(recipes, &rec)
	}
	return recipes, rows.Err()
}
