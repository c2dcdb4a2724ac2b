package memory

import (
	"sync"

	"github.com/cocinaops/CocinaOps-api/internal/domain/entity"
)

// Store almacenamiento en memoria para desarrollo/demo y tests unitarios.
// Un solo mutex serializa todas las operaciones; las transacciones trabajan
// sobre un snapshot de los mapas y se confirman por swap, así un error deja
// el estado exactamente como antes (mismas garantías todo-o-nada que la
// implementación PostgreSQL).
//
// Invariante: los valores guardados nunca se mutan en el lugar. Todo
// Create/Update guarda una copia y todo Get/List devuelve copias, de modo
// que el snapshot de una tx es una copia superficial de los mapas.
type Store struct {
	mu   sync.Mutex
	data *data
}

type data struct {
	batches     map[string]*entity.InventoryBatch
	recipes     map[string]*entity.Recipe
	wasteEvents map[string]*entity.WasteEvent
	approvals   map[string]*entity.ApprovalRequest
	stockLevels map[string]*entity.StockLevel
	users       map[string]*entity.User // por email
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{data: newData()}
}

func newData() *data {
	return &data{
		batches:     make(map[string]*entity.InventoryBatch),
		recipes:     make(map[string]*entity.Recipe),
		wasteEvents: make(map[string]*entity.WasteEvent),
		approvals:   make(map[string]*entity.ApprovalRequest),
		stockLevels: make(map[string]*entity.StockLevel),
		users:       make(map[string]*entity.User),
	}
}

// clone copia superficial de los mapas (los valores son inmutables).
func (d *data) clone() *data {
	c := newData()
	for k, v := range d.batches {
		c.batches[k] = v
	}
	for k, v := range d.recipes {
		c.recipes[k] = v
	}
	for k, v := range d.wasteEvents {
		c.wasteEvents[k] = v
	}
	for k, v := range d.approvals {
		c.approvals[k] = v
	}
	for k, v := range d.stockLevels {
		c.stockLevels[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func copyBatch(b *entity.InventoryBatch) *entity.InventoryBatch {
	c := *b
	return &c
}

func copyRecipe(r *entity.Recipe) *entity.Recipe {
	c := *r
	c.Ingredients = append([]entity.RecipeIngredient(nil), r.Ingredients...)
	return &c
}

func copyWaste(w *entity.WasteEvent) *entity.WasteEvent {
	c := *w
	c.Tags = append([]string(nil), w.Tags...)
	return &c
}

func copyApproval(a *entity.ApprovalRequest) *entity.ApprovalRequest {
	c := *a
	if a.ReviewedAt != nil {
		t := *a.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}

func copyLevel(l *entity.StockLevel) *entity.StockLevel {
	c := *l
	return &c
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}
