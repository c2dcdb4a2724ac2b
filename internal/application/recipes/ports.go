package recipes

import (
	"context"
	"time"
)

// CostCache cachea el resultado del costeo de una receta. El costeo es
// consultivo (foto de promedio ponderado, nunca deduce stock), así que un
// resultado levemente viejo es aceptable.
type CostCache interface {
	Get(ctx context.Context, key string) (*RecipeCost, bool, error)
	Set(ctx context.Context, key string, value *RecipeCost, ttl time.Duration) error
}

// NoopCostCache implementación nula para entornos sin Redis.
type NoopCostCache struct{}

func (NoopCostCache) Get(_ context.Context, _ string) (*RecipeCost, bool, error) {
	return nil, false, nil
}

func (NoopCostCache) Set(_ context.Context, _ string, _ *RecipeCost, _ time.Duration) error {
	return nil
}
