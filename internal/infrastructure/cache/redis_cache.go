package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/cocinaops/CocinaOps-api/internal/application/recipes"
)

var _ recipes.CostCache = (*RedisCostCache)(nil)

// RedisCostCache cachea resultados de costeo de recetas en Redis.
// El costeo es una foto consultiva: expirar por TTL corto es suficiente,
// no hay invalidación activa.
type RedisCostCache struct {
	client *redis.Client
}

// NewRedisCostCache construye el cache con su propio cliente.
func NewRedisCostCache(addr, password string, db int) *RedisCostCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCostCache{client: client}
}

// Ping verifica conectividad al arranque.
func (c *RedisCostCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisCostCache) Close() error {
	return c.client.Close()
}

// Get devuelve el costeo cacheado, si existe.
func (c *RedisCostCache) Get(ctx context.Context, key string) (*recipes.RecipeCost, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cost recipes.RecipeCost
	if err := json.Unmarshal([]byte(val), &cost); err != nil {
		return nil, false, err
	}
	return &cost, true, nil
}

// Set guarda el costeo con el TTL dado.
func (c *RedisCostCache) Set(ctx context.Context, key string, value *recipes.RecipeCost, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
