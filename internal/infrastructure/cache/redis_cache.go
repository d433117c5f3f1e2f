// Package cache guarda respuestas de consultas externas en Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const addressKeyPrefix = "cep:"

// ErrMiss la clave no está en caché.
var ErrMiss = errors.New("cache: miss")

// AddressCache caché de direcciones por CEP sobre Redis. Un *AddressCache nil
// se comporta como caché vacía.
type AddressCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewAddressCache construye la caché. Devuelve nil si no hay cliente.
func NewAddressCache(client *redis.Client, ttl time.Duration) *AddressCache {
	if client == nil {
		return nil
	}
	return &AddressCache{redis: client, ttl: ttl}
}

// NewRedisClient abre un cliente a partir de una URL redis://. URL vacía devuelve nil.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: REDIS_URL inválida: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}
	return client, nil
}

// Get decodifica en dst el valor guardado para cep. ErrMiss si no existe.
func (c *AddressCache) Get(ctx context.Context, cep string, dst any) error {
	if c == nil {
		return ErrMiss
	}
	raw, err := c.redis.Get(ctx, addressKey(cep)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache: get %s: %w", cep, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("cache: decode %s: %w", cep, err)
	}
	return nil
}

// Set guarda v para cep con el TTL configurado.
func (c *AddressCache) Set(ctx context.Context, cep string, v any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", cep, err)
	}
	if err := c.redis.Set(ctx, addressKey(cep), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", cep, err)
	}
	return nil
}

func addressKey(cep string) string {
	return addressKeyPrefix + cep
}
