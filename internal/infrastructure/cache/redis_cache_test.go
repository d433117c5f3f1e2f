package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/client-intake/internal/infrastructure/cache"
)

type cachedAddress struct {
	City  string `json:"city"`
	State string `json:"state"`
}

func setupCache(t *testing.T, ttl time.Duration) (*cache.AddressCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewAddressCache(client, ttl), mr
}

func TestAddressCache_SetGet(t *testing.T) {
	c, mr := setupCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "01310100", cachedAddress{City: "São Paulo", State: "SP"}))
	assert.True(t, mr.Exists("cep:01310100"))
	assert.Equal(t, time.Hour, mr.TTL("cep:01310100"))

	var got cachedAddress
	require.NoError(t, c.Get(ctx, "01310100", &got))
	assert.Equal(t, cachedAddress{City: "São Paulo", State: "SP"}, got)
}

func TestAddressCache_Miss(t *testing.T) {
	c, _ := setupCache(t, time.Hour)
	var got cachedAddress
	assert.ErrorIs(t, c.Get(context.Background(), "99999999", &got), cache.ErrMiss)
}

func TestAddressCache_Expira(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "01310100", cachedAddress{City: "São Paulo"}))

	mr.FastForward(2 * time.Minute)

	var got cachedAddress
	assert.ErrorIs(t, c.Get(ctx, "01310100", &got), cache.ErrMiss)
}

func TestAddressCache_ValorCorrupto(t *testing.T) {
	c, mr := setupCache(t, time.Hour)
	require.NoError(t, mr.Set("cep:01310100", "{no-json"))

	var got cachedAddress
	err := c.Get(context.Background(), "01310100", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrMiss)
}

func TestAddressCache_Nil(t *testing.T) {
	var c *cache.AddressCache
	assert.Nil(t, cache.NewAddressCache(nil, time.Hour))
	assert.ErrorIs(t, c.Get(context.Background(), "01310100", &cachedAddress{}), cache.ErrMiss)
	assert.NoError(t, c.Set(context.Background(), "01310100", cachedAddress{}))
}

func TestNewRedisClient(t *testing.T) {
	client, err := cache.NewRedisClient(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = cache.NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()

	_, err = cache.NewRedisClient(context.Background(), "http://nope")
	assert.Error(t, err)
}
