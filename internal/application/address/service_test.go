package address_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/client-intake/internal/application/address"
	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/infrastructure/cache"
	"github.com/jhoicas/client-intake/internal/infrastructure/viacep"
)

type fakeLookup struct {
	calls int
	addr  *viacep.Address
	err   error
}

func (f *fakeLookup) Lookup(_ context.Context, _ string) (*viacep.Address, error) {
	f.calls++
	return f.addr, f.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) error { return errors.New("redis caído") }
func (brokenCache) Set(context.Context, string, any) error { return errors.New("redis caído") }

func paulista() *viacep.Address {
	return &viacep.Address{
		CEP: "01310-100", Logradouro: "Avenida Paulista", Bairro: "Bela Vista",
		Localidade: "São Paulo", UF: "SP",
	}
}

func TestLookup_CEPInvalido(t *testing.T) {
	l := &fakeLookup{addr: paulista()}
	svc := address.NewService(l, nil, zerolog.Nop())

	for _, cep := range []string{"", "1234", "123456789", "abcdefgh"} {
		_, err := svc.Lookup(context.Background(), cep)
		assert.ErrorIs(t, err, domain.ErrInvalidCEP, cep)
	}
	assert.Zero(t, l.calls)
}

func TestLookup_SinCache(t *testing.T) {
	l := &fakeLookup{addr: paulista()}
	svc := address.NewService(l, nil, zerolog.Nop())

	got, err := svc.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "01310-100", got.CEP)
	assert.Equal(t, "Avenida Paulista", got.Address)
	assert.Equal(t, "Bela Vista", got.Neighborhood)
	assert.Equal(t, "São Paulo", got.City)
	assert.Equal(t, "SP", got.State)
}

func TestLookup_CacheAside(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := &fakeLookup{addr: paulista()}
	svc := address.NewService(l, cache.NewAddressCache(client, time.Hour), zerolog.Nop())

	first, err := svc.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	second, err := svc.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, l.calls, "la segunda consulta sale de la caché")
	assert.True(t, mr.Exists("cep:01310100"))
}

func TestLookup_CacheRotaSeIgnora(t *testing.T) {
	l := &fakeLookup{addr: paulista()}
	svc := address.NewService(l, brokenCache{}, zerolog.Nop())

	got, err := svc.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", got.City)
	assert.Equal(t, 1, l.calls)
}

func TestLookup_NoEncontrado(t *testing.T) {
	l := &fakeLookup{err: domain.ErrNotFound}
	svc := address.NewService(l, nil, zerolog.Nop())

	_, err := svc.Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
