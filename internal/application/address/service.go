// Package address resuelve un CEP a dirección para autocompletar el paso 2 del cadastro.
package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/client-intake/internal/application/dto"
	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/infrastructure/cache"
	"github.com/jhoicas/client-intake/internal/infrastructure/viacep"
	"github.com/jhoicas/client-intake/pkg/mask"
)

const cepDigits = 8

// Lookuper consulta el servicio externo; lo implementa *viacep.Client.
type Lookuper interface {
	Lookup(ctx context.Context, cep string) (*viacep.Address, error)
}

// Cache caché de respuestas; lo implementa *cache.AddressCache.
type Cache interface {
	Get(ctx context.Context, cep string, dst any) error
	Set(ctx context.Context, cep string, v any) error
}

// Service consulta de CEP con caché-aside.
type Service struct {
	lookup Lookuper
	cache  Cache
	log    zerolog.Logger
}

// NewService construye el servicio. c puede ser nil (sin caché).
func NewService(lookup Lookuper, c Cache, log zerolog.Logger) *Service {
	return &Service{lookup: lookup, cache: c, log: log}
}

// Lookup normaliza el CEP a dígitos y devuelve la dirección. Errores de la caché se
// registran y se ignoran.
func (s *Service) Lookup(ctx context.Context, cep string) (*dto.AddressResponse, error) {
	digits := mask.Digits(cep)
	if len(digits) != cepDigits {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCEP, cep)
	}

	if s.cache != nil {
		var cached dto.AddressResponse
		err := s.cache.Get(ctx, digits, &cached)
		switch {
		case err == nil:
			return &cached, nil
		case !errors.Is(err, cache.ErrMiss):
			s.log.Warn().Err(err).Str("cep", digits).Msg("address: caché no disponible")
		}
	}

	addr, err := s.lookup.Lookup(ctx, digits)
	if err != nil {
		return nil, err
	}
	out := &dto.AddressResponse{
		CEP:          mask.CEP(digits),
		Address:      addr.Logradouro,
		Complement:   addr.Complemento,
		Neighborhood: addr.Bairro,
		City:         addr.Localidade,
		State:        addr.UF,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, digits, out); err != nil {
			s.log.Warn().Err(err).Str("cep", digits).Msg("address: no se pudo guardar en caché")
		}
	}
	return out, nil
}
