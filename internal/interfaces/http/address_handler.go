package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/client-intake/internal/application/dto"
	"github.com/jhoicas/client-intake/internal/domain"
)

// AddressHandler consulta de CEP para autocompletar el paso de dirección.
type AddressHandler struct {
	svc AddressLookup
}

// NewAddressHandler construye el handler.
func NewAddressHandler(svc AddressLookup) *AddressHandler {
	return &AddressHandler{svc: svc}
}

// Get GET /api/address/:cep
func (h *AddressHandler) Get(c *fiber.Ctx) error {
	addr, err := h.svc.Lookup(c.UserContext(), c.Params("cep"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCEP):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CEP", Message: "CEP deve conter 8 dígitos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "CEP não encontrado"})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
		}
	}
	return c.JSON(addr)
}
