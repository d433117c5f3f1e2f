package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/client-intake/internal/application/dto"
)

// MsgInvalidBody mensaje cuando el cuerpo no es un JSON de cadastro.
const MsgInvalidBody = "Dados do cadastro inválidos"

// IntakeHandler maneja el envío del formulario de cadastro.
type IntakeHandler struct {
	uc IntakeSubmitter
}

// NewIntakeHandler construye el handler.
func NewIntakeHandler(uc IntakeSubmitter) *IntakeHandler {
	return &IntakeHandler{uc: uc}
}

// Create POST /api/clients
//
// 201 cadastro realizado; 400 errores de validación o cuerpo inválido; 500 fallo de
// persistencia o error inesperado. El cuerpo es siempre un dto.IntakeResponse.
func (h *IntakeHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientSubmission
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.IntakeResponse{
			Success: false,
			Message: MsgInvalidBody,
			Error:   err.Error(),
		})
	}

	resp := h.uc.Submit(c.UserContext(), in)
	return c.Status(intakeStatus(resp)).JSON(resp)
}

func intakeStatus(resp dto.IntakeResponse) int {
	switch {
	case resp.Success:
		return fiber.StatusCreated
	case len(resp.Errors) > 0:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
