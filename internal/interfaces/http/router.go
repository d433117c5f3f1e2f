package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/client-intake/internal/application/dto"
)

// IntakeSubmitter caso de uso del cadastro; lo implementa *intake.Pipeline.
type IntakeSubmitter interface {
	Submit(ctx context.Context, in dto.ClientSubmission) dto.IntakeResponse
}

// AddressLookup consulta de CEP; lo implementa *address.Service.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*dto.AddressResponse, error)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Intake  IntakeSubmitter
	Address AddressLookup       // nil = sin /api/address
	Metrics prometheus.Gatherer // nil = registro global
	Service string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	})

	gatherer := deps.Metrics
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Cadastro (público: el formulario no tiene sesión)
	intakeHandler := NewIntakeHandler(deps.Intake)
	api.Post("/clients", intakeHandler.Create)

	if deps.Address != nil {
		addressHandler := NewAddressHandler(deps.Address)
		api.Get("/address/:cep", addressHandler.Get)
	}
}
