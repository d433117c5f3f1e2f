package tiny

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/client-intake/internal/domain"
)

// Outcome variante del resultado de un envío.
type Outcome int

const (
	// Accepted la API devolvió status OK.
	Accepted Outcome = iota + 1
	// Rejected hubo respuesta pero con status distinto de OK (o ausente).
	Rejected
	// Failed no hubo respuesta utilizable: falta de token, transporte o decodificación.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// DispatchResult resultado explícito del envío. Nunca se propaga como error: quien
// llama decide qué hacer con cada variante.
type DispatchResult struct {
	Outcome  Outcome
	Envelope *Envelope // nil si Outcome == Failed
	Err      error     // causa para Rejected y Failed
}

// ContactSender lo implementa Client; los tests inyectan dobles.
type ContactSender interface {
	IncludeContact(ctx context.Context, contact Contact) (*Envelope, error)
}

// Dispatcher traduce el resultado del cliente HTTP a un DispatchResult.
type Dispatcher struct {
	sender ContactSender
}

// NewDispatcher construye el despachador.
func NewDispatcher(sender ContactSender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Dispatch envía el contato una sola vez, sin reintentos.
func (d *Dispatcher) Dispatch(ctx context.Context, contact Contact) (res DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = DispatchResult{Outcome: Failed, Err: fmt.Errorf("%w: pánico en el envío: %v", domain.ErrDispatch, r)}
		}
	}()

	env, err := d.sender.IncludeContact(ctx, contact)
	if err != nil {
		if !errors.Is(err, domain.ErrDispatch) {
			err = fmt.Errorf("%w: %w", domain.ErrDispatch, err)
		}
		return DispatchResult{Outcome: Failed, Err: err}
	}
	if env == nil {
		return DispatchResult{Outcome: Failed, Err: fmt.Errorf("%w: respuesta vacía", domain.ErrDispatch)}
	}
	if !env.OK() {
		status := env.Retorno.Status
		if status == "" {
			status = "(ausente)"
		}
		return DispatchResult{
			Outcome:  Rejected,
			Envelope: env,
			Err:      fmt.Errorf("%w: status %s", domain.ErrDispatch, status),
		}
	}
	return DispatchResult{Outcome: Accepted, Envelope: env}
}
