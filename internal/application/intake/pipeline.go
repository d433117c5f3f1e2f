// Package intake orquesta el cadastro de un cliente:
//
//	validar → persistir → mapear → enviar a la API externa → registrar el envío
//
// La validación corta antes de escribir nada. Una vez persistido el cliente, los fallos
// del envío o del log de auditoría se registran pero no cambian el resultado.
package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/client-intake/internal/application/dto"
	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/domain/entity"
	rules "github.com/jhoicas/client-intake/internal/domain/intake"
	"github.com/jhoicas/client-intake/internal/domain/repository"
	"github.com/jhoicas/client-intake/internal/infrastructure/tiny"
	"github.com/jhoicas/client-intake/internal/observability/metrics"
	"github.com/jhoicas/client-intake/pkg/mask"
)

// Mensajes del resultado declarado.
const (
	MsgSuccess           = "Cadastro realizado com sucesso"
	MsgValidationFailed  = "form has validation errors"
	MsgPersistenceFailed = "Erro ao salvar o cadastro"
	MsgInternalError     = "Erro interno do servidor"
)

// Resultados para métricas.
const (
	outcomeSucceeded         = "succeeded"
	outcomeValidationFailed  = "validation_failed"
	outcomePersistenceFailed = "persistence_failed"
	outcomeInternalError     = "internal_error"
)

var tracer = otel.Tracer("client-intake.internal.application.intake")

// Dispatcher envía el contato mapeado; lo implementa *tiny.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, contact tiny.Contact) tiny.DispatchResult
}

// Pipeline caso de uso del cadastro. No guarda estado entre solicitudes.
type Pipeline struct {
	clients    repository.ClientRepository
	logs       repository.DispatchLogRepository
	dispatcher Dispatcher
	metrics    *metrics.IntakeMetrics
	log        zerolog.Logger
	now        func() time.Time
}

// NewPipeline construye el pipeline. metrics puede ser nil.
func NewPipeline(
	clients repository.ClientRepository,
	logs repository.DispatchLogRepository,
	dispatcher Dispatcher,
	m *metrics.IntakeMetrics,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		clients:    clients,
		logs:       logs,
		dispatcher: dispatcher,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

// Submit ejecuta el cadastro completo y devuelve siempre un resultado declarado.
// Tras la validación el trabajo continúa aunque el contexto del llamador se cancele:
// un cadastro en curso no se aborta.
func (p *Pipeline) Submit(ctx context.Context, in dto.ClientSubmission) (resp dto.IntakeResponse) {
	outcome := outcomeInternalError
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("cadastro: pánico en el pipeline")
			resp = dto.IntakeResponse{Success: false, Message: MsgInternalError, Error: fmt.Sprint(r)}
			outcome = outcomeInternalError
		}
		p.metrics.ObserveSubmission(outcome)
	}()

	client := in.ToEntity()

	// 1. Validación (fuente de verdad)
	if errs := p.validate(ctx, client); len(errs) > 0 {
		outcome = outcomeValidationFailed
		return dto.IntakeResponse{Success: false, Message: MsgValidationFailed, Errors: errs}
	}

	ctx = context.WithoutCancel(ctx)
	client.TaxID = mask.Digits(client.TaxID)

	// 2. Persistencia
	id, err := p.persist(ctx, client)
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			outcome = outcomePersistenceFailed
			p.log.Error().Err(err).Msg("cadastro: persistencia fallida")
			return dto.IntakeResponse{Success: false, Message: MsgPersistenceFailed}
		}
		p.log.Error().Err(err).Msg("cadastro: error inesperado al persistir")
		return dto.IntakeResponse{Success: false, Message: MsgInternalError, Error: err.Error()}
	}
	log := p.log.With().Str("client_id", id).Logger()

	// 3. Mapeo + 4. Envío + 5. Auditoría: nada de esto cambia el resultado.
	contact := tiny.MapContact(*client)
	result := p.dispatch(ctx, contact, log)
	p.audit(ctx, id, contact, result, log)

	outcome = outcomeSucceeded
	log.Info().Str("dispatch", result.Outcome.String()).Msg("cadastro: cliente registrado")
	return dto.IntakeResponse{
		Success: true,
		Message: MsgSuccess,
		Data: &dto.ClientSummary{
			ID:        id,
			FullName:  client.FullName,
			TaxID:     client.TaxID,
			Email:     client.Email,
			CreatedAt: client.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}
}

func (p *Pipeline) validate(ctx context.Context, client *entity.Client) rules.ValidationErrors {
	_, span := tracer.Start(ctx, "intake.validate")
	defer span.End()
	defer p.observe("validate", p.now())

	errs := rules.Validate(client)
	span.SetAttributes(attribute.Int("intake.validation_errors", len(errs)))
	return errs
}

func (p *Pipeline) persist(ctx context.Context, client *entity.Client) (string, error) {
	ctx, span := tracer.Start(ctx, "intake.persist")
	defer span.End()
	defer p.observe("persist", p.now())

	id, err := p.clients.Insert(ctx, client)
	if err != nil {
		fail(span, err)
		return "", err
	}
	span.SetAttributes(attribute.String("intake.client_id", id))
	return id, nil
}

func (p *Pipeline) dispatch(ctx context.Context, contact tiny.Contact, log zerolog.Logger) tiny.DispatchResult {
	ctx, span := tracer.Start(ctx, "intake.dispatch")
	defer span.End()
	defer p.observe("dispatch", p.now())

	result := p.dispatcher.Dispatch(ctx, contact)
	span.SetAttributes(attribute.String("intake.dispatch_outcome", result.Outcome.String()))
	p.metrics.ObserveDispatch(result.Outcome.String())

	switch result.Outcome {
	case tiny.Accepted:
		log.Info().Msg("cadastro: contato aceptado por la API externa")
	case tiny.Rejected:
		fail(span, result.Err)
		log.Warn().Err(result.Err).RawJSON("response", rawOrNull(result.Envelope)).
			Msg("cadastro: la API externa rechazó el contato")
	case tiny.Failed:
		fail(span, result.Err)
		log.Error().Err(result.Err).Msg("cadastro: envío a la API externa fallido")
	default:
		log.Error().Int("outcome", int(result.Outcome)).Msg("cadastro: resultado de envío desconocido")
	}
	return result
}

func (p *Pipeline) audit(ctx context.Context, clientID string, contact tiny.Contact, result tiny.DispatchResult, log zerolog.Logger) {
	ctx, span := tracer.Start(ctx, "intake.audit")
	defer span.End()
	defer p.observe("audit", p.now())

	entry := &entity.LogEntry{
		Timestamp: p.now().UTC(),
		ClientID:  clientID,
		Payload:   contact,
		Outcome:   result.Outcome.String(),
	}
	if result.Envelope != nil && len(result.Envelope.Raw) > 0 {
		entry.Response = result.Envelope.Raw
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}

	if err := p.writeLog(ctx, entry); err != nil {
		fail(span, err)
		p.metrics.ObserveAuditFailure()
		log.Error().Err(err).Msg("cadastro: no se pudo registrar el envío")
	}
}

// writeLog aísla también un pánico del repositorio de auditoría.
func (p *Pipeline) writeLog(ctx context.Context, entry *entity.LogEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pánico: %v", domain.ErrAuditLog, r)
		}
	}()
	return p.logs.Insert(ctx, entry)
}

func (p *Pipeline) observe(stage string, start time.Time) {
	p.metrics.ObserveStage(stage, p.now().Sub(start).Seconds())
}

func fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func rawOrNull(env *tiny.Envelope) []byte {
	if env == nil || len(env.Raw) == 0 {
		return []byte("null")
	}
	return env.Raw
}
