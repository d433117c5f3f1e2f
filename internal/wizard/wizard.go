// Package wizard implementa el asistente de cadastro en tres pasos como una máquina de
// estados explícita. No accede a red ni a almacenamiento: el envío se delega en un
// Submitter y el autocompletado de dirección en un AddressLookup opcional.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/client-intake/internal/application/dto"
	rules "github.com/jhoicas/client-intake/internal/domain/intake"
)

// Mensajes mostrados por el asistente.
const (
	MsgGenericFailure  = "Não foi possível concluir o cadastro. Tente novamente."
	msgAggregatePrefix = "Corrija os campos: "
)

// Errores de uso del asistente.
var (
	ErrNotFinalStep   = errors.New("wizard: el envío solo es posible en el último paso")
	ErrSubmitInFlight = errors.New("wizard: ya hay un envío en curso")
	ErrStepInvalid    = errors.New("wizard: el paso actual tiene errores")
	ErrUnknownField   = errors.New("wizard: campo desconocido")
	ErrNoLookup       = errors.New("wizard: sin consulta de CEP configurada")
)

// Status estado del envío. Loading solo se observa mientras la llamada está en curso.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
)

func (s Status) String() string {
	if s == StatusLoading {
		return "loading"
	}
	return "idle"
}

// Outcome vista terminal del último envío.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

// Submitter ejecuta el cadastro en el servidor. El error es solo de transporte; los
// rechazos llegan como IntakeResponse con Success=false.
type Submitter interface {
	Submit(ctx context.Context, in dto.ClientSubmission) (dto.IntakeResponse, error)
}

// AddressLookup resuelve un CEP a dirección.
type AddressLookup interface {
	LookupAddress(ctx context.Context, cep string) (*dto.AddressResponse, error)
}

// Option configura el asistente.
type Option func(*Wizard)

// WithAddressLookup habilita FillAddress.
func WithAddressLookup(l AddressLookup) Option {
	return func(w *Wizard) { w.lookup = l }
}

// Wizard estado del asistente. Seguro para uso concurrente: la UI puede leer el estado
// mientras un envío está en curso.
type Wizard struct {
	mu        sync.Mutex
	submitter Submitter
	lookup    AddressLookup

	step         int
	form         dto.ClientSubmission
	errors       map[string]string
	status       Status
	outcome      Outcome
	lastAPIError string
	message      string
	submittedID  string
	focusTop     bool
	generation   int // se incrementa en Reset; descarta respuestas de envíos anteriores
}

// New crea el asistente en el paso 1 con el formulario vacío.
func New(submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{submitter: submitter}
	for _, opt := range opts {
		opt(w)
	}
	w.resetLocked()
	return w
}

// ── Lectura de estado ───────────────────────────────────────────────────────

func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form copia del formulario acumulado.
func (w *Wizard) Form() dto.ClientSubmission {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneForm(w.form)
}

// Errors copia de los errores por campo.
func (w *Wizard) Errors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

func (w *Wizard) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Wizard) Outcome() Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outcome
}

// Succeeded indica si el último envío terminó en cadastro realizado.
func (w *Wizard) Succeeded() bool {
	return w.Outcome() == OutcomeSucceeded
}

func (w *Wizard) LastAPIError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastAPIError
}

// Message mensaje declarado por el servidor en el último envío. LastAPIError
// nunca lo repite: los fallos sin errores de campo muestran MsgGenericFailure.
func (w *Wizard) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

func (w *Wizard) SubmittedID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submittedID
}

// FocusTop devuelve true una sola vez tras un envío exitoso (la UI vuelve al inicio).
func (w *Wizard) FocusTop() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := w.focusTop
	w.focusTop = false
	return v
}

// ── Operaciones ─────────────────────────────────────────────────────────────

// SetField guarda un valor en el formulario sin validar. lunchClosed acepta true/false;
// receivingDays se cambia con SetWeekdays.
func (w *Wizard) SetField(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := &w.form
	switch field {
	case rules.FieldFullName:
		f.FullName = value
	case rules.FieldTaxID:
		f.TaxID = value
	case rules.FieldStateRegistration:
		f.StateRegistration = value
	case rules.FieldCEP:
		f.CEP = value
	case rules.FieldAddress:
		f.Address = value
	case rules.FieldNumber:
		f.Number = value
	case rules.FieldComplement:
		f.Complement = value
	case rules.FieldNeighborhood:
		f.Neighborhood = value
	case rules.FieldCity:
		f.City = value
	case rules.FieldState:
		f.State = value
	case rules.FieldDeliveryLocation:
		f.DeliveryLocation = value
	case rules.FieldReceivingStart:
		f.ReceivingStart = value
	case rules.FieldReceivingEnd:
		f.ReceivingEnd = value
	case rules.FieldLunchClosed:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("wizard: lunchClosed %q: %w", value, err)
		}
		f.LunchClosed = b
		if !b {
			f.LunchStart, f.LunchEnd = "", ""
		}
	case rules.FieldLunchStart:
		f.LunchStart = value
	case rules.FieldLunchEnd:
		f.LunchEnd = value
	case rules.FieldBuyerName:
		f.BuyerName = value
	case rules.FieldPhone1:
		f.Phone1 = value
	case rules.FieldPhone2:
		f.Phone2 = value
	case rules.FieldWhatsApp:
		f.WhatsApp = value
	case rules.FieldEmail:
		f.Email = value
	case rules.FieldInvoiceEmail:
		f.InvoiceEmail = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// SetWeekdays reemplaza los días de recebimento.
func (w *Wizard) SetWeekdays(days []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.ReceivingDays = append([]string(nil), days...)
}

// Advance valida el paso actual; si no hay errores avanza (máximo paso 3).
// Devuelve false y deja los errores del paso si la validación falla.
func (w *Wizard) Advance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := ValidateStep(w.step, w.form)
	w.errors = errs
	if len(errs) > 0 {
		return false
	}
	if w.step < rules.StepContact {
		w.step++
	}
	return true
}

// Retreat vuelve un paso (mínimo 1) y limpia los errores sin revalidar.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > rules.StepBasicInfo {
		w.step--
	}
	w.errors = map[string]string{}
	w.lastAPIError = ""
}

// Submit envía el formulario. Solo en el paso 3 y con el paso válido; mientras la
// llamada está en curso Status() es Loading. Los resultados del servidor (éxito,
// errores por campo o fallo genérico) quedan en el estado y Submit devuelve nil;
// los errores devueltos son solo de uso.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.status == StatusLoading {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	if w.step != rules.StepContact {
		w.mu.Unlock()
		return ErrNotFinalStep
	}
	errs := ValidateStep(w.step, w.form)
	w.errors = errs
	if len(errs) > 0 {
		w.mu.Unlock()
		return ErrStepInvalid
	}
	w.status = StatusLoading
	w.lastAPIError = ""
	form := cloneForm(w.form)
	gen := w.generation
	w.mu.Unlock()
	defer w.releaseSubmit(gen)

	resp, err := w.submitter.Submit(ctx, form)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return nil
	}
	w.status = StatusIdle
	w.message = resp.Message

	switch {
	case err != nil:
		w.outcome = OutcomeFailed
		w.lastAPIError = MsgGenericFailure
	case resp.Success:
		w.outcome = OutcomeSucceeded
		w.errors = map[string]string{}
		if resp.Data != nil {
			w.submittedID = resp.Data.ID
		}
		w.focusTop = true
	case len(resp.Errors) > 0:
		w.outcome = OutcomeFailed
		for k, v := range resp.Errors {
			w.errors[k] = v
		}
		w.lastAPIError = aggregateMessage(resp.Errors)
		if step := rules.FirstStep(resp.Errors); step != 0 {
			w.step = step
		}
	default:
		w.outcome = OutcomeFailed
		w.lastAPIError = MsgGenericFailure
	}
	return nil
}

// releaseSubmit devuelve el asistente a Idle si el envío gen no llegó a cerrarse,
// p. ej. porque el submitter entró en pánico.
func (w *Wizard) releaseSubmit(gen int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.status != StatusLoading {
		return
	}
	w.status = StatusIdle
	w.outcome = OutcomeFailed
	w.lastAPIError = MsgGenericFailure
}

// FillAddress completa dirección, complemento, barrio, ciudad y estado a partir del
// CEP del formulario. No sobrescribe valores ya escritos por el usuario.
func (w *Wizard) FillAddress(ctx context.Context) error {
	w.mu.Lock()
	if w.lookup == nil {
		w.mu.Unlock()
		return ErrNoLookup
	}
	cep := w.form.CEP
	gen := w.generation
	w.mu.Unlock()

	addr, err := w.lookup.LookupAddress(ctx, cep)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.form.CEP != cep {
		return nil
	}
	fillEmpty(&w.form.Address, addr.Address)
	fillEmpty(&w.form.Complement, addr.Complement)
	fillEmpty(&w.form.Neighborhood, addr.Neighborhood)
	fillEmpty(&w.form.City, addr.City)
	fillEmpty(&w.form.State, addr.State)
	return nil
}

// Reset vuelve al estado inicial. Un envío en curso se descarta al terminar.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *Wizard) resetLocked() {
	w.step = rules.StepBasicInfo
	w.form = dto.ClientSubmission{ReceivingDays: []string{}}
	w.errors = map[string]string{}
	w.status = StatusIdle
	w.outcome = OutcomeNone
	w.lastAPIError = ""
	w.message = ""
	w.submittedID = ""
	w.focusTop = false
	w.generation++
}

func aggregateMessage(errs map[string]string) string {
	msgs := make([]string, 0, len(errs))
	for _, f := range rules.OrderedFields(errs) {
		msgs = append(msgs, errs[f])
	}
	return msgAggregatePrefix + strings.Join(msgs, "; ")
}

func fillEmpty(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" && v != "" {
		*dst = v
	}
}

func cloneForm(f dto.ClientSubmission) dto.ClientSubmission {
	f.ReceivingDays = append([]string(nil), f.ReceivingDays...)
	return f
}
