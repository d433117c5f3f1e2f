package intake_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/client-intake/internal/application/dto"
	"github.com/jhoicas/client-intake/internal/application/intake"
	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/domain/entity"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore/memstore"
	"github.com/jhoicas/client-intake/internal/infrastructure/tiny"
	"github.com/jhoicas/client-intake/internal/observability/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeDispatcher struct {
	calls  int32
	result tiny.DispatchResult
	last   tiny.Contact
}

func (f *fakeDispatcher) Dispatch(_ context.Context, c tiny.Contact) tiny.DispatchResult {
	atomic.AddInt32(&f.calls, 1)
	f.last = c
	return f.result
}

type panicLogRepo struct{}

func (panicLogRepo) Insert(context.Context, *entity.LogEntry) error { panic("log roto") }

func validSubmission() dto.ClientSubmission {
	return dto.ClientSubmission{
		FullName:      "Mercado Bom Preço",
		TaxID:         "111.222.333-44",
		CEP:           "01310-100",
		Address:       "Av. Paulista",
		Number:        "1000",
		Neighborhood:  "Bela Vista",
		City:          "São Paulo",
		State:         "SP",
		ReceivingDays: []string{"segunda", "quarta"},
		WhatsApp:      "(11) 98888-7777",
		Email:         "compras@bompreco.com.br",
	}
}

func okEnvelope() *tiny.Envelope {
	return &tiny.Envelope{Retorno: tiny.Retorno{Status: "OK"}, Raw: []byte(`{"retorno":{"status":"OK"}}`)}
}

func newPipeline(store *memstore.Store, d intake.Dispatcher) *intake.Pipeline {
	return intake.NewPipeline(
		docstore.NewClientRepository(store, zerolog.Nop()),
		docstore.NewLogRepository(store, zerolog.Nop()),
		d,
		metrics.NewIntakeMetrics(prometheus.NewRegistry()),
		zerolog.Nop(),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_EmailVacioNoPersiste(t *testing.T) {
	store := memstore.New()
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Accepted, Envelope: okEnvelope()}}
	in := validSubmission()
	in.Email = ""

	resp := newPipeline(store, d).Submit(context.Background(), in)

	assert.False(t, resp.Success)
	assert.Equal(t, intake.MsgValidationFailed, resp.Message)
	assert.Equal(t, map[string]string{"email": "Email é obrigatório"}, resp.Errors)
	assert.Equal(t, 0, store.Connects(), "no debe haber llamada de persistencia")
	assert.Zero(t, atomic.LoadInt32(&d.calls))
}

func TestSubmit_RegistroValido(t *testing.T) {
	store := memstore.New()
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Accepted, Envelope: okEnvelope()}}

	resp := newPipeline(store, d).Submit(context.Background(), validSubmission())

	require.True(t, resp.Success, resp.Message)
	require.NotNil(t, resp.Data)
	assert.Equal(t, intake.MsgSuccess, resp.Message)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "11122233344", resp.Data.TaxID)
	assert.Equal(t, "Mercado Bom Preço", resp.Data.FullName)
	_, err := time.Parse(time.RFC3339Nano, resp.Data.CreatedAt)
	assert.NoError(t, err)

	clients := store.Documents(docstore.CollectionPendingClients)
	require.Len(t, clients, 1)
	doc := clients[0].Body.(docstore.ClientDocument)
	assert.Equal(t, resp.Data.ID, doc.ID)
	assert.Equal(t, "11122233344", doc.TaxID, "el CPF se persiste solo con dígitos")

	assert.Equal(t, int32(1), atomic.LoadInt32(&d.calls))
	assert.Equal(t, tiny.PersonTypeIndividual, d.last.TipoPessoa)

	logs := store.Documents(docstore.CollectionLogs)
	require.Len(t, logs, 1)
	entry := logs[0].Body.(docstore.LogDocument)
	assert.Equal(t, "accepted", entry.Outcome)
	assert.Equal(t, resp.Data.ID, entry.ClientID)
	assert.NotNil(t, entry.Response)

	assert.Equal(t, 0, store.OpenSessions())
	assert.Equal(t, 2, store.Connects(), "persistencia y log abren su propia sesión")
}

func TestSubmit_CNPJEsOrganizacion(t *testing.T) {
	store := memstore.New()
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Accepted, Envelope: okEnvelope()}}
	in := validSubmission()
	in.TaxID = "12.345.678/0001-95"

	resp := newPipeline(store, d).Submit(context.Background(), in)
	require.True(t, resp.Success)
	assert.Equal(t, tiny.PersonTypeOrganization, d.last.TipoPessoa)
}

func TestSubmit_FalloDeTransporteSigueSiendoExito(t *testing.T) {
	store := memstore.New()
	d := &fakeDispatcher{result: tiny.DispatchResult{
		Outcome: tiny.Failed,
		Err:     errors.New("dial tcp: connection refused"),
	}}

	resp := newPipeline(store, d).Submit(context.Background(), validSubmission())

	assert.True(t, resp.Success)
	logs := store.Documents(docstore.CollectionLogs)
	require.Len(t, logs, 1)
	entry := logs[0].Body.(docstore.LogDocument)
	assert.Equal(t, "failed", entry.Outcome)
	assert.Contains(t, entry.Error, "connection refused")
	assert.Nil(t, entry.Response)
}

func TestSubmit_ErrorDeTransporteReal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	store := memstore.New()
	dispatcher := tiny.NewDispatcher(tiny.NewClient(url, "tok", nil))

	resp := newPipeline(store, dispatcher).Submit(context.Background(), validSubmission())
	assert.True(t, resp.Success)
	assert.Len(t, store.Documents(docstore.CollectionLogs), 1)
}

func TestSubmit_RechazoExternoSigueSiendoExito(t *testing.T) {
	store := memstore.New()
	env := &tiny.Envelope{Retorno: tiny.Retorno{Status: "Erro"}, Raw: []byte(`{"retorno":{"status":"Erro"}}`)}
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Rejected, Envelope: env, Err: domain.ErrDispatch}}

	resp := newPipeline(store, d).Submit(context.Background(), validSubmission())
	assert.True(t, resp.Success)
	entry := store.Documents(docstore.CollectionLogs)[0].Body.(docstore.LogDocument)
	assert.Equal(t, "rejected", entry.Outcome)
	assert.Equal(t, map[string]any{"retorno": map[string]any{"status": "Erro"}}, entry.Response)
}

func TestSubmit_SinTokenSigueSiendoExito(t *testing.T) {
	store := memstore.New()
	dispatcher := tiny.NewDispatcher(tiny.NewClient("", "", nil))

	resp := newPipeline(store, dispatcher).Submit(context.Background(), validSubmission())
	assert.True(t, resp.Success)
	entry := store.Documents(docstore.CollectionLogs)[0].Body.(docstore.LogDocument)
	assert.Equal(t, "failed", entry.Outcome)
	assert.Contains(t, entry.Error, domain.ErrMissingAPIToken.Error())
}

func TestSubmit_FalloDeLogNoAfectaResultado(t *testing.T) {
	store := memstore.New()
	store.FailInsert(docstore.CollectionLogs, errors.New("logs no disponible"))
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Accepted, Envelope: okEnvelope()}}

	resp := newPipeline(store, d).Submit(context.Background(), validSubmission())
	assert.True(t, resp.Success)
	assert.Equal(t, 0, store.OpenSessions())
}

func TestSubmit_PanicoDeLogNoAfectaResultado(t *testing.T) {
	store := memstore.New()
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Accepted, Envelope: okEnvelope()}}
	p := intake.NewPipeline(
		docstore.NewClientRepository(store, zerolog.Nop()),
		panicLogRepo{},
		d, nil, zerolog.Nop(),
	)

	resp := p.Submit(context.Background(), validSubmission())
	assert.True(t, resp.Success)
}

func TestSubmit_FalloDePersistencia(t *testing.T) {
	store := memstore.New()
	store.FailInsert(docstore.CollectionPendingClients, errors.New("disco lleno"))
	d := &fakeDispatcher{}

	resp := newPipeline(store, d).Submit(context.Background(), validSubmission())
	assert.False(t, resp.Success)
	assert.Equal(t, intake.MsgPersistenceFailed, resp.Message)
	assert.Empty(t, resp.Errors)
	assert.Zero(t, atomic.LoadInt32(&d.calls), "nada corre después de un fallo de persistencia")
	assert.Empty(t, store.Documents(docstore.CollectionLogs))
}

func TestSubmit_SinIdentidadEsFalloDePersistencia(t *testing.T) {
	store := memstore.New()
	store.DropIDs(docstore.CollectionPendingClients)
	d := &fakeDispatcher{}

	resp := newPipeline(store, d).Submit(context.Background(), validSubmission())
	assert.False(t, resp.Success)
	assert.Equal(t, intake.MsgPersistenceFailed, resp.Message)
	assert.Zero(t, atomic.LoadInt32(&d.calls))
}

func TestSubmit_PanicoInesperado(t *testing.T) {
	store := memstore.New()
	store.PanicOnInsert(docstore.CollectionPendingClients, "driver roto")

	resp := newPipeline(store, &fakeDispatcher{}).Submit(context.Background(), validSubmission())
	assert.False(t, resp.Success)
	assert.Equal(t, intake.MsgInternalError, resp.Message)
	assert.Equal(t, "driver roto", resp.Error)
	assert.Equal(t, 0, store.OpenSessions())
}

func TestSubmit_ContextoCanceladoTrasValidarNoAborta(t *testing.T) {
	store := memstore.New()
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Accepted, Envelope: okEnvelope()}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := newPipeline(store, d).Submit(ctx, validSubmission())
	assert.True(t, resp.Success)
	assert.Len(t, store.Documents(docstore.CollectionPendingClients), 1)
}

func TestSubmit_ReenvioCreaDuplicado(t *testing.T) {
	store := memstore.New()
	d := &fakeDispatcher{result: tiny.DispatchResult{Outcome: tiny.Failed, Err: errors.New("timeout")}}
	p := newPipeline(store, d)

	first := p.Submit(context.Background(), validSubmission())
	second := p.Submit(context.Background(), validSubmission())
	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.NotEqual(t, first.Data.ID, second.Data.ID)
	assert.Len(t, store.Documents(docstore.CollectionPendingClients), 2)
}
