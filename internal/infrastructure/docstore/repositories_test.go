package docstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/domain/entity"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore/memstore"
)

func TestClientRepo_InsertMaterializaYLibera(t *testing.T) {
	store := memstore.New()
	repo := docstore.NewClientRepository(store, zerolog.Nop())

	client := &entity.Client{FullName: "Ana", TaxID: "11122233344"}
	id, err := repo.Insert(context.Background(), client)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, id, client.ID)
	assert.False(t, client.CreatedAt.IsZero())
	assert.Equal(t, client.CreatedAt, client.UpdatedAt)
	assert.Equal(t, 1, store.Connects())
	assert.Equal(t, 0, store.OpenSessions())

	docs := store.Documents(docstore.CollectionPendingClients)
	require.Len(t, docs, 1)
	doc := docs[0].Body.(docstore.ClientDocument)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	_, perr := time.Parse(time.RFC3339Nano, doc.CreatedAt)
	assert.NoError(t, perr, "createdAt debe ser ISO-8601")
}

func TestClientRepo_IdentidadInmutable(t *testing.T) {
	store := memstore.New()
	repo := docstore.NewClientRepository(store, zerolog.Nop())

	_, err := repo.Insert(context.Background(), &entity.Client{ID: "ya-existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Connects())
}

func TestClientRepo_FalloDeInsercionLiberaSesion(t *testing.T) {
	store := memstore.New()
	store.FailInsert(docstore.CollectionPendingClients, errors.New("disco lleno"))
	repo := docstore.NewClientRepository(store, zerolog.Nop())

	client := &entity.Client{FullName: "Ana"}
	_, err := repo.Insert(context.Background(), client)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, client.ID, "el cliente no se materializa si falla la inserción")
	assert.Equal(t, 0, store.OpenSessions())
}

func TestClientRepo_PanicoLiberaSesion(t *testing.T) {
	store := memstore.New()
	store.PanicOnInsert(docstore.CollectionPendingClients, "boom")
	repo := docstore.NewClientRepository(store, zerolog.Nop())

	assert.Panics(t, func() {
		_, _ = repo.Insert(context.Background(), &entity.Client{})
	})
	assert.Equal(t, 0, store.OpenSessions())
}

func TestClientRepo_SinIdentidadInsertada(t *testing.T) {
	store := memstore.New()
	store.DropIDs(docstore.CollectionPendingClients)
	repo := docstore.NewClientRepository(store, zerolog.Nop())

	_, err := repo.Insert(context.Background(), &entity.Client{})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, domain.ErrNoInsertedID)
}

func TestClientRepo_FalloDeConexion(t *testing.T) {
	store := memstore.New()
	store.FailConnect(errors.New("sin red"))
	repo := docstore.NewClientRepository(store, zerolog.Nop())

	_, err := repo.Insert(context.Background(), &entity.Client{})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 0, store.OpenSessions())
}

func TestLogRepo_Insert(t *testing.T) {
	store := memstore.New()
	repo := docstore.NewLogRepository(store, zerolog.Nop())

	entry := &entity.LogEntry{
		Timestamp: time.Now(),
		ClientID:  "cli-1",
		Payload:   map[string]string{"nome": "Ana"},
		Response:  json.RawMessage(`{"retorno":{"status":"OK"}}`),
		Outcome:   "accepted",
	}
	require.NoError(t, repo.Insert(context.Background(), entry))

	docs := store.Documents(docstore.CollectionLogs)
	require.Len(t, docs, 1)
	doc := docs[0].Body.(docstore.LogDocument)
	assert.Equal(t, map[string]any{"nome": "Ana"}, doc.Payload)
	assert.Equal(t, map[string]any{"retorno": map[string]any{"status": "OK"}}, doc.Response)
	assert.Equal(t, 0, store.OpenSessions())
}

func TestLogRepo_Fallo(t *testing.T) {
	store := memstore.New()
	store.FailInsert(docstore.CollectionLogs, errors.New("timeout"))
	repo := docstore.NewLogRepository(store, zerolog.Nop())

	err := repo.Insert(context.Background(), &entity.LogEntry{})
	assert.ErrorIs(t, err, domain.ErrAuditLog)
	assert.Equal(t, 0, store.OpenSessions())
}

func TestNewLogDocument_RespuestaNoJSON(t *testing.T) {
	doc := docstore.NewLogDocument(&entity.LogEntry{Response: json.RawMessage("<html>")})
	assert.Equal(t, "<html>", doc.Response)

	doc = docstore.NewLogDocument(&entity.LogEntry{})
	assert.Nil(t, doc.Response)
	assert.Nil(t, doc.Payload)
}
