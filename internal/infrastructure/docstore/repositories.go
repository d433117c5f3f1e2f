package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/domain/entity"
	"github.com/jhoicas/client-intake/internal/domain/repository"
)

var (
	_ repository.ClientRepository      = (*ClientRepo)(nil)
	_ repository.DispatchLogRepository = (*LogRepo)(nil)
)

// ClientRepo implementación de ClientRepository sobre cualquier Connector.
type ClientRepo struct {
	conn Connector
	log  zerolog.Logger
	now  func() time.Time
}

// NewClientRepository construye el repositorio de clientes pendientes.
func NewClientRepository(conn Connector, log zerolog.Logger) *ClientRepo {
	return &ClientRepo{conn: conn, log: log, now: time.Now}
}

// Insert materializa el cliente (ID nuevo y createdAt = updatedAt) y lo inserta en
// pending_clients. Un cliente que ya tiene identidad no se vuelve a insertar.
func (r *ClientRepo) Insert(ctx context.Context, client *entity.Client) (string, error) {
	if client.ID != "" {
		return "", fmt.Errorf("%w: el cliente %s ya fue persistido", domain.ErrInvalidInput, client.ID)
	}
	now := r.now().UTC()
	materialized := *client
	materialized.ID = uuid.NewString()
	materialized.CreatedAt = now
	materialized.UpdatedAt = now
	doc := NewClientDocument(&materialized)

	var insertedID string
	err := withDatabase(ctx, r.conn, r.log, func(db Database) error {
		res, err := db.Collection(CollectionPendingClients).InsertOne(ctx, doc)
		if err != nil {
			return fmt.Errorf("insert pending client: %w", err)
		}
		insertedID = res.InsertedID
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if insertedID == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrPersistence, domain.ErrNoInsertedID)
	}

	materialized.ID = insertedID
	*client = materialized
	return insertedID, nil
}

// LogRepo implementación de DispatchLogRepository.
type LogRepo struct {
	conn Connector
	log  zerolog.Logger
}

// NewLogRepository construye el repositorio de auditoría.
func NewLogRepository(conn Connector, log zerolog.Logger) *LogRepo {
	return &LogRepo{conn: conn, log: log}
}

// Insert escribe una entrada en logs con la misma disciplina adquirir/insertar/liberar.
func (r *LogRepo) Insert(ctx context.Context, entry *entity.LogEntry) error {
	doc := NewLogDocument(entry)
	err := withDatabase(ctx, r.conn, r.log, func(db Database) error {
		if _, err := db.Collection(CollectionLogs).InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuditLog, err)
	}
	return nil
}
