// Package pgstore implementa el almacén de documentos sobre PostgreSQL: una tabla por
// colección con el documento en JSONB.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore"
)

var _ docstore.Connector = (*Connector)(nil)

// Querier lo cumplen *pgxpool.Conn, *pgx.Conn, pgx.Tx y los mocks de pgxmock.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Collections tablas que EnsureSchema crea.
var Collections = []string{docstore.CollectionPendingClients, docstore.CollectionLogs}

// Connector adquiere conexiones del pool por operación; Close las devuelve.
type Connector struct {
	pool *pgxpool.Pool
}

// NewConnector construye el conector sobre un pool ya creado.
func NewConnector(pool *pgxpool.Pool) *Connector {
	return &Connector{pool: pool}
}

// Connect implementa docstore.Connector.
func (c *Connector) Connect(ctx context.Context) (docstore.Session, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	return &session{conn: conn}, nil
}

type session struct {
	conn *pgxpool.Conn
}

func (s *session) Database() docstore.Database { return NewDatabase(s.conn) }

func (s *session) Close(context.Context) error {
	s.conn.Release()
	return nil
}

// EnsureSchema crea las tablas de las colecciones si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, name := range Collections {
		table := pgx.Identifier{name}.Sanitize()
		sql := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				document   JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, table)
		if _, err := q.Exec(ctx, sql); err != nil {
			return fmt.Errorf("crear tabla %s: %w", name, err)
		}
	}
	return nil
}

// NewDatabase expone q como docstore.Database.
func NewDatabase(q Querier) docstore.Database {
	return database{q: q}
}

type database struct{ q Querier }

func (d database) Collection(name string) docstore.Collection {
	return collection{q: d.q, name: name}
}

type collection struct {
	q    Querier
	name string
}

func (c collection) InsertOne(ctx context.Context, doc any) (docstore.InsertResult, error) {
	id := ""
	if ident, ok := doc.(docstore.Identified); ok {
		id = ident.DocumentID()
	}
	if id == "" {
		id = uuid.NewString()
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return docstore.InsertResult{}, fmt.Errorf("serializar documento: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, document) VALUES ($1, $2) RETURNING id`,
		pgx.Identifier{c.name}.Sanitize())
	var inserted string
	if err := c.q.QueryRow(ctx, query, id, body).Scan(&inserted); err != nil {
		if isUniqueViolation(err) {
			return docstore.InsertResult{}, domain.ErrDuplicate
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.InsertResult{}, nil
		}
		return docstore.InsertResult{}, fmt.Errorf("insert %s: %w", c.name, err)
	}
	return docstore.InsertResult{InsertedID: inserted}, nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
