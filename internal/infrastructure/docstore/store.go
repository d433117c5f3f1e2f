// Package docstore define el colaborador de almacén de documentos y los repositorios
// de cadastro y auditoría construidos sobre él.
//
// Cada operación abre su propia sesión, inserta y la libera de forma incondicional:
// no se mantiene una conexión a lo largo del pipeline.
package docstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Colecciones lógicas.
const (
	CollectionPendingClients = "pending_clients"
	CollectionLogs           = "logs"
)

// InsertResult resultado de insertOne. InsertedID vacío significa que el almacén
// no reportó identidad.
type InsertResult struct {
	InsertedID string
}

// Collection colección con alcance de una sesión.
type Collection interface {
	InsertOne(ctx context.Context, doc any) (InsertResult, error)
}

// Database base de datos expuesta por una sesión abierta.
type Database interface {
	Collection(name string) Collection
}

// Session conexión adquirida. Close la libera (disconnect).
type Session interface {
	Database() Database
	Close(ctx context.Context) error
}

// Connector abre sesiones contra el almacén.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// Identified lo implementan los documentos que traen su propio ID.
// Los almacenes que generan IDs lo respetan si está presente.
type Identified interface {
	DocumentID() string
}

// withDatabase adquiere una sesión, ejecuta fn y libera la sesión aunque fn falle o
// entre en pánico. Un error al liberar se registra pero no altera el resultado de fn.
func withDatabase(ctx context.Context, conn Connector, log zerolog.Logger, fn func(db Database) error) error {
	session, err := conn.Connect(ctx)
	if err != nil {
		return fmt.Errorf("conectar al almacén: %w", err)
	}
	defer func() {
		if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Warn().Err(cerr).Msg("cerrar sesión del almacén")
		}
	}()
	return fn(session.Database())
}
