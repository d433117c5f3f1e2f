// Package mongostore implementa el almacén de documentos sobre MongoDB.
// Cada Connect crea un cliente nuevo y Close lo desconecta.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore"
)

var _ docstore.Connector = (*Connector)(nil)

// Connector abre sesiones contra una base MongoDB.
type Connector struct {
	uri      string
	database string
	timeout  time.Duration
}

// NewConnector construye el conector. database es el nombre de la base (ej. "cadastro").
func NewConnector(uri, database string) *Connector {
	return &Connector{uri: uri, database: database, timeout: 10 * time.Second}
}

// Connect conecta y verifica con ping; si el ping falla la conexión se descarta.
func (c *Connector) Connect(ctx context.Context) (docstore.Session, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(c.uri).
		SetConnectTimeout(c.timeout).
		SetServerSelectionTimeout(c.timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &session{client: client, db: client.Database(c.database)}, nil
}

type session struct {
	client *mongo.Client
	db     *mongo.Database
}

func (s *session) Database() docstore.Database { return database{db: s.db} }

func (s *session) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}

type database struct{ db *mongo.Database }

func (d database) Collection(name string) docstore.Collection {
	return collection{coll: d.db.Collection(name)}
}

type collection struct{ coll *mongo.Collection }

func (c collection) InsertOne(ctx context.Context, doc any) (docstore.InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return docstore.InsertResult{}, fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
		}
		return docstore.InsertResult{}, fmt.Errorf("mongo insertOne: %w", err)
	}
	if res == nil {
		return docstore.InsertResult{}, errors.New("mongo insertOne: resultado vacío")
	}
	return docstore.InsertResult{InsertedID: InsertedIDString(res.InsertedID)}, nil
}

// InsertedIDString convierte el _id devuelto por el driver a texto.
// ObjectID se expresa en hex; nil o un ObjectID cero se tratan como ausencia de ID.
func InsertedIDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case bson.ObjectID:
		if id.IsZero() {
			return ""
		}
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}
