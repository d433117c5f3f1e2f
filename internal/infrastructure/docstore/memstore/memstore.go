// Package memstore almacén de documentos en memoria. Se usa en tests y con
// STORE_DRIVER=memory para levantar el servicio sin base de datos.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/client-intake/internal/infrastructure/docstore"
)

var _ docstore.Connector = (*Store)(nil)

// Document documento guardado con su ID.
type Document struct {
	ID   string
	Body any
}

// Store almacén seguro para uso concurrente.
type Store struct {
	mu          sync.Mutex
	collections map[string][]Document
	connects    int
	disconnects int
	connectErr  error
	insertErr   map[string]error
	dropIDs     map[string]bool
	insertPanic map[string]any
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		collections: make(map[string][]Document),
		insertErr:   make(map[string]error),
		dropIDs:     make(map[string]bool),
		insertPanic: make(map[string]any),
	}
}

// FailConnect hace que Connect devuelva err (nil lo desactiva).
func (s *Store) FailConnect(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectErr = err
}

// FailInsert hace que InsertOne en collection devuelva err (nil lo desactiva).
func (s *Store) FailInsert(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.insertErr, collection)
		return
	}
	s.insertErr[collection] = err
}

// PanicOnInsert hace que InsertOne en collection entre en pánico con v.
func (s *Store) PanicOnInsert(collection string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertPanic[collection] = v
}

// DropIDs simula un almacén que inserta sin reportar identidad.
func (s *Store) DropIDs(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropIDs[collection] = true
}

// Documents devuelve una copia de los documentos de la colección.
func (s *Store) Documents(collection string) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Document(nil), s.collections[collection]...)
}

// Connects número de sesiones abiertas desde la creación.
func (s *Store) Connects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connects
}

// OpenSessions sesiones abiertas que aún no se liberaron.
func (s *Store) OpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connects - s.disconnects
}

// Connect implementa docstore.Connector.
func (s *Store) Connect(ctx context.Context) (docstore.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connectErr != nil {
		return nil, s.connectErr
	}
	s.connects++
	return &session{store: s}, nil
}

type session struct {
	store  *Store
	closed bool
}

func (ss *session) Database() docstore.Database { return database{store: ss.store} }

func (ss *session) Close(context.Context) error {
	ss.store.mu.Lock()
	defer ss.store.mu.Unlock()
	if !ss.closed {
		ss.closed = true
		ss.store.disconnects++
	}
	return nil
}

type database struct{ store *Store }

func (d database) Collection(name string) docstore.Collection {
	return collection{store: d.store, name: name}
}

type collection struct {
	store *Store
	name  string
}

func (c collection) InsertOne(ctx context.Context, doc any) (docstore.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return docstore.InsertResult{}, err
	}
	s := c.store
	s.mu.Lock()
	if v, ok := s.insertPanic[c.name]; ok {
		s.mu.Unlock()
		panic(v)
	}
	defer s.mu.Unlock()
	if err := s.insertErr[c.name]; err != nil {
		return docstore.InsertResult{}, err
	}
	id := ""
	if ident, ok := doc.(docstore.Identified); ok {
		id = ident.DocumentID()
	}
	if id == "" {
		id = uuid.NewString()
	}
	s.collections[c.name] = append(s.collections[c.name], Document{ID: id, Body: doc})
	if s.dropIDs[c.name] {
		return docstore.InsertResult{}, nil
	}
	return docstore.InsertResult{InsertedID: id}, nil
}
