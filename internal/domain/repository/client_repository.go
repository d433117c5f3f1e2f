package repository

import (
	"context"

	"github.com/jhoicas/client-intake/internal/domain/entity"
)

// ClientRepository puerto de persistencia de clientes pendientes de aprobación.
// Insert asigna identidad y timestamps al cliente y devuelve el ID insertado.
type ClientRepository interface {
	Insert(ctx context.Context, client *entity.Client) (string, error)
}

// DispatchLogRepository puerto de la auditoría de envíos a la API externa.
type DispatchLogRepository interface {
	Insert(ctx context.Context, entry *entity.LogEntry) error
}
