package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")

	// Pipeline de cadastro.
	ErrValidation      = errors.New("el formulario tiene errores de validación")
	ErrPersistence     = errors.New("no se pudo persistir el cliente")
	ErrNoInsertedID    = errors.New("el almacén no asignó identidad al documento")
	ErrDispatch        = errors.New("envío a la API externa fallido")
	ErrMissingAPIToken = errors.New("token de la API externa no configurado")
	ErrAuditLog        = errors.New("no se pudo registrar el log de envío")
	ErrInvalidCEP      = errors.New("CEP inválido")
)
