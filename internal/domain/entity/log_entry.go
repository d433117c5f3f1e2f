package entity

import "time"

// LogEntry registro de auditoría de un intento de envío a la API externa.
// Se crea una vez por intento y nunca se actualiza ni se relee.
type LogEntry struct {
	Timestamp time.Time
	ClientID  string
	Payload   any    // payload enviado (contato mapeado)
	Response  any    // envelope de respuesta; nil si no hubo respuesta
	Outcome   string // accepted | rejected | failed
	Error     string // marca de fallo derivada, vacía si fue aceptado
}
