package dto

// ErrorResponse cuerpo de error HTTP fuera del cadastro (CEP, rutas desconocidas).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
