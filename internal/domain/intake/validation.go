// Package intake contiene la tabla de reglas que decide si un cadastro se acepta.
// Es la única fuente de verdad: la validación por paso del asistente deriva de estas
// mismas reglas y existe solo como ayuda de presentación.
package intake

import (
	"regexp"
	"strings"

	"github.com/jhoicas/client-intake/internal/domain"
	"github.com/jhoicas/client-intake/internal/domain/entity"
	"github.com/jhoicas/client-intake/pkg/mask"
)

// Mensajes de error expuestos al usuario (pt-BR).
const (
	MsgFullNameRequired = "Nome é obrigatório"
	MsgTaxIDRequired    = "CPF/CNPJ é obrigatório"
	MsgTaxIDLength      = "CPF/CNPJ deve conter 11 ou 14 dígitos"
	MsgEmailRequired    = "Email é obrigatório"
	MsgEmailInvalid     = "Email inválido"
	MsgCEPRequired      = "CEP é obrigatório"
	MsgAddressRequired  = "Endereço é obrigatório"
	MsgNumberRequired   = "Número é obrigatório"
	MsgNeighborhoodReq  = "Bairro é obrigatório"
	MsgCityRequired     = "Cidade é obrigatória"
	MsgStateRequired    = "Estado é obrigatório"
	MsgWeekdaysRequired = "Selecione pelo menos um dia de recebimento"
	MsgWhatsAppRequired = "WhatsApp é obrigatório"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail indica si s tiene la forma local@dominio.tld.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidationErrors mapa campo → mensaje. Vacío significa válido.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range OrderedFields(v) {
		parts = append(parts, f+": "+v[f])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrValidation).
func (v ValidationErrors) Unwrap() error { return domain.ErrValidation }

// Rule regla independiente sobre un campo. Check devuelve el mensaje de error o "".
type Rule struct {
	Field string
	Check func(c *entity.Client) string
}

// Rules tabla normativa de aceptación del cadastro.
var Rules = []Rule{
	{FieldFullName, required(func(c *entity.Client) string { return c.FullName }, MsgFullNameRequired)},
	{FieldTaxID, checkTaxID},
	{FieldEmail, checkEmail},
	{FieldCEP, required(func(c *entity.Client) string { return c.CEP }, MsgCEPRequired)},
	{FieldAddress, required(func(c *entity.Client) string { return c.Address }, MsgAddressRequired)},
	{FieldNumber, required(func(c *entity.Client) string { return c.Number }, MsgNumberRequired)},
	{FieldNeighborhood, required(func(c *entity.Client) string { return c.Neighborhood }, MsgNeighborhoodReq)},
	{FieldCity, required(func(c *entity.Client) string { return c.City }, MsgCityRequired)},
	{FieldState, required(func(c *entity.Client) string { return c.State }, MsgStateRequired)},
	{FieldReceivingDays, checkWeekdays},
}

// Validate evalúa todas las reglas (sin cortar en el primer fallo) y devuelve los errores.
func Validate(c *entity.Client) ValidationErrors {
	errs := ValidationErrors{}
	for _, r := range Rules {
		if msg := r.Check(c); msg != "" {
			errs[r.Field] = msg
		}
	}
	return errs
}

func required(get func(c *entity.Client) string, msg string) func(c *entity.Client) string {
	return func(c *entity.Client) string {
		if strings.TrimSpace(get(c)) == "" {
			return msg
		}
		return ""
	}
}

func checkTaxID(c *entity.Client) string {
	if strings.TrimSpace(c.TaxID) == "" {
		return MsgTaxIDRequired
	}
	if n := len(mask.Digits(c.TaxID)); n != 11 && n != 14 {
		return MsgTaxIDLength
	}
	return ""
}

func checkEmail(c *entity.Client) string {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return MsgEmailRequired
	}
	if !ValidEmail(email) {
		return MsgEmailInvalid
	}
	return ""
}

func checkWeekdays(c *entity.Client) string {
	if len(c.ReceivingDays) == 0 {
		return MsgWeekdaysRequired
	}
	return ""
}
