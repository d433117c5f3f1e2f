package entity

import "time"

// Client representa un cliente captado por el formulario de cadastro.
// Una vez persistido este sistema no lo vuelve a modificar.
type Client struct {
	ID                string
	FullName          string
	TaxID             string // CPF (11 dígitos) o CNPJ (14 dígitos)
	StateRegistration string // Inscrição Estadual, opcional

	CEP              string
	Address          string
	Number           string
	Complement       string
	Neighborhood     string
	City             string
	State            string // UF
	DeliveryLocation string

	ReceivingStart string // HH:MM
	ReceivingEnd   string
	ReceivingDays  []Weekday
	LunchClosed    bool
	LunchStart     string
	LunchEnd       string

	BuyerName    string
	Phone1       string
	Phone2       string
	WhatsApp     string
	Email        string
	InvoiceEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsIndividual indica si el documento fiscal corresponde a persona física (CPF).
// Recibe el TaxID ya normalizado a dígitos.
func IsIndividual(taxDigits string) bool {
	return len(taxDigits) == 11
}

// Weekday día de la semana seleccionado para recibir mercadería.
type Weekday string

const (
	Monday    Weekday = "segunda"
	Tuesday   Weekday = "terca"
	Wednesday Weekday = "quarta"
	Thursday  Weekday = "quinta"
	Friday    Weekday = "sexta"
	Saturday  Weekday = "sabado"
	Sunday    Weekday = "domingo"
)

// Weekdays en el orden en que se muestran en el formulario.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = map[Weekday]string{
	Monday: "Segunda", Tuesday: "Terça", Wednesday: "Quarta", Thursday: "Quinta",
	Friday: "Sexta", Saturday: "Sábado", Sunday: "Domingo",
}

// Label nombre del día para mostrar. Los ids persistidos van sin acentos.
func (d Weekday) Label() string {
	if l, ok := weekdayLabels[d]; ok {
		return l
	}
	return string(d)
}
