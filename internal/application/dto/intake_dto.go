package dto

import (
	"strings"

	"github.com/jhoicas/client-intake/internal/domain/entity"
)

// ClientSubmission body de POST /api/clients: el formulario completo de los tres pasos.
type ClientSubmission struct {
	FullName          string `json:"fullName"`
	TaxID             string `json:"taxId"`
	StateRegistration string `json:"stateRegistration,omitempty"`

	CEP              string   `json:"cep"`
	Address          string   `json:"address"`
	Number           string   `json:"number"`
	Complement       string   `json:"complement,omitempty"`
	Neighborhood     string   `json:"neighborhood"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	DeliveryLocation string   `json:"deliveryLocation,omitempty"`
	ReceivingStart   string   `json:"receivingStart,omitempty"`
	ReceivingEnd     string   `json:"receivingEnd,omitempty"`
	ReceivingDays    []string `json:"receivingDays"`
	LunchClosed      bool     `json:"lunchClosed"`
	LunchStart       string   `json:"lunchStart,omitempty"`
	LunchEnd         string   `json:"lunchEnd,omitempty"`

	BuyerName    string `json:"buyerName,omitempty"`
	Phone1       string `json:"phone1,omitempty"`
	Phone2       string `json:"phone2,omitempty"`
	WhatsApp     string `json:"whatsapp"`
	Email        string `json:"email"`
	InvoiceEmail string `json:"invoiceEmail,omitempty"`
}

// ToEntity construye el cliente candidato (sin identidad ni timestamps).
// Recorta espacios; los horarios de almuerzo solo se conservan con el flag activo.
func (s ClientSubmission) ToEntity() *entity.Client {
	days := make([]entity.Weekday, 0, len(s.ReceivingDays))
	for _, d := range s.ReceivingDays {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, entity.Weekday(d))
		}
	}
	c := &entity.Client{
		FullName:          strings.TrimSpace(s.FullName),
		TaxID:             strings.TrimSpace(s.TaxID),
		StateRegistration: strings.TrimSpace(s.StateRegistration),
		CEP:               strings.TrimSpace(s.CEP),
		Address:           strings.TrimSpace(s.Address),
		Number:            strings.TrimSpace(s.Number),
		Complement:        strings.TrimSpace(s.Complement),
		Neighborhood:      strings.TrimSpace(s.Neighborhood),
		City:              strings.TrimSpace(s.City),
		State:             strings.TrimSpace(s.State),
		DeliveryLocation:  strings.TrimSpace(s.DeliveryLocation),
		ReceivingStart:    strings.TrimSpace(s.ReceivingStart),
		ReceivingEnd:      strings.TrimSpace(s.ReceivingEnd),
		ReceivingDays:     days,
		LunchClosed:       s.LunchClosed,
		BuyerName:         strings.TrimSpace(s.BuyerName),
		Phone1:            strings.TrimSpace(s.Phone1),
		Phone2:            strings.TrimSpace(s.Phone2),
		WhatsApp:          strings.TrimSpace(s.WhatsApp),
		Email:             strings.TrimSpace(s.Email),
		InvoiceEmail:      strings.TrimSpace(s.InvoiceEmail),
	}
	if s.LunchClosed {
		c.LunchStart = strings.TrimSpace(s.LunchStart)
		c.LunchEnd = strings.TrimSpace(s.LunchEnd)
	}
	return c
}

// ClientSummary datos devueltos tras un cadastro exitoso.
type ClientSummary struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	TaxID     string `json:"taxId"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// IntakeResponse resultado discriminado de la operación de cadastro.
// Success true trae Data; false trae Message y, si fue validación, Errors.
type IntakeResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *ClientSummary    `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// AddressResponse dirección resuelta a partir de un CEP.
type AddressResponse struct {
	CEP          string `json:"cep"`
	Address      string `json:"address"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}
