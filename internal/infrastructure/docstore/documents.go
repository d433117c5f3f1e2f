package docstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/client-intake/internal/domain/entity"
)

// ClientDocument forma persistida de un cliente en pending_clients.
type ClientDocument struct {
	ID                string   `json:"_id" bson:"_id"`
	FullName          string   `json:"fullName" bson:"fullName"`
	TaxID             string   `json:"taxId" bson:"taxId"`
	StateRegistration string   `json:"stateRegistration,omitempty" bson:"stateRegistration,omitempty"`
	CEP               string   `json:"cep" bson:"cep"`
	Address           string   `json:"address" bson:"address"`
	Number            string   `json:"number" bson:"number"`
	Complement        string   `json:"complement,omitempty" bson:"complement,omitempty"`
	Neighborhood      string   `json:"neighborhood" bson:"neighborhood"`
	City              string   `json:"city" bson:"city"`
	State             string   `json:"state" bson:"state"`
	DeliveryLocation  string   `json:"deliveryLocation,omitempty" bson:"deliveryLocation,omitempty"`
	ReceivingStart    string   `json:"receivingStart,omitempty" bson:"receivingStart,omitempty"`
	ReceivingEnd      string   `json:"receivingEnd,omitempty" bson:"receivingEnd,omitempty"`
	ReceivingDays     []string `json:"receivingDays" bson:"receivingDays"`
	LunchClosed       bool     `json:"lunchClosed" bson:"lunchClosed"`
	LunchStart        string   `json:"lunchStart,omitempty" bson:"lunchStart,omitempty"`
	LunchEnd          string   `json:"lunchEnd,omitempty" bson:"lunchEnd,omitempty"`
	BuyerName         string   `json:"buyerName,omitempty" bson:"buyerName,omitempty"`
	Phone1            string   `json:"phone1,omitempty" bson:"phone1,omitempty"`
	Phone2            string   `json:"phone2,omitempty" bson:"phone2,omitempty"`
	WhatsApp          string   `json:"whatsapp" bson:"whatsapp"`
	Email             string   `json:"email" bson:"email"`
	InvoiceEmail      string   `json:"invoiceEmail,omitempty" bson:"invoiceEmail,omitempty"`
	CreatedAt         string   `json:"createdAt" bson:"createdAt"` // ISO-8601
	UpdatedAt         string   `json:"updatedAt" bson:"updatedAt"`
}

// DocumentID implementa Identified.
func (d ClientDocument) DocumentID() string { return d.ID }

// NewClientDocument construye el documento a partir del cliente ya materializado.
func NewClientDocument(c *entity.Client) ClientDocument {
	days := make([]string, 0, len(c.ReceivingDays))
	for _, d := range c.ReceivingDays {
		days = append(days, string(d))
	}
	return ClientDocument{
		ID:                c.ID,
		FullName:          c.FullName,
		TaxID:             c.TaxID,
		StateRegistration: c.StateRegistration,
		CEP:               c.CEP,
		Address:           c.Address,
		Number:            c.Number,
		Complement:        c.Complement,
		Neighborhood:      c.Neighborhood,
		City:              c.City,
		State:             c.State,
		DeliveryLocation:  c.DeliveryLocation,
		ReceivingStart:    c.ReceivingStart,
		ReceivingEnd:      c.ReceivingEnd,
		ReceivingDays:     days,
		LunchClosed:       c.LunchClosed,
		LunchStart:        c.LunchStart,
		LunchEnd:          c.LunchEnd,
		BuyerName:         c.BuyerName,
		Phone1:            c.Phone1,
		Phone2:            c.Phone2,
		WhatsApp:          c.WhatsApp,
		Email:             c.Email,
		InvoiceEmail:      c.InvoiceEmail,
		CreatedAt:         formatTime(c.CreatedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
}

// LogDocument forma persistida de un LogEntry en logs.
type LogDocument struct {
	Timestamp string `json:"timestamp" bson:"timestamp"`
	ClientID  string `json:"clientId,omitempty" bson:"clientId,omitempty"`
	Outcome   string `json:"outcome" bson:"outcome"`
	Payload   any    `json:"payload" bson:"payload"`
	Response  any    `json:"response" bson:"response"`
	Error     string `json:"error,omitempty" bson:"error,omitempty"`
}

// NewLogDocument construye el documento de auditoría. Payload y respuesta se
// normalizan a valores genéricos para que JSON y BSON conserven los mismos nombres.
func NewLogDocument(e *entity.LogEntry) LogDocument {
	return LogDocument{
		Timestamp: formatTime(e.Timestamp),
		ClientID:  e.ClientID,
		Outcome:   e.Outcome,
		Payload:   genericValue(e.Payload),
		Response:  genericValue(e.Response),
		Error:     e.Error,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// genericValue convierte v a mapas/slices/escalares vía JSON. json.RawMessage inválido
// se guarda como texto y lo que no se puede serializar, con su forma %v.
func genericValue(v any) any {
	if v == nil {
		return nil
	}
	var raw []byte
	switch x := v.(type) {
	case json.RawMessage:
		if len(x) == 0 {
			return nil
		}
		raw = x
	case []byte:
		if len(x) == 0 {
			return nil
		}
		raw = x
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		raw = b
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}
