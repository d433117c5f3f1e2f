package tiny_test

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/client-intake/internal/domain/entity"
	"github.com/jhoicas/client-intake/internal/infrastructure/tiny"
)

func fullClient() entity.Client {
	return entity.Client{
		ID:                "cli-1",
		FullName:          "Mercado Bom Preço LTDA",
		TaxID:             "12.345.678/0001-95",
		StateRegistration: "123.456.789.110",
		CEP:               "01310-100",
		Address:           "Av. Paulista",
		Number:            "1000",
		Complement:        "Loja 2",
		Neighborhood:      "Bela Vista",
		City:              "São Paulo",
		State:             "SP",
		DeliveryLocation:  "Doca 3",
		ReceivingStart:    "08:00",
		ReceivingEnd:      "17:00",
		ReceivingDays:     []entity.Weekday{entity.Monday, entity.Tuesday, entity.Saturday},
		LunchClosed:       true,
		LunchStart:        "12:00",
		LunchEnd:          "13:00",
		BuyerName:         "João",
		Phone1:            "(11) 3333-4444",
		Phone2:            "(11) 3333-5555",
		WhatsApp:          "(11) 98888-7777",
		Email:             "compras@bompreco.com.br",
		InvoiceEmail:      "nfe@bompreco.com.br",
	}
}

func TestMapContact_Completo(t *testing.T) {
	got := tiny.MapContact(fullClient())

	assert.Equal(t, tiny.Contact{
		Sequencia:    "1",
		Nome:         "Mercado Bom Preço LTDA",
		TipoPessoa:   tiny.PersonTypeOrganization,
		CPFCNPJ:      "12345678000195",
		IE:           "123.456.789.110",
		RG:           "",
		IM:           "",
		Contribuinte: tiny.ContributorICMS,
		Endereco:     "Av. Paulista",
		Numero:       "1000",
		Complemento:  "Loja 2",
		Bairro:       "Bela Vista",
		CEP:          "01310100",
		Cidade:       "São Paulo",
		UF:           "SP",
		Pais:         "Brasil",
		Contatos:     "Mercado Bom Preço LTDA",
		Fone:         "(11) 3333-4444",
		Fax:          "(11) 3333-5555",
		Celular:      "(11) 98888-7777",
		Email:        "compras@bompreco.com.br",
		EmailNFe:     "nfe@bompreco.com.br",
		Situacao:     tiny.SituationActive,
		Obs: "Local de Entrega: Doca 3 | Horário de Entrega: 08:00 às 17:00 | " +
			"Intervalo de Almoço: 12:00 às 13:00 | Dias de Entrega: Segunda, Terca, Sabado",
		TiposContato: []tiny.ContactType{{Tipo: tiny.ContactTypeClient}},
	}, got)
}

func TestMapContact_TipoPessoa(t *testing.T) {
	c := fullClient()
	c.TaxID = "111.222.333-44"
	got := tiny.MapContact(c)
	assert.Equal(t, tiny.PersonTypeIndividual, got.TipoPessoa)
	assert.Equal(t, "11122233344", got.CPFCNPJ)

	c.TaxID = "12345678000195"
	assert.Equal(t, tiny.PersonTypeOrganization, tiny.MapContact(c).TipoPessoa)
}

func TestMapContact_Contribuinte(t *testing.T) {
	c := fullClient()
	c.StateRegistration = "  "
	got := tiny.MapContact(c)
	assert.Equal(t, tiny.ContributorNone, got.Contribuinte)
	assert.NotEqual(t, tiny.ContributorExempt, got.Contribuinte)
}

func TestMapContact_RegistroVacio(t *testing.T) {
	assert.NotPanics(t, func() {
		got := tiny.MapContact(entity.Client{})
		assert.Equal(t, "", got.Nome)
		assert.Equal(t, "", got.CPFCNPJ)
		assert.Equal(t, "", got.CEP)
		assert.Equal(t, "", got.Obs)
		assert.Equal(t, "", got.Fone)
		assert.Equal(t, tiny.PersonTypeOrganization, got.TipoPessoa)
		assert.Equal(t, tiny.ContributorNone, got.Contribuinte)
	})
}

func TestMapContact_ContatoYTelefonos(t *testing.T) {
	c := entity.Client{
		FullName:       "Mercado",
		BuyerName:      "Joao",
		Phone1:         "(11) 1111-1111",
		Phone2:         "(11) 2222-2222",
		ReceivingStart: "08:00",
		ReceivingEnd:   "17:00",
		LunchClosed:    true,
		LunchStart:     "12:00",
		LunchEnd:       "13:00",
		ReceivingDays:  []entity.Weekday{entity.Monday},
	}
	got := tiny.MapContact(c)
	assert.Equal(t, "Mercado", got.Contatos)
	assert.Equal(t, "(11) 1111-1111", got.Fone)
	assert.Equal(t, "(11) 2222-2222", got.Fax)
	assert.Equal(t, "Horário de Entrega: 08:00 às 17:00 | Intervalo de Almoço: 12:00 às 13:00 | Dias de Entrega: Segunda", got.Obs)

	body, err := json.Marshal(got)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))
	assert.Equal(t, "Brasil", wire["pais"])
	assert.Equal(t, "(11) 2222-2222", wire["fax"])
	assert.Contains(t, wire, "rg")
	assert.Contains(t, wire, "im")
}

func TestMapContact_Determinista(t *testing.T) {
	c := fullClient()
	assert.Equal(t, tiny.MapContact(c), tiny.MapContact(c))
}

func TestBuildObs_OmiteVacios(t *testing.T) {
	c := entity.Client{
		ReceivingStart: "08:00", // sin fin: se omite
		LunchClosed:    false,
		LunchStart:     "12:00",
		LunchEnd:       "13:00", // sin flag: se omite
		ReceivingDays:  []entity.Weekday{entity.Friday},
	}
	assert.Equal(t, "Dias de Entrega: Sexta", tiny.BuildObs(c))

	c.LunchClosed = true
	c.LunchEnd = ""
	assert.Equal(t, "Dias de Entrega: Sexta", tiny.BuildObs(c))
}

func TestBuildObs_TruncaEn200Exactos(t *testing.T) {
	prefix := "Local de Entrega: "
	c := entity.Client{DeliveryLocation: strings.Repeat("a", 201-len(prefix))}
	full := prefix + c.DeliveryLocation
	assert.Equal(t, 201, utf8.RuneCountInString(full))

	got := tiny.BuildObs(c)
	assert.Equal(t, 200, utf8.RuneCountInString(got))
	assert.Equal(t, full[:200], got)
}

func TestBuildObs_TruncaPorCaracteres(t *testing.T) {
	c := entity.Client{DeliveryLocation: strings.Repeat("ç", 300)}
	got := tiny.BuildObs(c)
	assert.Equal(t, tiny.MaxObsLength, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestBuildObs_ExactamenteElLimite(t *testing.T) {
	prefix := "Local de Entrega: "
	c := entity.Client{DeliveryLocation: strings.Repeat("b", 200-len(prefix))}
	assert.Equal(t, prefix+c.DeliveryLocation, tiny.BuildObs(c))
}
