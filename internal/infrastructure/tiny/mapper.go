package tiny

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/client-intake/internal/domain/entity"
	"github.com/jhoicas/client-intake/pkg/mask"
)

// MaxObsLength límite de caracteres del campo obs.
const MaxObsLength = 200

const obsSeparator = " | "

// Prefijos de las partes del campo obs, en el orden en que se concatenan.
const (
	obsDeliveryPrefix  = "Local de Entrega: "
	obsReceivingPrefix = "Horário de Entrega: "
	obsLunchPrefix     = "Intervalo de Almoço: "
	obsWeekdaysPrefix  = "Dias de Entrega: "
)

// MapContact transforma el cliente persistido en el contato de la API externa.
// Es total y sin efectos: los opcionales ausentes quedan como "". El formulario no
// pide RG ni inscrição municipal, y el nombre completo va también en contatos.
func MapContact(c entity.Client) Contact {
	taxDigits := mask.Digits(c.TaxID)

	personType := PersonTypeOrganization
	if entity.IsIndividual(taxDigits) {
		personType = PersonTypeIndividual
	}

	contributor := ContributorNone
	if strings.TrimSpace(c.StateRegistration) != "" {
		contributor = ContributorICMS
	}

	return Contact{
		Sequencia:    "1",
		Nome:         c.FullName,
		TipoPessoa:   personType,
		CPFCNPJ:      taxDigits,
		IE:           c.StateRegistration,
		RG:           "",
		IM:           "",
		Contribuinte: contributor,
		Endereco:     c.Address,
		Numero:       c.Number,
		Complemento:  c.Complement,
		Bairro:       c.Neighborhood,
		CEP:          mask.Digits(c.CEP),
		Cidade:       c.City,
		UF:           c.State,
		Pais:         CountryBrazil,
		Contatos:     c.FullName,
		Fone:         c.Phone1,
		Fax:          c.Phone2,
		Celular:      c.WhatsApp,
		Email:        c.Email,
		EmailNFe:     c.InvoiceEmail,
		Situacao:     SituationActive,
		Obs:          BuildObs(c),
		TiposContato: []ContactType{{Tipo: ContactTypeClient}},
	}
}

// BuildObs arma el campo de observaciones: local de entrega, horario de entrega,
// intervalo de almuerzo y días, separados por " | " y cortado en MaxObsLength caracteres.
func BuildObs(c entity.Client) string {
	var parts []string
	if s := strings.TrimSpace(c.DeliveryLocation); s != "" {
		parts = append(parts, obsDeliveryPrefix+s)
	}
	if c.ReceivingStart != "" && c.ReceivingEnd != "" {
		parts = append(parts, obsReceivingPrefix+c.ReceivingStart+" às "+c.ReceivingEnd)
	}
	if c.LunchClosed && c.LunchStart != "" && c.LunchEnd != "" {
		parts = append(parts, obsLunchPrefix+c.LunchStart+" às "+c.LunchEnd)
	}
	if len(c.ReceivingDays) > 0 {
		title := cases.Title(language.BrazilianPortuguese, cases.NoLower)
		days := make([]string, 0, len(c.ReceivingDays))
		for _, d := range c.ReceivingDays {
			if s := strings.TrimSpace(string(d)); s != "" {
				days = append(days, title.String(s))
			}
		}
		if len(days) > 0 {
			parts = append(parts, obsWeekdaysPrefix+strings.Join(days, ", "))
		}
	}
	return truncate(strings.Join(parts, obsSeparator), MaxObsLength)
}

// truncate corta s en n caracteres (runas), nunca a mitad de un carácter.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
