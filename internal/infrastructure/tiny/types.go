package tiny

import "encoding/json"

// Valores del esquema de contatos de la API externa.
const (
	PersonTypeIndividual   = "F" // pessoa física (CPF)
	PersonTypeOrganization = "J" // pessoa jurídica (CNPJ)

	ContributorICMS   = "1" // contribuinte ICMS
	ContributorExempt = "2" // contribuinte isento; el mapeo nunca lo produce
	ContributorNone   = "9" // não contribuinte

	SituationActive = "A"

	ContactTypeClient = "Cliente"

	CountryBrazil = "Brasil"

	StatusOK = "OK"
)

// ContactType etiqueta de tipo de contato.
type ContactType struct {
	Tipo string `json:"tipo"`
}

// Contact payload de contato tal como lo espera contato.incluir.php.
type Contact struct {
	Sequencia    string        `json:"sequencia"`
	Nome         string        `json:"nome"`
	TipoPessoa   string        `json:"tipo_pessoa"`
	CPFCNPJ      string        `json:"cpf_cnpj"`
	IE           string        `json:"ie"`
	RG           string        `json:"rg"`
	IM           string        `json:"im"`
	Contribuinte string        `json:"contribuinte"`
	Endereco     string        `json:"endereco"`
	Numero       string        `json:"numero"`
	Complemento  string        `json:"complemento"`
	Bairro       string        `json:"bairro"`
	CEP          string        `json:"cep"`
	Cidade       string        `json:"cidade"`
	UF           string        `json:"uf"`
	Pais         string        `json:"pais"`
	Contatos     string        `json:"contatos"`
	Fone         string        `json:"fone"`
	Fax          string        `json:"fax"`
	Celular      string        `json:"celular"`
	Email        string        `json:"email"`
	EmailNFe     string        `json:"email_nfe"`
	Situacao     string        `json:"situacao"`
	Obs          string        `json:"obs"`
	TiposContato []ContactType `json:"tipos_contato"`
}

// contactRequest envoltorio {contatos: [{contato: {...}}]} esperado por la API.
type contactRequest struct {
	Contatos []contactItem `json:"contatos"`
}

type contactItem struct {
	Contato Contact `json:"contato"`
}

// Envelope respuesta de la API: {"retorno": {...}}.
type Envelope struct {
	Retorno Retorno `json:"retorno"`

	// Raw cuerpo recibido, conservado para la auditoría.
	Raw json.RawMessage `json:"-"`
}

// Retorno contenido del envelope. Registros y Erros varían por endpoint: se guardan crudos.
type Retorno struct {
	StatusProcessamento json.RawMessage `json:"status_processamento,omitempty"`
	Status              string          `json:"status"`
	CodigoErro          json.RawMessage `json:"codigo_erro,omitempty"`
	Registros           json.RawMessage `json:"registros,omitempty"`
	Erros               json.RawMessage `json:"erros,omitempty"`
}

// OK indica si la API declaró éxito.
func (e *Envelope) OK() bool {
	return e != nil && e.Retorno.Status == StatusOK
}
