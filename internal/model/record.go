package model

import "strings"

// PersonType distinguishes legal entities from natural persons, as written in
// the contract terms ("PJ" / "PF").
type PersonType string

const (
	PersonLegalEntity PersonType = "PJ"
	PersonNatural     PersonType = "PF"
)

// Category is the client classification that drives the discount policy.
type Category string

const (
	CategoryGeneral        Category = "Geral"
	CategoryGovernment     Category = "Governo"
	CategoryConcessionaire Category = "Permissionario"
)

// DiscountNone is stored on events priced without a discount.
const DiscountNone = "Nenhum"

// EventStatusPending is the fixed initial status of every imported event.
const EventStatusPending = "Pendente"

// Record is one extracted contract term: one client plus its events. The JSON
// field names are the wire format of the intermediate stage files.
type Record struct {
	Client      *Client `json:"cliente"`
	Events      []Event `json:"eventos"`
	SourceFile  string  `json:"arquivo_origem"`
	DriveFileID string  `json:"id_arquivo_drive"`
}

// Client holds the permission-term holder's identity and address.
type Client struct {
	LegalName         string     `json:"nome_razao_social"`
	OfficialLegalName string     `json:"nome_razao_social_oficial,omitempty"`
	Document          string     `json:"documento"`
	PersonType        PersonType `json:"tipo_pessoa"`
	ResponsibleName   string     `json:"nome_responsavel"`
	Category          Category   `json:"tipo_cliente,omitempty"`

	PostalCode string `json:"cep,omitempty"`
	Street     string `json:"logradouro,omitempty"`
	Number     string `json:"numero,omitempty"`
	Complement string `json:"complemento,omitempty"`
	District   string `json:"bairro,omitempty"`
	City       string `json:"cidade,omitempty"`
	State      string `json:"uf,omitempty"`
}

// Event is one venue-use event granted by a term. NetValue stays a pointer:
// null from the extractor means "not found", while 0.0 means a confirmed
// free event.
type Event struct {
	ProcessNumber string   `json:"numero_processo"`
	TermNumber    string   `json:"numero_termo"`
	Name          string   `json:"nome_evento"`
	Dates         []string `json:"datas_evento"`
	StartTime     string   `json:"hora_inicio"`
	EndTime       string   `json:"hora_fim"`
	NetValue      *float64 `json:"valor_final"`
	Venue         string   `json:"espaco_utilizado"`
	SEINumber     string   `json:"numero_oficio_sei,omitempty"`
	FinalValidity string   `json:"data_vigencia_final,omitempty"`
}

// StoredClient is a client row as persisted in the clientes_eventos table.
type StoredClient struct {
	ID              string
	LegalName       string
	PersonType      PersonType
	Document        string
	ResponsibleName string
	Category        Category
}

// EventRow is an event prepared for insertion, carrying the derived pricing
// fields alongside the extracted ones.
type EventRow struct {
	ClientID      string
	Name          string
	Dates         []string
	DayCount      int
	GrossValue    float64
	NetValue      float64
	Status        string
	FinalValidity string
	ProcessNumber string
	TermNumber    string
	Venue         string
	SEINumber     string
	StartTime     string
	EndTime       string
	DiscountKind  string
}

// DigitsOnly strips everything but ASCII digits from a tax identifier.
// Extractor output is not trusted to be normalized.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
