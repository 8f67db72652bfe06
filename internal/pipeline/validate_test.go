package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sistemacipt/termos-cli/internal/model"
)

func TestValidate_CompleteRecord(t *testing.T) {
	rep := Validate([]model.Record{{
		Client: &model.Client{
			LegalName:       "Empresa Exemplo",
			Document:        "12345678000195",
			PersonType:      model.PersonLegalEntity,
			ResponsibleName: "Maria",
		},
		Events: []model.Event{{
			Name:     "Feira",
			Dates:    []string{"2026-09-01"},
			NetValue: floatPtr(100),
			Venue:    "Pavilhão",
		}},
	}})

	assert.Equal(t, 1, rep.TotalRecords)
	assert.Equal(t, 1, rep.TotalEvents)
	for field, count := range rep.Missing {
		assert.Zero(t, count, field)
	}
}

func TestValidate_MissingClientFields(t *testing.T) {
	rep := Validate([]model.Record{{
		Client: &model.Client{LegalName: "Empresa"},
		Events: []model.Event{{Name: "Evento", Dates: []string{"2026-01-01"}, NetValue: floatPtr(1), Venue: "X"}},
	}})

	assert.Equal(t, 0, rep.Missing["cliente.nome_razao_social"])
	assert.Equal(t, 1, rep.Missing["cliente.documento"])
	assert.Equal(t, 1, rep.Missing["cliente.tipo_pessoa"])
	assert.Equal(t, 1, rep.Missing["cliente.nome_responsavel"])
}

func TestValidate_NilNetValueCountsMissing(t *testing.T) {
	rep := Validate([]model.Record{{
		Client: &model.Client{LegalName: "E", Document: "1", PersonType: "PJ", ResponsibleName: "R"},
		Events: []model.Event{
			{Name: "A", Dates: []string{"2026-01-01"}, NetValue: nil, Venue: "X"},
			{Name: "B", Dates: []string{"2026-01-02"}, NetValue: floatPtr(0), Venue: "X"},
		},
	}})

	// nil means not found; an explicit 0.0 is a confirmed free event.
	assert.Equal(t, 1, rep.Missing["evento.valor_final"])
	assert.Equal(t, 2, rep.TotalEvents)
}

func TestValidate_EmptyEventListCountsEveryEventFieldOnce(t *testing.T) {
	rep := Validate([]model.Record{{
		Client: &model.Client{LegalName: "E", Document: "1", PersonType: "PJ", ResponsibleName: "R"},
	}})

	assert.Equal(t, 0, rep.TotalEvents)
	assert.Equal(t, 1, rep.Missing["evento.nome_evento"])
	assert.Equal(t, 1, rep.Missing["evento.datas_evento"])
	assert.Equal(t, 1, rep.Missing["evento.valor_final"])
	assert.Equal(t, 1, rep.Missing["evento.espaco_utilizado"])
}

func TestValidationReportRender(t *testing.T) {
	rep := Validate([]model.Record{{Client: nil}})
	out := rep.Render()

	assert.Contains(t, out, "RELATÓRIO DE VALIDAÇÃO")
	assert.Contains(t, out, "Total de registros: 1")
	assert.Contains(t, out, "cliente.documento")
}
