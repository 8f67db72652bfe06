package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sistemacipt/termos-cli/internal/model"
)

// validatedFields are the field paths the validate stage audits, in report
// order. Client paths are counted once per record, event paths once per event.
var validatedFields = []string{
	"cliente.nome_razao_social",
	"cliente.documento",
	"cliente.tipo_pessoa",
	"cliente.nome_responsavel",
	"evento.nome_evento",
	"evento.datas_evento",
	"evento.valor_final",
	"evento.espaco_utilizado",
}

// ValidationReport counts missing occurrences per audited field path.
type ValidationReport struct {
	TotalRecords int
	TotalEvents  int
	Missing      map[string]int
}

// Validate audits the sanitized stage file for holes the import stage would
// carry into the database. A record with no events counts one miss for every
// evento.* field.
func Validate(records []model.Record) *ValidationReport {
	rep := &ValidationReport{
		TotalRecords: len(records),
		Missing:      make(map[string]int),
	}
	for _, f := range validatedFields {
		rep.Missing[f] = 0
	}

	for _, rec := range records {
		c := rec.Client
		if c == nil || c.LegalName == "" {
			rep.Missing["cliente.nome_razao_social"]++
		}
		if c == nil || c.Document == "" {
			rep.Missing["cliente.documento"]++
		}
		if c == nil || c.PersonType == "" {
			rep.Missing["cliente.tipo_pessoa"]++
		}
		if c == nil || c.ResponsibleName == "" {
			rep.Missing["cliente.nome_responsavel"]++
		}

		if len(rec.Events) == 0 {
			rep.Missing["evento.nome_evento"]++
			rep.Missing["evento.datas_evento"]++
			rep.Missing["evento.valor_final"]++
			rep.Missing["evento.espaco_utilizado"]++
			continue
		}
		for _, ev := range rec.Events {
			rep.TotalEvents++
			if ev.Name == "" {
				rep.Missing["evento.nome_evento"]++
			}
			if len(ev.Dates) == 0 {
				rep.Missing["evento.datas_evento"]++
			}
			if ev.NetValue == nil {
				rep.Missing["evento.valor_final"]++
			}
			if ev.Venue == "" {
				rep.Missing["evento.espaco_utilizado"]++
			}
		}
	}

	return rep
}

// Render formats the audit for the console, worst fields first.
func (r *ValidationReport) Render() string {
	var b strings.Builder
	b.WriteString("--- RELATÓRIO DE VALIDAÇÃO ---\n")
	fmt.Fprintf(&b, "Total de registros: %d\n", r.TotalRecords)
	fmt.Fprintf(&b, "Total de eventos: %d\n", r.TotalEvents)

	fields := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		if r.Missing[fields[i]] != r.Missing[fields[j]] {
			return r.Missing[fields[i]] > r.Missing[fields[j]]
		}
		return fields[i] < fields[j]
	})

	b.WriteString("\nCampos faltantes:\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "- %-32s %d\n", f, r.Missing[f])
	}
	return b.String()
}
