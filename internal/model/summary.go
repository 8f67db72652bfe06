package model

import (
	"fmt"
	"strings"
)

// SkipEntry records a source document the importer could not process and why.
// These are only reported at end of run, never persisted.
type SkipEntry struct {
	SourceFile string `json:"arquivo"`
	Reason     string `json:"motivo"`
}

// ImportSummary tallies the outcome of an import run.
type ImportSummary struct {
	Processed      int
	ClientsCreated int
	ClientsReused  int
	EventsInserted int
	Skipped        []SkipEntry
}

// Skip appends one skip-report entry.
func (s *ImportSummary) Skip(sourceFile, reason string) {
	s.Skipped = append(s.Skipped, SkipEntry{SourceFile: sourceFile, Reason: reason})
}

// Render formats the end-of-run report for the console.
func (s *ImportSummary) Render() string {
	var b strings.Builder
	b.WriteString("--- RELATÓRIO FINAL DA IMPORTAÇÃO ---\n")
	fmt.Fprintf(&b, "Total de documentos processados: %d\n", s.Processed)
	fmt.Fprintf(&b, "Clientes novos criados: %d\n", s.ClientsCreated)
	fmt.Fprintf(&b, "Clientes existentes reutilizados: %d\n", s.ClientsReused)
	fmt.Fprintf(&b, "Eventos novos importados: %d\n", s.EventsInserted)
	if len(s.Skipped) > 0 {
		fmt.Fprintf(&b, "\n--- Registros Ignorados (%d) ---\n", len(s.Skipped))
		for _, sk := range s.Skipped {
			fmt.Fprintf(&b, "- Arquivo: %s | Motivo: %s\n", sk.SourceFile, sk.Reason)
		}
	}
	return b.String()
}
