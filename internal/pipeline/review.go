package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sistemacipt/termos-cli/internal/docx"
	"github.com/sistemacipt/termos-cli/internal/model"
	"github.com/sistemacipt/termos-cli/pkg/drive"
)

// MissingField reports whether the value at a dotted path like
// "cliente.nome_responsavel" is absent or empty in the record. Empty means
// nil, "", an empty list, 0, or false; a missing intermediate key counts as
// missing.
func MissingField(rec model.Record, path string) bool {
	data, err := json.Marshal(rec)
	if err != nil {
		return true
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return true
	}

	var cur any = tree
	for _, key := range strings.Split(path, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return true
		}
		cur, ok = node[key]
		if !ok {
			return true
		}
	}

	switch v := cur.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case float64:
		return v == 0
	case bool:
		return !v
	}
	return false
}

// Reviewer assembles the source documents behind incomplete records into a
// single text file for a human pass.
type Reviewer struct {
	Drive drive.Client
}

// Run scans records for a missing field and writes the consolidated review
// file. It returns how many records matched. Download or text-extraction
// failures are noted inline so the review file still accounts for every
// matching document.
func (r *Reviewer) Run(ctx context.Context, records []model.Record, fieldPath, outPath string) (int, error) {
	var b strings.Builder
	matched := 0

	for _, rec := range records {
		if !MissingField(rec, fieldPath) {
			continue
		}
		matched++

		fmt.Fprintf(&b, "======================================================================\n")
		fmt.Fprintf(&b, "ARQUIVO: %s\n", rec.SourceFile)
		if rec.Client != nil {
			fmt.Fprintf(&b, "DOCUMENTO: %s\n", rec.Client.Document)
		}
		fmt.Fprintf(&b, "ID DO DRIVE: %s\n", rec.DriveFileID)
		fmt.Fprintf(&b, "======================================================================\n\n")

		text, err := r.fetchText(ctx, rec.DriveFileID)
		if err != nil {
			if ctx.Err() != nil {
				return matched, eris.Wrap(ctx.Err(), "pipeline: review interrupted")
			}
			zap.L().Warn("review source unavailable",
				zap.String("file", rec.SourceFile),
				zap.Error(err),
			)
			fmt.Fprintf(&b, "[FALHA AO OBTER O TEXTO: %v]\n\n", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		return matched, eris.Wrapf(err, "pipeline: write %s", outPath)
	}
	zap.L().Info("review file written",
		zap.String("path", outPath),
		zap.String("field", fieldPath),
		zap.Int("matched", matched),
	)
	return matched, nil
}

func (r *Reviewer) fetchText(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", eris.New("pipeline: record has no drive file id")
	}
	data, err := r.Drive.Download(ctx, fileID)
	if err != nil {
		return "", err
	}
	return docx.Text(data)
}
