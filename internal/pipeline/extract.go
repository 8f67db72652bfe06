package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sistemacipt/termos-cli/internal/config"
	"github.com/sistemacipt/termos-cli/internal/docx"
	"github.com/sistemacipt/termos-cli/internal/model"
	"github.com/sistemacipt/termos-cli/internal/resilience"
	"github.com/sistemacipt/termos-cli/pkg/anthropic"
	"github.com/sistemacipt/termos-cli/pkg/drive"
)

const extractSystemPrompt = `Você é um assistente de IA altamente preciso, especializado em extrair dados de documentos contratuais e formatá-los como um objeto JSON.
Sua resposta deve conter APENAS o objeto JSON, sem nenhum texto, explicação ou cerca de código adicional.
Se um campo não for encontrado no texto, seu valor deve ser null.`

const extractUserPrompt = `Analise o seguinte "Termo de Permissão de Uso" (nome do arquivo: %s) e extraia as informações conforme a estrutura JSON solicitada.

Instruções Específicas:
- cliente.documento: retorne apenas os números do CNPJ ou CPF.
- eventos.valor_final: retorne um número (float). Se o evento for gratuito, retorne 0.0.
- eventos.datas_evento: retorne uma lista de strings, cada data no formato "YYYY-MM-DD".

Texto do Documento:
---
%s
---

Estrutura JSON de Saída:
{
  "cliente": {
    "nome_razao_social": "string",
    "documento": "string",
    "tipo_pessoa": "string ('PJ' ou 'PF')",
    "nome_responsavel": "string"
  },
  "eventos": [
    {
      "numero_processo": "string",
      "numero_termo": "string",
      "nome_evento": "string",
      "datas_evento": ["YYYY-MM-DD"],
      "hora_inicio": "string",
      "hora_fim": "string",
      "valor_final": 0.0,
      "espaco_utilizado": "string"
    }
  ]
}`

// Extractor runs the document extraction stage: list the configured Drive
// folders, download each term, and turn its text into a structured record.
type Extractor struct {
	Drive     drive.Client
	AI        anthropic.Client
	Model     string
	MaxTokens int64
	Retry     resilience.RetryConfig

	// Pause between documents keeps the model API within quota.
	Pause time.Duration
}

// Run processes every folder in sequence. Documents whose download, text
// extraction, or model call fails (after retries) are logged and excluded
// from the output; the run itself keeps going.
func (e *Extractor) Run(ctx context.Context, folders []config.DriveFolder) ([]model.Record, error) {
	var out []model.Record

	for _, folder := range folders {
		files, err := e.Drive.ListDocx(ctx, folder.ID)
		if err != nil {
			zap.L().Error("folder listing failed",
				zap.String("folder", folder.Name),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("processing folder",
			zap.String("folder", folder.Name),
			zap.Int("documents", len(files)),
		)

		for i, f := range files {
			zap.L().Info("extracting document",
				zap.Int("index", i+1),
				zap.Int("total", len(files)),
				zap.String("file", f.Name),
			)

			rec, err := e.extractOne(ctx, f)
			if err != nil {
				if ctx.Err() != nil {
					return out, eris.Wrap(ctx.Err(), "pipeline: extraction interrupted")
				}
				zap.L().Warn("document excluded: extraction failed",
					zap.String("file", f.Name),
					zap.Error(err),
				)
				continue
			}
			out = append(out, *rec)

			if e.Pause > 0 {
				timer := time.NewTimer(e.Pause)
				select {
				case <-ctx.Done():
					timer.Stop()
					return out, eris.Wrap(ctx.Err(), "pipeline: extraction interrupted")
				case <-timer.C:
				}
			}
		}
	}

	return out, nil
}

func (e *Extractor) extractOne(ctx context.Context, f drive.File) (*model.Record, error) {
	data, err := e.Drive.Download(ctx, f.ID)
	if err != nil {
		return nil, err
	}

	text, err := docx.Text(data)
	if err != nil {
		return nil, err
	}

	rec, err := resilience.DoVal(ctx, e.Retry, func(ctx context.Context) (*model.Record, error) {
		return e.callModel(ctx, text, f.Name)
	})
	if err != nil {
		return nil, err
	}

	rec.SourceFile = f.Name
	rec.DriveFileID = f.ID
	normalizeRecord(rec)
	return rec, nil
}

func (e *Extractor) callModel(ctx context.Context, text, fileName string) (*model.Record, error) {
	resp, err := e.AI.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.Model,
		MaxTokens: e.MaxTokens,
		System:    extractSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(extractUserPrompt, fileName, text)},
		},
	})
	if err != nil {
		return nil, err
	}

	var rec model.Record
	if err := json.Unmarshal([]byte(stripFences(resp.Text())), &rec); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse extraction response for %s", fileName)
	}
	return &rec, nil
}

// stripFences removes a markdown code fence if the model wrapped its output
// in one despite the instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// normalizeRecord enforces the invariants the extractor output is not trusted
// to hold: digits-only documento and non-negative net values.
func normalizeRecord(rec *model.Record) {
	if rec.Client != nil {
		rec.Client.Document = model.DigitsOnly(rec.Client.Document)
	}
	for i := range rec.Events {
		if rec.Events[i].NetValue != nil && *rec.Events[i].NetValue < 0 {
			zero := 0.0
			rec.Events[i].NetValue = &zero
		}
	}
}
