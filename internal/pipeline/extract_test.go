package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sistemacipt/termos-cli/internal/config"
	"github.com/sistemacipt/termos-cli/internal/resilience"
	"github.com/sistemacipt/termos-cli/pkg/drive"
)

func termDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func fastRetry() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.InitialBackoff = time.Millisecond
	return cfg
}

const extractedJSON = `{
  "cliente": {
    "nome_razao_social": "Empresa Exemplo LTDA",
    "documento": "12.345.678/0001-95",
    "tipo_pessoa": "PJ",
    "nome_responsavel": ""
  },
  "eventos": [
    {
      "numero_processo": "E:01234.2026",
      "numero_termo": "015/2026",
      "nome_evento": "Feira de Artesanato",
      "datas_evento": ["2026-09-01", "2026-09-02"],
      "hora_inicio": "08:00",
      "hora_fim": "22:00",
      "valor_final": 1500.0,
      "espaco_utilizado": "Pavilhão Principal"
    }
  ]
}`

func TestExtractorRun(t *testing.T) {
	dr := new(mockDrive)
	ai := new(mockAI)

	dr.On("ListDocx", mock.Anything, "folder-pagos").
		Return([]drive.File{{ID: "f1", Name: "Termo 015-2026.docx"}}, nil)
	dr.On("Download", mock.Anything, "f1").
		Return(termDocx(t, "TERMO DE PERMISSÃO DE USO Nº 015/2026"), nil)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("```json\n"+extractedJSON+"\n```"), nil).Once()

	ex := &Extractor{Drive: dr, AI: ai, Model: "claude-sonnet-4-5-20250929", MaxTokens: 4096, Retry: fastRetry()}
	records, err := ex.Run(context.Background(), []config.DriveFolder{{Name: "Termos Pagos", ID: "folder-pagos"}})
	require.NoError(t, err)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Termo 015-2026.docx", rec.SourceFile)
	assert.Equal(t, "f1", rec.DriveFileID)
	require.NotNil(t, rec.Client)
	assert.Equal(t, "12345678000195", rec.Client.Document, "documento should be digits-only")
	require.Len(t, rec.Events, 1)
	require.NotNil(t, rec.Events[0].NetValue)
	assert.Equal(t, 1500.0, *rec.Events[0].NetValue)

	dr.AssertExpectations(t)
	ai.AssertExpectations(t)
}

func TestExtractorRun_RetriesModelCall(t *testing.T) {
	dr := new(mockDrive)
	ai := new(mockAI)

	dr.On("ListDocx", mock.Anything, "folder").
		Return([]drive.File{{ID: "f1", Name: "a.docx"}}, nil)
	dr.On("Download", mock.Anything, "f1").Return(termDocx(t, "texto"), nil)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(extractedJSON), nil).Once()

	ex := &Extractor{Drive: dr, AI: ai, Retry: fastRetry()}
	records, err := ex.Run(context.Background(), []config.DriveFolder{{Name: "x", ID: "folder"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	ai.AssertExpectations(t)
}

func TestExtractorRun_ExcludesFailedDocument(t *testing.T) {
	dr := new(mockDrive)
	ai := new(mockAI)

	dr.On("ListDocx", mock.Anything, "folder").
		Return([]drive.File{{ID: "bad", Name: "bad.docx"}, {ID: "good", Name: "good.docx"}}, nil)
	dr.On("Download", mock.Anything, "bad").Return(termDocx(t, "texto"), nil)
	dr.On("Download", mock.Anything, "good").Return(termDocx(t, "texto"), nil)

	// Every attempt for the first document fails; the second succeeds.
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Times(3)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(extractedJSON), nil).Once()

	ex := &Extractor{Drive: dr, AI: ai, Retry: fastRetry()}
	records, err := ex.Run(context.Background(), []config.DriveFolder{{Name: "x", ID: "folder"}})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "good.docx", records[0].SourceFile)
	ai.AssertExpectations(t)
}

func TestExtractorRun_FolderListingFailureContinues(t *testing.T) {
	dr := new(mockDrive)
	ai := new(mockAI)

	dr.On("ListDocx", mock.Anything, "broken").Return(nil, assert.AnError)
	dr.On("ListDocx", mock.Anything, "ok").
		Return([]drive.File{{ID: "f1", Name: "a.docx"}}, nil)
	dr.On("Download", mock.Anything, "f1").Return(termDocx(t, "texto"), nil)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(extractedJSON), nil).Once()

	ex := &Extractor{Drive: dr, AI: ai, Retry: fastRetry()}
	records, err := ex.Run(context.Background(), []config.DriveFolder{
		{Name: "quebrada", ID: "broken"},
		{Name: "ok", ID: "ok"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestNormalizeRecord_ClampsNegativeValues(t *testing.T) {
	dr := new(mockDrive)
	ai := new(mockAI)

	dr.On("ListDocx", mock.Anything, "folder").
		Return([]drive.File{{ID: "f1", Name: "a.docx"}}, nil)
	dr.On("Download", mock.Anything, "f1").Return(termDocx(t, "texto"), nil)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{
			"cliente": {"nome_razao_social": "X", "documento": "123", "tipo_pessoa": "PF", "nome_responsavel": ""},
			"eventos": [{"nome_evento": "Show", "datas_evento": ["2026-01-01"], "valor_final": -50.0, "espaco_utilizado": "Arena"}]
		}`), nil).Once()

	ex := &Extractor{Drive: dr, AI: ai, Retry: fastRetry()}
	records, err := ex.Run(context.Background(), []config.DriveFolder{{Name: "x", ID: "folder"}})
	require.NoError(t, err)

	require.Len(t, records, 1)
	require.NotNil(t, records[0].Events[0].NetValue)
	assert.Equal(t, 0.0, *records[0].Events[0].NetValue)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
