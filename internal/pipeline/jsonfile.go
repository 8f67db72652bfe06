package pipeline

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sistemacipt/termos-cli/internal/model"
)

// ReadRecords loads a stage file: a UTF-8 JSON array of records.
func ReadRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read %s", path)
	}
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse %s", path)
	}
	return records, nil
}

// WriteRecords persists a stage's full output. Each stage writes its complete
// file before the next stage reads it, so stages can be inspected and re-run
// independently.
func WriteRecords(path string, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "pipeline: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: write %s", path)
	}
	return nil
}
