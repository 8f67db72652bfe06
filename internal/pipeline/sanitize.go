package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sistemacipt/termos-cli/internal/model"
	"github.com/sistemacipt/termos-cli/pkg/brasilapi"
)

// Sanitizer enriches extracted records with registry data and applies the
// backfill rules, producing records ready for import.
type Sanitizer struct {
	Registry brasilapi.Client
}

// Run processes records one at a time. Records without a client block or an
// event list are dropped (logged, not an error). Enrichment failures leave
// the record as extracted.
func (s *Sanitizer) Run(ctx context.Context, records []model.Record) ([]model.Record, error) {
	out := make([]model.Record, 0, len(records))

	for i, rec := range records {
		zap.L().Info("sanitizing record",
			zap.Int("index", i+1),
			zap.Int("total", len(records)),
			zap.String("file", rec.SourceFile),
		)

		if rec.Client == nil || len(rec.Events) == 0 {
			zap.L().Warn("record dropped: client or event data missing",
				zap.String("file", rec.SourceFile),
			)
			continue
		}

		if err := ctx.Err(); err != nil {
			return out, eris.Wrap(err, "pipeline: sanitize interrupted")
		}

		if rec.Client.PersonType == model.PersonLegalEntity {
			s.enrich(ctx, rec.Client)
		}
		if rec.Client.PersonType == model.PersonNatural && rec.Client.ResponsibleName == "" {
			rec.Client.ResponsibleName = rec.Client.LegalName
		}

		out = append(out, rec)
	}

	return out, nil
}

// enrich overwrites the client's official name and address with the registry
// record and backfills the responsible name from the ownership list. The
// registry client enforces the cool-down between calls.
func (s *Sanitizer) enrich(ctx context.Context, c *model.Client) {
	info, err := s.Registry.LookupCNPJ(ctx, c.Document)
	if err != nil {
		if eris.Is(err, brasilapi.ErrInvalidCNPJ) {
			zap.L().Debug("enrichment skipped: documento is not a CNPJ",
				zap.String("documento", c.Document),
			)
		} else {
			zap.L().Warn("enrichment failed, keeping extracted data",
				zap.String("documento", c.Document),
				zap.Error(err),
			)
		}
		return
	}

	c.OfficialLegalName = info.RazaoSocial
	c.PostalCode = info.CEP
	c.Street = info.Logradouro
	c.Number = info.Numero
	c.Complement = info.Complemento
	c.District = info.Bairro
	c.City = info.Municipio
	c.State = info.UF

	if c.ResponsibleName == "" && len(info.QSA) > 0 {
		c.ResponsibleName = info.QSA[0].NomeSocio
		zap.L().Info("responsible name filled from registry ownership list",
			zap.String("documento", c.Document),
			zap.String("responsible", c.ResponsibleName),
		)
	}
}
