package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sistemacipt/termos-cli/internal/model"
	"github.com/sistemacipt/termos-cli/internal/policy"
	"github.com/sistemacipt/termos-cli/internal/store"
)

// Importer loads sanitized records into the datastore, deduplicating clients
// by documento and pricing events with the resolved client's category.
type Importer struct {
	Store  store.Store
	Policy *policy.Table
}

// Run processes records strictly one at a time, in input order: client
// deduplication depends on the sequentially updated lookup state. Failures
// on one record are reported and do not stop the run.
func (im *Importer) Run(ctx context.Context, records []model.Record) (*model.ImportSummary, error) {
	summary := &model.ImportSummary{Processed: len(records)}

	for i, rec := range records {
		zap.L().Info("importing record",
			zap.Int("index", i+1),
			zap.Int("total", len(records)),
			zap.String("file", rec.SourceFile),
		)
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		im.importOne(ctx, rec, summary)
	}

	return summary, nil
}

func (im *Importer) importOne(ctx context.Context, rec model.Record, sum *model.ImportSummary) {
	// The documento gate runs on the normalized form: a stage file edited by
	// hand can carry a non-digit documento that would otherwise key a client
	// on the empty string.
	var document string
	if rec.Client != nil {
		document = model.DigitsOnly(rec.Client.Document)
	}
	if document == "" {
		zap.L().Warn("record skipped: template or missing documento",
			zap.String("file", rec.SourceFile),
		)
		sum.Skip(rec.SourceFile, "Modelo ou sem documento")
		return
	}

	existing, err := im.Store.GetClientByDocument(ctx, document)
	if err != nil {
		zap.L().Error("client lookup failed",
			zap.String("file", rec.SourceFile),
			zap.Error(err),
		)
		sum.Skip(rec.SourceFile, "Erro no DB ao consultar cliente: "+err.Error())
		return
	}

	var clientID string
	var category model.Category

	if existing != nil {
		// Existing clients keep their category; classification applies to
		// new clients only.
		clientID = existing.ID
		category = existing.Category
		sum.ClientsReused++
		zap.L().Info("client already exists, reusing",
			zap.String("documento", document),
			zap.String("client_id", clientID),
		)
	} else {
		c := im.newClient(rec, document)
		clientID, err = im.Store.InsertClient(ctx, c)
		if err != nil {
			zap.L().Error("client insert failed",
				zap.String("file", rec.SourceFile),
				zap.Error(err),
			)
			sum.Skip(rec.SourceFile, "Erro no DB ao inserir cliente: "+err.Error())
			return
		}
		category = c.Category
		sum.ClientsCreated++
		zap.L().Info("new client imported",
			zap.String("documento", document),
			zap.String("client_id", clientID),
			zap.String("category", string(category)),
		)
	}

	for _, ev := range rec.Events {
		netValue, grossValue, discountKind := im.Policy.Price(ev.NetValue, category)

		_, err := im.Store.InsertEvent(ctx, model.EventRow{
			ClientID:      clientID,
			Name:          ev.Name,
			Dates:         ev.Dates,
			DayCount:      len(ev.Dates),
			GrossValue:    grossValue,
			NetValue:      netValue,
			Status:        model.EventStatusPending,
			FinalValidity: ev.FinalValidity,
			ProcessNumber: ev.ProcessNumber,
			TermNumber:    ev.TermNumber,
			Venue:         ev.Venue,
			SEINumber:     ev.SEINumber,
			StartTime:     ev.StartTime,
			EndTime:       ev.EndTime,
			DiscountKind:  discountKind,
		})
		if err != nil {
			// Events inserted before the failure stay committed.
			zap.L().Error("event insert failed",
				zap.String("file", rec.SourceFile),
				zap.String("client_id", clientID),
				zap.Error(err),
			)
			sum.Skip(rec.SourceFile, "Erro no DB ao inserir evento: "+err.Error())
			return
		}
		sum.EventsInserted++
	}
}

// newClient builds the row for a client seen for the first time: classify,
// backfill the responsible name, and prefer the registry's legal name.
func (im *Importer) newClient(rec model.Record, document string) model.Client {
	c := *rec.Client
	c.Document = document
	c.Category = im.Policy.Classify(document, c.LegalName)

	if c.PersonType == model.PersonLegalEntity && c.ResponsibleName == "" {
		if name, ok := policy.ResponsibleFromLegalName(c.LegalName); ok {
			c.ResponsibleName = name
		}
	}
	if c.OfficialLegalName != "" {
		c.LegalName = c.OfficialLegalName
	}
	return c
}
