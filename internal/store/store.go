package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sistemacipt/termos-cli/internal/config"
	"github.com/sistemacipt/termos-cli/internal/model"
)

// Store defines the persistence interface used by the import stage. There is
// exactly one sequential writer; no insert is wrapped in a transaction with
// any other.
type Store interface {
	// GetClientByDocument looks up a client by its normalized documento.
	// Returns (nil, nil) when no client exists.
	GetClientByDocument(ctx context.Context, document string) (*model.StoredClient, error)

	// InsertClient persists a new client and returns its generated ID.
	// The documento column carries a UNIQUE constraint.
	InsertClient(ctx context.Context, c model.Client) (string, error)

	// InsertEvent persists one event linked to a client.
	InsertEvent(ctx context.Context, ev model.EventRow) (string, error)

	// Wipe deletes all imported rows. Meant for test databases.
	Wipe(ctx context.Context) error

	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store for the configured driver. A connection failure here
// aborts the whole import run.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
