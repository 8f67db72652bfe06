package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sistemacipt/termos-cli/internal/model"
)

// pgxPool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgres creates a PostgresStore with a connection pool. The import is a
// single sequential writer, so the pool stays small.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS clientes_eventos (
	id                TEXT PRIMARY KEY,
	nome_razao_social TEXT,
	tipo_pessoa       TEXT,
	documento         TEXT NOT NULL UNIQUE,
	nome_responsavel  TEXT,
	tipo_cliente      TEXT NOT NULL DEFAULT 'Geral',
	cep               TEXT,
	logradouro        TEXT,
	numero            TEXT,
	complemento       TEXT,
	bairro            TEXT,
	cidade            TEXT,
	uf                TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS eventos (
	id                  TEXT PRIMARY KEY,
	id_cliente          TEXT NOT NULL REFERENCES clientes_eventos(id),
	nome_evento         TEXT,
	datas_evento        JSONB,
	total_diarias       INTEGER NOT NULL DEFAULT 0,
	valor_bruto         DOUBLE PRECISION NOT NULL DEFAULT 0,
	valor_final         DOUBLE PRECISION NOT NULL DEFAULT 0,
	status              TEXT NOT NULL DEFAULT 'Pendente',
	data_vigencia_final TEXT,
	numero_processo     TEXT,
	numero_termo        TEXT,
	espaco_utilizado    TEXT,
	numero_oficio_sei   TEXT,
	hora_inicio         TEXT,
	hora_fim            TEXT,
	tipo_desconto_auto  TEXT NOT NULL DEFAULT 'Nenhum'
);

CREATE INDEX IF NOT EXISTS idx_clientes_eventos_documento ON clientes_eventos(documento);
CREATE INDEX IF NOT EXISTS idx_eventos_id_cliente ON eventos(id_cliente);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetClientByDocument(ctx context.Context, document string) (*model.StoredClient, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, nome_razao_social, tipo_pessoa, documento, nome_responsavel, tipo_cliente
		 FROM clientes_eventos WHERE documento = $1`,
		document,
	)

	var c model.StoredClient
	err := row.Scan(&c.ID, &c.LegalName, &c.PersonType, &c.Document, &c.ResponsibleName, &c.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get client by documento %s", document)
	}
	return &c, nil
}

func (s *PostgresStore) InsertClient(ctx context.Context, c model.Client) (string, error) {
	id := uuid.New().String()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO clientes_eventos (
			id, nome_razao_social, tipo_pessoa, documento, nome_responsavel, tipo_cliente,
			cep, logradouro, numero, complemento, bairro, cidade, uf
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, c.LegalName, string(c.PersonType), c.Document, c.ResponsibleName, string(c.Category),
		c.PostalCode, c.Street, c.Number, c.Complement, c.District, c.City, c.State,
	)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: insert client %s", c.Document)
	}
	return id, nil
}

func (s *PostgresStore) InsertEvent(ctx context.Context, ev model.EventRow) (string, error) {
	id := uuid.New().String()

	datesJSON, err := json.Marshal(ev.Dates)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal event dates")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO eventos (
			id, id_cliente, nome_evento, datas_evento, total_diarias, valor_bruto,
			valor_final, status, data_vigencia_final, numero_processo, numero_termo,
			espaco_utilizado, numero_oficio_sei, hora_inicio, hora_fim, tipo_desconto_auto
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		id, ev.ClientID, ev.Name, string(datesJSON), ev.DayCount, ev.GrossValue,
		ev.NetValue, ev.Status, ev.FinalValidity, ev.ProcessNumber, ev.TermNumber,
		ev.Venue, ev.SEINumber, ev.StartTime, ev.EndTime, ev.DiscountKind,
	)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: insert event for client %s", ev.ClientID)
	}
	return id, nil
}

func (s *PostgresStore) Wipe(ctx context.Context) error {
	for _, stmt := range []string{
		`DELETE FROM eventos`,
		`DELETE FROM clientes_eventos`,
	} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return eris.Wrapf(err, "postgres: wipe %s", stmt)
		}
	}
	return nil
}
