package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sistemacipt/termos-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Table and column names match the existing sistemacipt database.
const sqliteMigration = `
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
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS eventos (
	id                  TEXT PRIMARY KEY,
	id_cliente          TEXT NOT NULL REFERENCES clientes_eventos(id),
	nome_evento         TEXT,
	datas_evento        TEXT,
	total_diarias       INTEGER NOT NULL DEFAULT 0,
	valor_bruto         REAL NOT NULL DEFAULT 0,
	valor_final         REAL NOT NULL DEFAULT 0,
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetClientByDocument(ctx context.Context, document string) (*model.StoredClient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, nome_razao_social, tipo_pessoa, documento, nome_responsavel, tipo_cliente
		 FROM clientes_eventos WHERE documento = ?`,
		document,
	)

	var c model.StoredClient
	err := row.Scan(&c.ID, &c.LegalName, &c.PersonType, &c.Document, &c.ResponsibleName, &c.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get client by documento %s", document)
	}
	return &c, nil
}

func (s *SQLiteStore) InsertClient(ctx context.Context, c model.Client) (string, error) {
	id := uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clientes_eventos (
			id, nome_razao_social, tipo_pessoa, documento, nome_responsavel, tipo_cliente,
			cep, logradouro, numero, complemento, bairro, cidade, uf
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.LegalName, string(c.PersonType), c.Document, c.ResponsibleName, string(c.Category),
		c.PostalCode, c.Street, c.Number, c.Complement, c.District, c.City, c.State,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: insert client %s", c.Document)
	}
	return id, nil
}

func (s *SQLiteStore) InsertEvent(ctx context.Context, ev model.EventRow) (string, error) {
	id := uuid.New().String()

	datesJSON, err := json.Marshal(ev.Dates)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal event dates")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO eventos (
			id, id_cliente, nome_evento, datas_evento, total_diarias, valor_bruto,
			valor_final, status, data_vigencia_final, numero_processo, numero_termo,
			espaco_utilizado, numero_oficio_sei, hora_inicio, hora_fim, tipo_desconto_auto
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ev.ClientID, ev.Name, string(datesJSON), ev.DayCount, ev.GrossValue,
		ev.NetValue, ev.Status, ev.FinalValidity, ev.ProcessNumber, ev.TermNumber,
		ev.Venue, ev.SEINumber, ev.StartTime, ev.EndTime, ev.DiscountKind,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: insert event for client %s", ev.ClientID)
	}
	return id, nil
}

func (s *SQLiteStore) Wipe(ctx context.Context) error {
	for _, stmt := range []string{
		`DELETE FROM eventos`,
		`DELETE FROM clientes_eventos`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "sqlite: wipe %s", stmt)
		}
	}
	return nil
}
