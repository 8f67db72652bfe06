package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistemacipt/termos-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_GetClientByDocument_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, nome_razao_social, tipo_pessoa, documento, nome_responsavel, tipo_cliente`).
		WithArgs("12345678000195").
		WillReturnError(pgx.ErrNoRows)

	c, err := s.GetClientByDocument(context.Background(), "12345678000195")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetClientByDocument_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"id", "nome_razao_social", "tipo_pessoa", "documento", "nome_responsavel", "tipo_cliente",
	}).AddRow("client-1", "ACME LTDA", "PJ", "12345678000195", "Maria Silva", "Governo")

	mock.ExpectQuery(`SELECT id, nome_razao_social, tipo_pessoa, documento, nome_responsavel, tipo_cliente`).
		WithArgs("12345678000195").
		WillReturnRows(rows)

	c, err := s.GetClientByDocument(context.Background(), "12345678000195")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "client-1", c.ID)
	assert.Equal(t, model.CategoryGovernment, c.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertClient(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO clientes_eventos`).
		WithArgs(pgxmock.AnyArg(), "ACME LTDA", "PJ", "12345678000195", "Maria Silva", "Geral",
			"", "", "", "", "", "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.InsertClient(context.Background(), model.Client{
		LegalName:       "ACME LTDA",
		PersonType:      model.PersonLegalEntity,
		Document:        "12345678000195",
		ResponsibleName: "Maria Silva",
		Category:        model.CategoryGeneral,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertEvent_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO eventos`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	_, err := s.InsertEvent(context.Background(), model.EventRow{
		ClientID: "client-1",
		Name:     "Feira",
		Status:   model.EventStatusPending,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Wipe(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM eventos`).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM clientes_eventos`).WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, s.Wipe(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
