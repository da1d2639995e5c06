package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munidigital/tramites-api/internal/models"
)

func procedureDetailRows(withPerson bool) *sqlmock.Rows {
	columns := []string{"id", "person_id", "type", "description", "document_date", "responsible_party", "status", "created_at", "updated_at"}
	if withPerson {
		columns = append(columns, "person_name", "person_national_id")
	}
	columns = append(columns, "documentos_count")

	values := []driver.Value{"pr1", "p1", "Licencia de funcionamiento", nil, time.Now(), "Mesa de partes", models.StatusPendiente, time.Now(), time.Now()}
	if withPerson {
		values = append(values, "Juan Pérez García", "12345678")
	}
	values = append(values, 3)

	return sqlmock.NewRows(columns).AddRow(values...)
}

func TestProcedureRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProcedureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY pr.created_at DESC\n        LIMIT 10")).
		WillReturnRows(procedureDetailRows(true))

	procedures, err := repo.ListRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, procedures, 1)
	assert.Equal(t, 3, procedures[0].DocumentosCount)
	require.NotNil(t, procedures[0].PersonName)
	assert.Equal(t, "Juan Pérez García", *procedures[0].PersonName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcedureRepositoryListByPerson(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProcedureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE pr.person_id = $1")).
		WithArgs("p1").
		WillReturnRows(procedureDetailRows(false))

	procedures, err := repo.ListByPerson(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, procedures, 1)
	assert.Nil(t, procedures[0].PersonName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcedureRepositoryCreateDefaultsApplied(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProcedureRepository(db)

	mock.ExpectExec("INSERT INTO procedures").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	procedure := &models.Procedure{
		PersonID:         "p1",
		Type:             "Licencia de funcionamiento",
		DocumentDate:     time.Now(),
		ResponsibleParty: "Mesa de partes",
		Status:           models.StatusPendiente,
	}
	err := repo.Create(context.Background(), procedure)
	require.NoError(t, err)
	assert.NotEmpty(t, procedure.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcedureRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProcedureRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM procedures WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
