package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munidigital/tramites-api/internal/models"
)

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "procedure_id", "display_name", "media_type", "date", "storage_path", "created_at"}).
		AddRow("d1", "pr1", "acta.pdf", "application/pdf", time.Now(), "1700000000-abcdef-acta.pdf", time.Now())
}

func TestDocumentRepositoryListByProcedure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE procedure_id = $1 ORDER BY date DESC")).
		WithArgs("pr1").
		WillReturnRows(documentRows())

	documents, err := repo.ListByProcedure(context.Background(), "pr1")
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "acta.pdf", documents[0].DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryFindByIDNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	doc := &models.Document{
		ProcedureID: "pr1",
		DisplayName: "acta.pdf",
		MediaType:   "application/pdf",
		Date:        time.Now(),
		StoragePath: "1700000000-abcdef-acta.pdf",
	}
	err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents WHERE id = $1")).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
