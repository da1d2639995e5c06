package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/munidigital/tramites-api/internal/models"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
)

type mockProcedureRepo struct {
	procedures  map[string]models.ProcedureDetail
	knownPeople map[string]struct{}
	recent      []models.ProcedureDetail
}

func (m *mockProcedureRepo) ListRecent(context.Context) ([]models.ProcedureDetail, error) {
	return m.recent, nil
}

func (m *mockProcedureRepo) ListByPerson(_ context.Context, personID string) ([]models.ProcedureDetail, error) {
	matches := []models.ProcedureDetail{}
	for _, p := range m.procedures {
		if p.PersonID == personID {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (m *mockProcedureRepo) FindByID(_ context.Context, id string) (*models.ProcedureDetail, error) {
	if p, ok := m.procedures[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProcedureRepo) Create(_ context.Context, procedure *models.Procedure) error {
	if _, ok := m.knownPeople[procedure.PersonID]; !ok {
		return &pq.Error{Code: "23503"}
	}
	if m.procedures == nil {
		m.procedures = make(map[string]models.ProcedureDetail)
	}
	if procedure.ID == "" {
		procedure.ID = "generated"
	}
	m.procedures[procedure.ID] = models.ProcedureDetail{Procedure: *procedure}
	return nil
}

func (m *mockProcedureRepo) Update(_ context.Context, procedure *models.Procedure) error {
	m.procedures[procedure.ID] = models.ProcedureDetail{Procedure: *procedure}
	return nil
}

func (m *mockProcedureRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.procedures[id]; !ok {
		return false, nil
	}
	delete(m.procedures, id)
	return true, nil
}

func newProcedureFixture() (*ProcedureService, *mockProcedureRepo) {
	repo := &mockProcedureRepo{
		procedures:  make(map[string]models.ProcedureDetail),
		knownPeople: map[string]struct{}{"p1": {}},
	}
	svc := NewProcedureService(repo, nil, validator.New(), zap.NewNop())
	return svc, repo
}

func TestProcedureServiceCreateDefaultsStatus(t *testing.T) {
	svc, _ := newProcedureFixture()

	procedure, err := svc.Create(context.Background(), CreateProcedureRequest{
		PersonID:         "p1",
		Type:             "Licencia de funcionamiento",
		DocumentDate:     "2024-05-10",
		ResponsibleParty: "Mesa de partes",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendiente, procedure.Status)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), procedure.DocumentDate)
}

func TestProcedureServiceCreateKeepsArbitraryStatus(t *testing.T) {
	svc, _ := newProcedureFixture()

	// The status set is open: any label is stored verbatim.
	procedure, err := svc.Create(context.Background(), CreateProcedureRequest{
		PersonID:         "p1",
		Type:             "Licencia",
		DocumentDate:     "2024-05-10",
		ResponsibleParty: "Mesa de partes",
		Status:           "Archivado",
	})
	require.NoError(t, err)
	assert.Equal(t, "Archivado", procedure.Status)
}

func TestProcedureServiceCreateUnknownPerson(t *testing.T) {
	svc, _ := newProcedureFixture()

	_, err := svc.Create(context.Background(), CreateProcedureRequest{
		PersonID:         "ghost",
		Type:             "Licencia",
		DocumentDate:     "2024-05-10",
		ResponsibleParty: "Mesa de partes",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestProcedureServiceCreateValidation(t *testing.T) {
	svc, _ := newProcedureFixture()

	cases := []CreateProcedureRequest{
		{Type: "Licencia", DocumentDate: "2024-05-10", ResponsibleParty: "Mesa"},   // missing person
		{PersonID: "p1", DocumentDate: "2024-05-10", ResponsibleParty: "Mesa"},     // missing type
		{PersonID: "p1", Type: "Licencia", ResponsibleParty: "Mesa"},               // missing date
		{PersonID: "p1", Type: "Licencia", DocumentDate: "10/05/2024", ResponsibleParty: "Mesa"}, // bad date format
		{PersonID: "p1", Type: "Licencia", DocumentDate: "2024-05-10"},             // missing responsible
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestProcedureServiceUpdateNotFound(t *testing.T) {
	svc, _ := newProcedureFixture()

	_, err := svc.Update(context.Background(), "missing", UpdateProcedureRequest{
		Type:             "Licencia",
		DocumentDate:     "2024-05-10",
		ResponsibleParty: "Mesa de partes",
		Status:           models.StatusCompletado,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProcedureServiceUpdateAllowsAnyTransition(t *testing.T) {
	svc, repo := newProcedureFixture()
	repo.procedures["pr1"] = models.ProcedureDetail{Procedure: models.Procedure{
		ID: "pr1", PersonID: "p1", Type: "Licencia", DocumentDate: time.Now(),
		ResponsibleParty: "Mesa de partes", Status: models.StatusCompletado,
	}}

	// No transition graph: Completado may go back to Pendiente.
	updated, err := svc.Update(context.Background(), "pr1", UpdateProcedureRequest{
		Type:             "Licencia",
		DocumentDate:     "2024-05-10",
		ResponsibleParty: "Mesa de partes",
		Status:           models.StatusPendiente,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendiente, updated.Status)
}

func TestProcedureServiceDeleteNotFound(t *testing.T) {
	svc, _ := newProcedureFixture()

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
