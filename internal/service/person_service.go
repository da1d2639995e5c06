package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/munidigital/tramites-api/internal/models"
	"github.com/munidigital/tramites-api/pkg/database"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
	"github.com/munidigital/tramites-api/pkg/export"
)

// personCachePattern covers every cached person payload. Writes to persons,
// procedures or documents invalidate it because the derived counts change.
const personCachePattern = "persons:*"

type personRepository interface {
	List(ctx context.Context) ([]models.PersonDetail, error)
	Search(ctx context.Context, q string) ([]models.PersonDetail, error)
	FindByID(ctx context.Context, id string) (*models.PersonDetail, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id string) (bool, error)
}

type personProcedureLister interface {
	ListByPerson(ctx context.Context, personID string) ([]models.ProcedureDetail, error)
}

// CreatePersonRequest holds payload for registering persons.
type CreatePersonRequest struct {
	FullName   string  `json:"fullName" validate:"required"`
	NationalID string  `json:"nationalId" validate:"required,number"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

// UpdatePersonRequest holds payload for replacing a person's mutable fields.
type UpdatePersonRequest struct {
	FullName   string  `json:"fullName" validate:"required"`
	NationalID string  `json:"nationalId" validate:"required,number"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

// PersonService handles person use-cases.
type PersonService struct {
	repo       personRepository
	procedures personProcedureLister
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
}

// NewPersonService constructs the person service.
func NewPersonService(repo personRepository, procedures personProcedureLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{
		repo:       repo,
		procedures: procedures,
		cache:      cache,
		validator:  validate,
		logger:     logger,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
	}
}

// List returns all persons with their derived counts.
func (s *PersonService) List(ctx context.Context) ([]models.PersonDetail, error) {
	persons, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list persons")
	}
	return persons, nil
}

// Search returns persons matching the query text. A blank query returns an
// empty list without touching the store: an empty search box must never dump
// the whole table. The second return value reports a cache hit.
func (s *PersonService) Search(ctx context.Context, q string) ([]models.PersonDetail, bool, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.PersonDetail{}, false, nil
	}

	key := "persons:search:" + strings.ToLower(q)
	var cached []models.PersonDetail
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	persons, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search persons")
	}

	s.cache.Set(ctx, key, persons, 0)
	return persons, false, nil
}

// Get returns one person with counts.
func (s *PersonService) Get(ctx context.Context, id string) (*models.PersonDetail, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
	}
	return person, nil
}

// Create registers a new person.
func (s *PersonService) Create(ctx context.Context, req CreatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full name and national ID are required")
	}

	person := &models.Person{
		FullName:   req.FullName,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Address:    req.Address,
		Email:      req.Email,
	}
	if err := s.repo.Create(ctx, person); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "national ID already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create person")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return person, nil
}

// Update replaces all mutable fields of a person.
func (s *PersonService) Update(ctx context.Context, id string, req UpdatePersonRequest) (*models.PersonDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full name and national ID are required")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	person := existing.Person
	person.FullName = req.FullName
	person.NationalID = req.NationalID
	person.Phone = req.Phone
	person.Address = req.Address
	person.Email = req.Email

	if err := s.repo.Update(ctx, &person); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "national ID already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update person")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return s.Get(ctx, id)
}

// Delete removes a person; procedures and documents cascade.
func (s *PersonService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete person")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return nil
}

// ExportCSV renders all persons with counts as a CSV sheet.
func (s *PersonService) ExportCSV(ctx context.Context) ([]byte, error) {
	persons, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	data := export.NewDataset("full_name", "national_id", "phone", "address", "email", "tramites_count", "documentos_count")
	for _, p := range persons {
		data.AddRow(
			p.FullName,
			p.NationalID,
			derefOrEmpty(p.Phone),
			derefOrEmpty(p.Address),
			derefOrEmpty(p.Email),
			fmt.Sprintf("%d", p.TramitesCount),
			fmt.Sprintf("%d", p.DocumentosCount),
		)
	}

	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return out, nil
}

// ExportHistoryPDF renders one person's procedure history as a PDF report.
func (s *PersonService) ExportHistoryPDF(ctx context.Context, id string) ([]byte, error) {
	person, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	procedures, err := s.procedures.ListByPerson(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load procedures")
	}

	data := export.NewDataset("type", "document_date", "responsible_party", "status", "documents")
	for _, pr := range procedures {
		data.AddRow(
			pr.Type,
			pr.DocumentDate.Format("2006-01-02"),
			pr.ResponsibleParty,
			pr.Status,
			fmt.Sprintf("%d", pr.DocumentosCount),
		)
	}

	summary := []string{
		fmt.Sprintf("%s - %s", person.FullName, person.NationalID),
		fmt.Sprintf("Trámites: %d / Documentos: %d", person.TramitesCount, person.DocumentosCount),
	}

	out, err := s.pdf.Render(data, "Historial de trámites", summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return out, nil
}

func derefOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
