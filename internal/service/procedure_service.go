package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/munidigital/tramites-api/internal/models"
	"github.com/munidigital/tramites-api/pkg/database"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type procedureRepository interface {
	ListRecent(ctx context.Context) ([]models.ProcedureDetail, error)
	ListByPerson(ctx context.Context, personID string) ([]models.ProcedureDetail, error)
	FindByID(ctx context.Context, id string) (*models.ProcedureDetail, error)
	Create(ctx context.Context, procedure *models.Procedure) error
	Update(ctx context.Context, procedure *models.Procedure) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateProcedureRequest holds payload for opening a procedure.
type CreateProcedureRequest struct {
	PersonID         string  `json:"personId" validate:"required"`
	Type             string  `json:"type" validate:"required"`
	Description      *string `json:"description"`
	DocumentDate     string  `json:"documentDate" validate:"required,datetime=2006-01-02"`
	ResponsibleParty string  `json:"responsibleParty" validate:"required"`
	Status           string  `json:"status"`
}

// UpdateProcedureRequest holds payload for replacing a procedure's mutable fields.
type UpdateProcedureRequest struct {
	Type             string  `json:"type" validate:"required"`
	Description      *string `json:"description"`
	DocumentDate     string  `json:"documentDate" validate:"required,datetime=2006-01-02"`
	ResponsibleParty string  `json:"responsibleParty" validate:"required"`
	Status           string  `json:"status" validate:"required"`
}

// ProcedureService handles procedure use-cases.
type ProcedureService struct {
	repo      procedureRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProcedureService constructs the procedure service.
func NewProcedureService(repo procedureRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProcedureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcedureService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ListRecent returns the latest procedures for the admin dashboard.
func (s *ProcedureService) ListRecent(ctx context.Context) ([]models.ProcedureDetail, error) {
	procedures, err := s.repo.ListRecent(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list procedures")
	}
	return procedures, nil
}

// ListByPerson returns all procedures owned by one person.
func (s *ProcedureService) ListByPerson(ctx context.Context, personID string) ([]models.ProcedureDetail, error) {
	procedures, err := s.repo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list procedures")
	}
	return procedures, nil
}

// Get returns one procedure with owner info and document count.
func (s *ProcedureService) Get(ctx context.Context, id string) (*models.ProcedureDetail, error) {
	procedure, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "procedure not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load procedure")
	}
	return procedure, nil
}

// Create opens a new procedure for an existing person.
func (s *ProcedureService) Create(ctx context.Context, req CreateProcedureRequest) (*models.Procedure, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all required fields must be provided")
	}

	documentDate, err := time.Parse(dateLayout, req.DocumentDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document_date must be YYYY-MM-DD")
	}

	status := req.Status
	if status == "" {
		status = models.StatusPendiente
	}

	procedure := &models.Procedure{
		PersonID:         req.PersonID,
		Type:             req.Type,
		Description:      req.Description,
		DocumentDate:     documentDate,
		ResponsibleParty: req.ResponsibleParty,
		Status:           status,
	}
	if err := s.repo.Create(ctx, procedure); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "person does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create procedure")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return procedure, nil
}

// Update replaces all mutable fields of a procedure. The owning person cannot
// be changed; documents keep following their procedure.
func (s *ProcedureService) Update(ctx context.Context, id string, req UpdateProcedureRequest) (*models.ProcedureDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all required fields must be provided")
	}

	documentDate, err := time.Parse(dateLayout, req.DocumentDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document_date must be YYYY-MM-DD")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	procedure := existing.Procedure
	procedure.Type = req.Type
	procedure.Description = req.Description
	procedure.DocumentDate = documentDate
	procedure.ResponsibleParty = req.ResponsibleParty
	procedure.Status = req.Status

	if err := s.repo.Update(ctx, &procedure); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update procedure")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return s.Get(ctx, id)
}

// Delete removes a procedure; its documents cascade.
func (s *ProcedureService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete procedure")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "procedure not found")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return nil
}
