package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/munidigital/tramites-api/internal/models"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
	"github.com/munidigital/tramites-api/pkg/storage"
)

type documentRepository interface {
	ListByProcedure(ctx context.Context, procedureID string) ([]models.Document, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id string) (bool, error)
}

type documentProcedureResolver interface {
	FindByID(ctx context.Context, id string) (*models.ProcedureDetail, error)
}

type documentFileStorage interface {
	GenerateName(originalName string) string
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// DocumentUpload carries upload metadata and the content stream.
type DocumentUpload struct {
	ProcedureID string
	Date        string
	Filename    string
	Size        int64
	MimeType    string
	Content     io.Reader
}

// DocumentDownload bundles a file handle with the metadata needed to stream it.
type DocumentDownload struct {
	File      *os.File
	Filename  string
	MediaType string
}

// DocumentServiceConfig holds upload validation parameters.
type DocumentServiceConfig struct {
	MaxFileSize int64
}

// DocumentService couples document rows to their blobs on disk.
type DocumentService struct {
	repo       documentRepository
	procedures documentProcedureResolver
	storage    documentFileStorage
	cache      *CacheService
	logger     *zap.Logger
	cfg        DocumentServiceConfig
}

// NewDocumentService constructs the document service.
func NewDocumentService(repo documentRepository, procedures documentProcedureResolver, store documentFileStorage, cache *CacheService, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 20 * 1024 * 1024
	}
	return &DocumentService{repo: repo, procedures: procedures, storage: store, cache: cache, logger: logger, cfg: cfg}
}

// ListByProcedure returns a procedure's documents, newest date first.
func (s *DocumentService) ListByProcedure(ctx context.Context, procedureID string) ([]models.Document, error) {
	documents, err := s.repo.ListByProcedure(ctx, procedureID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return documents, nil
}

// Upload validates metadata, persists the blob under a server-generated name
// and then inserts the document row. A failed row insert removes the staged
// blob before the error returns, so validation or storage failures never leak
// files into the upload directory.
func (s *DocumentService) Upload(ctx context.Context, upload DocumentUpload) (*models.Document, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if strings.TrimSpace(upload.ProcedureID) == "" || strings.TrimSpace(upload.Date) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "procedureId and date are required")
	}
	date, err := time.Parse(dateLayout, upload.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}

	if _, err := s.procedures.FindByID(ctx, upload.ProcedureID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "procedure not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load procedure")
	}

	mediaType := upload.MimeType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	storedName := s.storage.GenerateName(upload.Filename)
	if _, err := s.storage.SaveStream(storedName, upload.Content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	doc := &models.Document{
		ProcedureID: upload.ProcedureID,
		DisplayName: storage.SanitizeName(upload.Filename),
		MediaType:   mediaType,
		Date:        date,
		StoragePath: storedName,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if cleanupErr := s.storage.Delete(storedName); cleanupErr != nil {
			s.logger.Warn("failed to remove staged blob after insert failure",
				zap.String("storage_path", storedName), zap.Error(cleanupErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create document")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return doc, nil
}

// Delete removes a document row and its blob. The order is: resolve row,
// best-effort blob removal, row removal. A blob that is already gone is logged
// and ignored so a retried delete always succeeds in removing the row.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	if err := s.storage.Delete(doc.StoragePath); err != nil {
		s.logger.Warn("failed to remove document blob, removing row anyway",
			zap.String("document_id", doc.ID), zap.String("storage_path", doc.StoragePath), zap.Error(err))
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document")
	}

	s.cache.Invalidate(ctx, personCachePattern)
	return nil
}

// Download resolves a document row and opens its blob. A missing row and a
// missing blob are distinct conditions: the first is NOT_FOUND, the second
// FILE_MISSING, so callers can report whether metadata or content was lost.
func (s *DocumentService) Download(ctx context.Context, id string) (*DocumentDownload, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	file, err := s.storage.Open(doc.StoragePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.Clone(appErrors.ErrFileMissing, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}

	return &DocumentDownload{
		File:      file,
		Filename:  doc.DisplayName,
		MediaType: doc.MediaType,
	}, nil
}
