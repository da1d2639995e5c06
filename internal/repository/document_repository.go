package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/munidigital/tramites-api/internal/models"
)

// DocumentRepository manages persistence for document metadata rows.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs a DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ListByProcedure returns all documents of one procedure, newest date first.
func (r *DocumentRepository) ListByProcedure(ctx context.Context, procedureID string) ([]models.Document, error) {
	const query = `SELECT id, procedure_id, display_name, media_type, date, storage_path, created_at
        FROM documents WHERE procedure_id = $1 ORDER BY date DESC`
	documents := []models.Document{}
	if err := r.db.SelectContext(ctx, &documents, query, procedureID); err != nil {
		return nil, fmt.Errorf("list documents by procedure: %w", err)
	}
	return documents, nil
}

// FindByID fetches a single document row.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	const query = `SELECT id, procedure_id, display_name, media_type, date, storage_path, created_at
        FROM documents WHERE id = $1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts a new document row.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO documents (id, procedure_id, display_name, media_type, date, storage_path, created_at)
        VALUES (:id, :procedure_id, :display_name, :media_type, :date, :storage_path, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// Delete removes a document row.
func (r *DocumentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete document rows affected: %w", err)
	}
	return affected > 0, nil
}
