package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/munidigital/tramites-api/internal/models"
)

// recentProcedureLimit caps the admin dashboard "recent" view.
const recentProcedureLimit = 10

// ProcedureRepository manages persistence for procedure records.
type ProcedureRepository struct {
	db *sqlx.DB
}

// NewProcedureRepository constructs a ProcedureRepository.
func NewProcedureRepository(db *sqlx.DB) *ProcedureRepository {
	return &ProcedureRepository{db: db}
}

// ListRecent returns the most recently created procedures with owner info and
// document counts.
func (r *ProcedureRepository) ListRecent(ctx context.Context) ([]models.ProcedureDetail, error) {
	query := fmt.Sprintf(`SELECT pr.id, pr.person_id, pr.type, pr.description, pr.document_date, pr.responsible_party, pr.status, pr.created_at, pr.updated_at,
        p.full_name AS person_name, p.national_id AS person_national_id,
        COUNT(d.id) AS documentos_count
        FROM procedures pr
        JOIN persons p ON p.id = pr.person_id
        LEFT JOIN documents d ON d.procedure_id = pr.id
        GROUP BY pr.id, p.full_name, p.national_id
        ORDER BY pr.created_at DESC
        LIMIT %d`, recentProcedureLimit)
	procedures := []models.ProcedureDetail{}
	if err := r.db.SelectContext(ctx, &procedures, query); err != nil {
		return nil, fmt.Errorf("list recent procedures: %w", err)
	}
	return procedures, nil
}

// ListByPerson returns all procedures of one person with document counts,
// newest first.
func (r *ProcedureRepository) ListByPerson(ctx context.Context, personID string) ([]models.ProcedureDetail, error) {
	const query = `SELECT pr.id, pr.person_id, pr.type, pr.description, pr.document_date, pr.responsible_party, pr.status, pr.created_at, pr.updated_at,
        COUNT(d.id) AS documentos_count
        FROM procedures pr
        LEFT JOIN documents d ON d.procedure_id = pr.id
        WHERE pr.person_id = $1
        GROUP BY pr.id
        ORDER BY pr.created_at DESC`
	procedures := []models.ProcedureDetail{}
	if err := r.db.SelectContext(ctx, &procedures, query, personID); err != nil {
		return nil, fmt.Errorf("list procedures by person: %w", err)
	}
	return procedures, nil
}

// FindByID fetches a single procedure with owner info and document count.
func (r *ProcedureRepository) FindByID(ctx context.Context, id string) (*models.ProcedureDetail, error) {
	const query = `SELECT pr.id, pr.person_id, pr.type, pr.description, pr.document_date, pr.responsible_party, pr.status, pr.created_at, pr.updated_at,
        p.full_name AS person_name, p.national_id AS person_national_id,
        COUNT(d.id) AS documentos_count
        FROM procedures pr
        JOIN persons p ON p.id = pr.person_id
        LEFT JOIN documents d ON d.procedure_id = pr.id
        WHERE pr.id = $1
        GROUP BY pr.id, p.full_name, p.national_id`
	var detail models.ProcedureDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new procedure record.
func (r *ProcedureRepository) Create(ctx context.Context, procedure *models.Procedure) error {
	if procedure.ID == "" {
		procedure.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	procedure.CreatedAt = now
	procedure.UpdatedAt = now
	const query = `INSERT INTO procedures (id, person_id, type, description, document_date, responsible_party, status, created_at, updated_at)
        VALUES (:id, :person_id, :type, :description, :document_date, :responsible_party, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, procedure); err != nil {
		return fmt.Errorf("create procedure: %w", err)
	}
	return nil
}

// Update replaces all mutable fields and refreshes updated_at. The owning
// person is not reassignable.
func (r *ProcedureRepository) Update(ctx context.Context, procedure *models.Procedure) error {
	procedure.UpdatedAt = time.Now().UTC()
	const query = `UPDATE procedures SET type = :type, description = :description, document_date = :document_date,
        responsible_party = :responsible_party, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, procedure); err != nil {
		return fmt.Errorf("update procedure: %w", err)
	}
	return nil
}

// Delete removes a procedure; its documents cascade at the database level.
func (r *ProcedureRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM procedures WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete procedure: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete procedure rows affected: %w", err)
	}
	return affected > 0, nil
}
