package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/munidigital/tramites-api/internal/models"
)

// personColumns selects a person row together with its derived counts. The
// outer joins yield zero counts for persons without procedures or documents.
const personColumns = `SELECT p.id, p.full_name, p.national_id, p.phone, p.address, p.email, p.created_at, p.updated_at,
        COUNT(DISTINCT pr.id) AS tramites_count,
        COUNT(DISTINCT d.id) AS documentos_count
        FROM persons p
        LEFT JOIN procedures pr ON pr.person_id = p.id
        LEFT JOIN documents d ON d.procedure_id = pr.id`

// PersonRepository manages persistence for person records.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// List returns all persons with counts, ordered by name.
func (r *PersonRepository) List(ctx context.Context) ([]models.PersonDetail, error) {
	query := personColumns + ` GROUP BY p.id ORDER BY p.full_name`
	persons := []models.PersonDetail{}
	if err := r.db.SelectContext(ctx, &persons, query); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

// Search returns persons whose name or national ID contains the query text,
// case-insensitively.
func (r *PersonRepository) Search(ctx context.Context, q string) ([]models.PersonDetail, error) {
	query := personColumns + ` WHERE p.full_name ILIKE $1 OR p.national_id ILIKE $1
        GROUP BY p.id ORDER BY p.full_name`
	persons := []models.PersonDetail{}
	if err := r.db.SelectContext(ctx, &persons, query, "%"+q+"%"); err != nil {
		return nil, fmt.Errorf("search persons: %w", err)
	}
	return persons, nil
}

// FindByID fetches a single person with counts.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.PersonDetail, error) {
	query := personColumns + ` WHERE p.id = $1 GROUP BY p.id`
	var detail models.PersonDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new person record.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	person.CreatedAt = now
	person.UpdatedAt = now
	const query = `INSERT INTO persons (id, full_name, national_id, phone, address, email, created_at, updated_at)
        VALUES (:id, :full_name, :national_id, :phone, :address, :email, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// Update replaces all mutable fields and refreshes updated_at.
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now().UTC()
	const query = `UPDATE persons SET full_name = :full_name, national_id = :national_id, phone = :phone,
        address = :address, email = :email, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// Delete removes a person; procedures and documents cascade at the database
// level. It reports whether a row was actually deleted.
func (r *PersonRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete person rows affected: %w", err)
	}
	return affected > 0, nil
}
