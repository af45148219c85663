package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// SchoolRepository persists schools and their replacement deadline policy.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// FindByID fetches a school.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	const query = `SELECT id, name, replacement_deadline_days, created_at, updated_at FROM schools WHERE id = $1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// ListByIDs fetches the schools with the given ids. Unknown ids are skipped.
func (r *SchoolRepository) ListByIDs(ctx context.Context, ids []string) ([]models.School, error) {
	if len(ids) == 0 {
		return []models.School{}, nil
	}
	const query = `SELECT id, name, replacement_deadline_days, created_at, updated_at FROM schools WHERE id = ANY($1) ORDER BY name, id`
	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// UpdateDeadline replaces the deadline policy. A nil value clears it.
func (r *SchoolRepository) UpdateDeadline(ctx context.Context, id string, deadlineDays *float64) error {
	const query = `UPDATE schools SET replacement_deadline_days = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, deadlineDays, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update school deadline: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update school deadline rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
