package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

const assignmentColumns = `id, substitute_id, collaborator_id, school_id, start_date, end_date, time_slot, motif, created_at, updated_at`

// AssignmentRepository persists substitute assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByCollaborator returns assignments covering a collaborator that overlap [from, to].
func (r *AssignmentRepository) ListByCollaborator(ctx context.Context, collaboratorID string, from, to time.Time) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE collaborator_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date, id`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, collaboratorID, from, to); err != nil {
		return nil, fmt.Errorf("list collaborator assignments: %w", err)
	}
	return assignments, nil
}

// ListBySubstitutes returns assignments held by the given substitutes that overlap [from, to].
func (r *AssignmentRepository) ListBySubstitutes(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.Assignment, error) {
	if len(substituteIDs) == 0 {
		return []models.Assignment{}, nil
	}
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE substitute_id = ANY($1) AND start_date <= $3 AND end_date >= $2
		ORDER BY substitute_id, start_date, id`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, pq.Array(substituteIDs), from, to); err != nil {
		return nil, fmt.Errorf("list substitute assignments: %w", err)
	}
	return assignments, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `INSERT INTO assignments (id, substitute_id, collaborator_id, school_id, start_date, end_date, time_slot, motif, created_at, updated_at)
		VALUES (:id, :substitute_id, :collaborator_id, :school_id, :start_date, :end_date, :time_slot, :motif, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}
