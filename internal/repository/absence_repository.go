package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

const absenceColumns = `id, owner_id, owner_type, start_date, end_date, time_slot, motif, details, is_replaced, created_at, updated_at`

// AbsenceRepository persists collaborator and substitute absences.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// FindByID fetches an absence.
func (r *AbsenceRepository) FindByID(ctx context.Context, id string) (*models.Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`
	var absence models.Absence
	if err := r.db.GetContext(ctx, &absence, query, id); err != nil {
		return nil, err
	}
	return &absence, nil
}

// ListCollaboratorAbsences returns collaborator absences overlapping the filter window. A
// school filter keeps absences whose owner has a presence schedule at that school.
func (r *AbsenceRepository) ListCollaboratorAbsences(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, error) {
	conditions := []string{"a.owner_type = $1"}
	args := []interface{}{models.OwnerCollaborator}

	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.end_date >= $%d", len(args)+1))
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.start_date <= $%d", len(args)+1))
		args = append(args, filter.To)
	}
	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM presence_schedules p WHERE p.collaborator_id = a.owner_id AND p.school_id = $%d)", len(args)+1))
		args = append(args, filter.SchoolID)
	}

	query := `SELECT a.id, a.owner_id, a.owner_type, a.start_date, a.end_date, a.time_slot, a.motif, a.details, a.is_replaced, a.created_at, a.updated_at
		FROM absences a WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY a.start_date, a.id`
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query, args...); err != nil {
		return nil, fmt.Errorf("list collaborator absences: %w", err)
	}
	return absences, nil
}

// ListBySubstitutes returns absences of the given substitutes overlapping [from, to].
func (r *AbsenceRepository) ListBySubstitutes(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.Absence, error) {
	if len(substituteIDs) == 0 {
		return []models.Absence{}, nil
	}
	query := `SELECT ` + absenceColumns + ` FROM absences
		WHERE owner_type = $1 AND owner_id = ANY($2) AND start_date <= $4 AND end_date >= $3
		ORDER BY owner_id, start_date, id`
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query, models.OwnerSubstitute, pq.Array(substituteIDs), from, to); err != nil {
		return nil, fmt.Errorf("list substitute absences: %w", err)
	}
	return absences, nil
}

// ListByCollaborator returns one collaborator's absences overlapping [from, to].
func (r *AbsenceRepository) ListByCollaborator(ctx context.Context, collaboratorID string, from, to time.Time) ([]models.Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences
		WHERE owner_type = $1 AND owner_id = $2 AND start_date <= $4 AND end_date >= $3
		ORDER BY start_date, id`
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query, models.OwnerCollaborator, collaboratorID, from, to); err != nil {
		return nil, fmt.Errorf("list collaborator absences: %w", err)
	}
	return absences, nil
}

// UpdateReplaced persists the derived replaced flag.
func (r *AbsenceRepository) UpdateReplaced(ctx context.Context, id string, replaced bool) error {
	const query = `UPDATE absences SET is_replaced = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, replaced, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update absence replaced flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update absence replaced flag rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
