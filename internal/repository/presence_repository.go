package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

type presenceRow struct {
	models.PresenceSchedule
	RawSlots types.JSONText `db:"slots"`
}

// PresenceRepository reads collaborators' weekly presence schedules.
type PresenceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPresenceRepository constructs a PresenceRepository.
func NewPresenceRepository(db *sqlx.DB, logger *zap.Logger) *PresenceRepository {
	return &PresenceRepository{db: db, logger: loggerOrNop(logger)}
}

// ListByCollaborator returns every presence schedule of a collaborator.
func (r *PresenceRepository) ListByCollaborator(ctx context.Context, collaboratorID string) ([]models.PresenceSchedule, error) {
	const query = `SELECT id, collaborator_id, school_id, valid_from, valid_to, slots, created_at, updated_at
		FROM presence_schedules WHERE collaborator_id = $1 ORDER BY school_id, id`
	var rows []presenceRow
	if err := r.db.SelectContext(ctx, &rows, query, collaboratorID); err != nil {
		return nil, fmt.Errorf("list presence schedules: %w", err)
	}
	schedules := make([]models.PresenceSchedule, 0, len(rows))
	for _, row := range rows {
		schedule := row.PresenceSchedule
		schedule.Slots = decodePattern(r.logger, row.RawSlots, "presence_schedule:"+schedule.ID)
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}
