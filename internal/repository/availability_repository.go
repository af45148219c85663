package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

type periodRow struct {
	models.AvailabilityPeriod
	RawRecurrences types.JSONText `db:"recurrences"`
}

// AvailabilityRepository persists recurring periods and date-specific overrides.
type AvailabilityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB, logger *zap.Logger) *AvailabilityRepository {
	return &AvailabilityRepository{db: db, logger: loggerOrNop(logger)}
}

// ListPeriods returns periods of the given substitutes overlapping [from, to].
func (r *AvailabilityRepository) ListPeriods(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.AvailabilityPeriod, error) {
	if len(substituteIDs) == 0 {
		return []models.AvailabilityPeriod{}, nil
	}
	const query = `SELECT id, substitute_id, start_date, end_date, active, recurrences, created_at, updated_at
		FROM availability_periods
		WHERE substitute_id = ANY($1) AND start_date <= $3 AND end_date >= $2
		ORDER BY substitute_id, start_date`
	var rows []periodRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(substituteIDs), from, to); err != nil {
		return nil, fmt.Errorf("list availability periods: %w", err)
	}
	periods := make([]models.AvailabilityPeriod, 0, len(rows))
	for _, row := range rows {
		period := row.AvailabilityPeriod
		period.Recurrences = decodePattern(r.logger, row.RawRecurrences, "availability_period:"+period.ID)
		periods = append(periods, period)
	}
	return periods, nil
}

// CreatePeriod inserts a new period.
func (r *AvailabilityRepository) CreatePeriod(ctx context.Context, period *models.AvailabilityPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	period.CreatedAt = now
	period.UpdatedAt = now

	raw, err := encodePattern(period.Recurrences)
	if err != nil {
		return fmt.Errorf("encode recurrences: %w", err)
	}
	row := periodRow{AvailabilityPeriod: *period, RawRecurrences: raw}

	const query = `INSERT INTO availability_periods (id, substitute_id, start_date, end_date, active, recurrences, created_at, updated_at)
		VALUES (:id, :substitute_id, :start_date, :end_date, :active, :recurrences, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create availability period: %w", err)
	}
	return nil
}

// ListOverrides returns overrides of the given substitutes dated within [from, to].
func (r *AvailabilityRepository) ListOverrides(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.SpecificAvailability, error) {
	if len(substituteIDs) == 0 {
		return []models.SpecificAvailability{}, nil
	}
	const query = `SELECT id, substitute_id, date, time_slot, is_available, note, created_at, updated_at
		FROM specific_availabilities
		WHERE substitute_id = ANY($1) AND date BETWEEN $2 AND $3
		ORDER BY substitute_id, date, time_slot`
	var overrides []models.SpecificAvailability
	if err := r.db.SelectContext(ctx, &overrides, query, pq.Array(substituteIDs), from, to); err != nil {
		return nil, fmt.Errorf("list specific availabilities: %w", err)
	}
	return overrides, nil
}

// UpsertOverride creates or replaces the override for (substitute, date, slot).
func (r *AvailabilityRepository) UpsertOverride(ctx context.Context, override *models.SpecificAvailability) error {
	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if override.CreatedAt.IsZero() {
		override.CreatedAt = now
	}
	override.UpdatedAt = now

	const query = `INSERT INTO specific_availabilities (id, substitute_id, date, time_slot, is_available, note, created_at, updated_at)
		VALUES (:id, :substitute_id, :date, :time_slot, :is_available, :note, :created_at, :updated_at)
		ON CONFLICT (substitute_id, date, time_slot) DO UPDATE
		SET is_available = EXCLUDED.is_available,
		    note = EXCLUDED.note,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, override); err != nil {
		return fmt.Errorf("upsert specific availability: %w", err)
	}
	return nil
}
