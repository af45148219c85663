package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

var periodColumns = []string{"id", "substitute_id", "start_date", "end_date", "active", "recurrences", "created_at", "updated_at"}

func TestAvailabilityRepositoryListPeriodsDecodesRecurrences(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db, nil)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows(periodColumns).
		AddRow("p-1", "sub-1", from, to, true, `[{"weekday":"MONDAY","time_slot":"MORNING"}]`, now, now).
		AddRow("p-2", "sub-2", from, to, true, `not json`, now, now)
	mock.ExpectQuery("FROM availability_periods").
		WithArgs(sqlmock.AnyArg(), from, to).
		WillReturnRows(rows)

	periods, err := repo.ListPeriods(context.Background(), []string{"sub-1", "sub-2"}, from, to)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, models.WeeklyPattern{{Weekday: models.Monday, TimeSlot: models.Morning}}, periods[0].Recurrences)
	assert.Empty(t, periods[1].Recurrences)
	assert.NotNil(t, periods[1].Recurrences)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListPeriodsSkipsEmptyIDs(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db, nil)

	periods, err := repo.ListPeriods(context.Background(), nil, time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, periods)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryCreatePeriod(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db, nil)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO availability_periods").
		WithArgs(sqlmock.AnyArg(), "sub-1", start, end, true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	period := &models.AvailabilityPeriod{
		SubstituteID: "sub-1",
		StartDate:    start,
		EndDate:      end,
		Active:       true,
		Recurrences:  models.WeeklyPattern{{Weekday: models.Tuesday, TimeSlot: models.FullDay}},
	}
	require.NoError(t, repo.CreatePeriod(context.Background(), period))
	assert.NotEmpty(t, period.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryUpsertOverride(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db, nil)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO specific_availabilities .* ON CONFLICT \\(substitute_id, date, time_slot\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "sub-1", date, models.Afternoon, false, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertOverride(context.Background(), &models.SpecificAvailability{
		SubstituteID: "sub-1",
		Date:         date,
		TimeSlot:     models.Afternoon,
		IsAvailable:  false,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListOverrides(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db, nil)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "substitute_id", "date", "time_slot", "is_available", "note", "created_at", "updated_at"}).
		AddRow("o-1", "sub-1", date, "MORNING", true, nil, now, now)
	mock.ExpectQuery("FROM specific_availabilities").
		WithArgs(sqlmock.AnyArg(), date, date).
		WillReturnRows(rows)

	overrides, err := repo.ListOverrides(context.Background(), []string{"sub-1"}, date, date)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, models.Morning, overrides[0].TimeSlot)
	assert.True(t, overrides[0].IsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
