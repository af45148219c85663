package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
)

func newAvailabilityService(f *fixture, opts CalendarOptions) *AvailabilityService {
	return NewAvailabilityService(f.substitutes, f.availability, f.assignments, f.absences, opts, nil, nil)
}

func boolPtr(v bool) *bool { return &v }

func TestAvailabilityServiceCalendarHidesWednesday(t *testing.T) {
	f := newFixture(t)
	f.availability.overrides = append(f.availability.overrides, models.SpecificAvailability{
		ID: "o-1", SubstituteID: "sub-2", Date: day(t, "2024-03-05"), TimeSlot: models.Morning, IsAvailable: true,
	})
	svc := newAvailabilityService(f, CalendarOptions{HideWednesday: true})

	resp, err := svc.Calendar(context.Background(), "sub-2", dto.CalendarQuery{From: "2024-03-04", To: "2024-03-10"})
	require.NoError(t, err)

	require.Len(t, resp.Columns, 4)
	require.Len(t, resp.Days, 4)
	for _, d := range resp.Days {
		assert.NotEqual(t, models.Wednesday, d.Weekday)
		require.Len(t, d.Cells, 2)
	}

	assert.Equal(t, engine.StatusUnavailable, resp.Days[0].Cells[0].Status)
	assert.Equal(t, engine.StatusSpecificallyAvailable, resp.Days[1].Cells[0].Status)
	assert.Equal(t, "o-1", resp.Days[1].Cells[0].OverrideID)
	assert.Equal(t, "Jeudi", resp.Days[2].Label)
	assert.Equal(t, engine.StatusRecurringlyAvailable, resp.Days[2].Cells[1].Status)
	assert.True(t, resp.Days[2].Cells[1].Available)
}

func TestAvailabilityServiceCalendarShowsAssignmentsAndAbsences(t *testing.T) {
	f := newFixture(t)
	svc := newAvailabilityService(f, CalendarOptions{})

	resp, err := svc.Calendar(context.Background(), "sub-1", dto.CalendarQuery{From: "2024-03-04", To: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, engine.StatusAssigned, resp.Days[0].Cells[0].Status)
	assert.Equal(t, "asg-a", resp.Days[0].Cells[1].AssignmentID)

	resp, err = svc.Calendar(context.Background(), "sub-3", dto.CalendarQuery{From: "2024-03-06", To: "2024-03-07"})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, models.Wednesday, resp.Days[0].Weekday)
	assert.Equal(t, engine.StatusAbsentUnreplaced, resp.Days[1].Cells[1].Status)
	assert.Equal(t, "abs-sub", resp.Days[1].Cells[1].AbsenceID)
}

func TestAvailabilityServiceCalendarRangeLimits(t *testing.T) {
	svc := newAvailabilityService(newFixture(t), CalendarOptions{MaxRangeDays: 10})
	ctx := context.Background()

	_, err := svc.Calendar(ctx, "sub-1", dto.CalendarQuery{From: "2024-03-01", To: "2024-03-31"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)

	_, err = svc.Calendar(ctx, "sub-1", dto.CalendarQuery{From: "2024-03-08", To: "2024-03-01"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)

	_, err = svc.Calendar(ctx, "sub-x", dto.CalendarQuery{From: "2024-03-01", To: "2024-03-02"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceCreatePeriod(t *testing.T) {
	f := newFixture(t)
	svc := newAvailabilityService(f, CalendarOptions{})

	period, err := svc.CreatePeriod(context.Background(), "sub-1", dto.CreatePeriodRequest{
		StartDate: "2024-04-01",
		EndDate:   "2024-04-30",
		Recurrences: []dto.WeeklySlotRequest{
			{Weekday: "MONDAY", TimeSlot: "MORNING"},
			{Weekday: "MONDAY", TimeSlot: "MORNING"},
			{Weekday: "WEDNESDAY", TimeSlot: "FULL_DAY"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "period-1", period.ID)
	assert.True(t, period.Active)
	assert.Len(t, period.Recurrences, 2)
	assert.Equal(t, day(t, "2024-04-01"), period.StartDate)
}

func TestAvailabilityServiceCreatePeriodValidation(t *testing.T) {
	svc := newAvailabilityService(newFixture(t), CalendarOptions{})

	_, err := svc.CreatePeriod(context.Background(), "sub-1", dto.CreatePeriodRequest{
		StartDate:   "2024-04-01",
		EndDate:     "2024-04-30",
		Recurrences: []dto.WeeklySlotRequest{{Weekday: "SATURDAY", TimeSlot: "MORNING"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceSetOverride(t *testing.T) {
	f := newFixture(t)
	svc := newAvailabilityService(f, CalendarOptions{})
	ctx := context.Background()

	override, err := svc.SetOverride(ctx, "sub-2", dto.SetOverrideRequest{Date: "2024-03-07", TimeSlot: "AFTERNOON", IsAvailable: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, override.IsAvailable)
	require.Len(t, f.availability.upserted, 1)

	_, err = svc.SetOverride(ctx, "sub-2", dto.SetOverrideRequest{Date: "2024-03-07", TimeSlot: "AFTERNOON"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
