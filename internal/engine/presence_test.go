package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

func presence(schoolID string, slots ...models.WeeklySlot) models.PresenceSchedule {
	return models.PresenceSchedule{ID: "pr-" + schoolID, CollaboratorID: "col-1", SchoolID: schoolID, Slots: slots}
}

func mondayWednesdayMornings() []models.PresenceSchedule {
	return []models.PresenceSchedule{
		presence("school-a",
			models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Morning},
			models.WeeklySlot{Weekday: models.Wednesday, TimeSlot: models.Morning},
		),
	}
}

func TestProjectCoverageFullDayAbsence(t *testing.T) {
	entries := ProjectCoverage(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-08"), models.FullDay, mondayWednesdayMornings())

	require.Len(t, entries, 2)
	assert.Equal(t, CoverageEntry{Date: mustDate(t, "2024-03-04"), Weekday: models.Monday, TimeSlot: models.Morning, SchoolID: "school-a"}, entries[0])
	assert.Equal(t, CoverageEntry{Date: mustDate(t, "2024-03-06"), Weekday: models.Wednesday, TimeSlot: models.Morning, SchoolID: "school-a"}, entries[1])
}

func TestProjectCoverageMorningAbsenceMatchesFullDayProjection(t *testing.T) {
	full := ProjectCoverage(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-08"), models.FullDay, mondayWednesdayMornings())
	morning := ProjectCoverage(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-08"), models.Morning, mondayWednesdayMornings())
	assert.Equal(t, full, morning)
}

func TestProjectCoverageHalfDayFiltersSlots(t *testing.T) {
	schedules := []models.PresenceSchedule{
		presence("school-a",
			models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Morning},
			models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Afternoon},
			models.WeeklySlot{Weekday: models.Tuesday, TimeSlot: models.FullDay},
		),
	}
	entries := ProjectCoverage(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-05"), models.Afternoon, schedules)

	require.Len(t, entries, 2)
	assert.Equal(t, models.Afternoon, entries[0].TimeSlot)
	assert.Equal(t, models.Monday, entries[0].Weekday)
	assert.Equal(t, models.FullDay, entries[1].TimeSlot)
	assert.Equal(t, models.Tuesday, entries[1].Weekday)
}

func TestProjectCoverageOneEntryPerSchool(t *testing.T) {
	schedules := []models.PresenceSchedule{
		presence("school-b", models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Afternoon}),
		presence("school-a", models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Morning}),
	}
	entries := ProjectCoverage(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-04"), models.FullDay, schedules)

	require.Len(t, entries, 2)
	assert.Equal(t, "school-a", entries[0].SchoolID)
	assert.Equal(t, "school-b", entries[1].SchoolID)
}

func TestProjectCoverageSkipsWeekendsAndInvertedRanges(t *testing.T) {
	schedules := []models.PresenceSchedule{presence("school-a", models.WeeklySlot{Weekday: models.Friday, TimeSlot: models.FullDay})}

	entries := ProjectCoverage(mustDate(t, "2024-03-08"), mustDate(t, "2024-03-10"), models.FullDay, schedules)
	assert.Len(t, entries, 1)

	assert.Empty(t, ProjectCoverage(mustDate(t, "2024-03-10"), mustDate(t, "2024-03-08"), models.FullDay, schedules))
	assert.Empty(t, ProjectCoverage(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-08"), models.FullDay, nil))
}

func TestProjectCoverageHandlesLongRanges(t *testing.T) {
	schedules := []models.PresenceSchedule{presence("school-a", models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Morning})}
	entries := ProjectCoverage(mustDate(t, "2024-01-01"), mustDate(t, "2024-12-31"), models.FullDay, schedules)
	assert.Len(t, entries, 53)
}

func TestProjectCoverageHonoursValidity(t *testing.T) {
	from := mustDate(t, "2024-03-11")
	schedule := presence("school-a", models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Morning})
	schedule.ValidFrom = &from

	entries := ProjectCoverage(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-18"), models.FullDay, []models.PresenceSchedule{schedule})
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-03-11", FormatDate(entries[0].Date))
}

func TestProjectCoverageIsIdempotent(t *testing.T) {
	schedules := []models.PresenceSchedule{
		presence("school-b", models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.FullDay}),
		presence("school-a",
			models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Afternoon},
			models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Morning},
		),
	}
	start, end := mustDate(t, "2024-03-01"), mustDate(t, "2024-03-31")
	assert.Equal(t, ProjectCoverage(start, end, models.FullDay, schedules), ProjectCoverage(start, end, models.FullDay, schedules))
}

func TestProjectCoverageIsMonotonic(t *testing.T) {
	start, end := mustDate(t, "2024-03-01"), mustDate(t, "2024-03-31")
	schedules := mondayWednesdayMornings()
	before := len(ProjectCoverage(start, end, models.Morning, schedules))

	more := append(append([]models.PresenceSchedule{}, schedules...),
		presence("school-b", models.WeeklySlot{Weekday: models.Thursday, TimeSlot: models.Afternoon}),
		presence("school-c", models.WeeklySlot{Weekday: models.Friday, TimeSlot: models.Morning}),
	)
	after := len(ProjectCoverage(start, end, models.Morning, more))
	assert.GreaterOrEqual(t, after, before)
}

func TestIndexPresenceGroupsByWeekday(t *testing.T) {
	index := IndexPresence([]models.PresenceSchedule{
		presence("school-b", models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Morning}),
		presence("school-a",
			models.WeeklySlot{Weekday: models.Monday, TimeSlot: models.Afternoon},
			models.WeeklySlot{Weekday: "SATURDAY", TimeSlot: models.Morning},
		),
	})
	require.Len(t, index, 1)
	require.Len(t, index[models.Monday], 2)
	assert.Equal(t, "school-a", index[models.Monday][0].SchoolID)
}

func TestAffectedWeekdaysCapsIterations(t *testing.T) {
	assert.Equal(t, []models.Weekday{models.Monday, models.Tuesday}, AffectedWeekdays(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-05")))

	start := mustDate(t, "2024-01-01")
	all := AffectedWeekdays(start, start.Add(5000*24*time.Hour))
	assert.Len(t, all, 5)

	assert.Empty(t, AffectedWeekdays(mustDate(t, "2024-03-05"), mustDate(t, "2024-03-04")))
}
