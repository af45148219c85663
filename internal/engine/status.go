package engine

import (
	"time"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// SlotStatus classifies one (date, slot) cell of a substitute's calendar.
type SlotStatus string

const (
	StatusAbsentReplaced        SlotStatus = "ABSENT_REPLACED"
	StatusAbsentUnreplaced      SlotStatus = "ABSENT_UNREPLACED"
	StatusAssigned              SlotStatus = "ASSIGNED"
	StatusSpecificallyAvailable SlotStatus = "SPECIFICALLY_AVAILABLE"
	StatusExceptionUnavailable  SlotStatus = "EXCEPTION_UNAVAILABLE"
	StatusRecurringlyAvailable  SlotStatus = "RECURRINGLY_AVAILABLE"
	StatusUnavailable           SlotStatus = "UNAVAILABLE"
)

// IsAvailable reports whether the status lets a substitute take new work.
func (s SlotStatus) IsAvailable() bool {
	return s == StatusRecurringlyAvailable || s == StatusSpecificallyAvailable
}

// AvailabilityData is everything known about one substitute for a date window.
// A nil Absences slice means absences were not supplied and are not consulted.
type AvailabilityData struct {
	Periods     []models.AvailabilityPeriod
	Overrides   []models.SpecificAvailability
	Assignments []models.Assignment
	Absences    []models.Absence
}

// Resolution is the classified status of a cell and the record that decided it.
type Resolution struct {
	Status     SlotStatus                   `json:"status"`
	Assignment *models.Assignment           `json:"assignment,omitempty"`
	Override   *models.SpecificAvailability `json:"override,omitempty"`
	Absence    *models.Absence              `json:"absence,omitempty"`
}

type cell struct {
	date    time.Time
	weekday models.Weekday
	slot    models.TimeSlot
}

// resolverStage returns a definitive resolution or reports no match.
type resolverStage func(c cell, data AvailabilityData) (Resolution, bool)

// resolverStages are consulted in order; the first match wins.
var resolverStages = []resolverStage{
	absenceStage,
	assignmentStage,
	overrideStage,
	recurringStage,
}

// ResolveStatus classifies a single (date, slot) cell for a substitute.
func ResolveStatus(date time.Time, slot models.TimeSlot, data AvailabilityData) Resolution {
	c := cell{date: DateOf(date), slot: slot}
	c.weekday, _ = WeekdayOf(c.date)
	for _, stage := range resolverStages {
		if res, ok := stage(c, data); ok {
			return res
		}
	}
	return Resolution{Status: StatusUnavailable}
}

func absenceStage(c cell, data AvailabilityData) (Resolution, bool) {
	for i := range data.Absences {
		a := &data.Absences[i]
		if !InRange(c.date, a.StartDate, a.EndDate) || !SlotMatches(a.TimeSlot, c.slot) {
			continue
		}
		status := StatusAbsentUnreplaced
		if a.IsReplaced {
			status = StatusAbsentReplaced
		}
		absence := *a
		return Resolution{Status: status, Absence: &absence}, true
	}
	return Resolution{}, false
}

func assignmentStage(c cell, data AvailabilityData) (Resolution, bool) {
	for i := range data.Assignments {
		a := &data.Assignments[i]
		if InRange(c.date, a.StartDate, a.EndDate) && SlotMatches(a.TimeSlot, c.slot) {
			assignment := *a
			return Resolution{Status: StatusAssigned, Assignment: &assignment}, true
		}
	}
	return Resolution{}, false
}

func overrideStage(c cell, data AvailabilityData) (Resolution, bool) {
	for i := range data.Overrides {
		o := &data.Overrides[i]
		if !DateOf(o.Date).Equal(c.date) || !SlotMatches(o.TimeSlot, c.slot) {
			continue
		}
		status := StatusExceptionUnavailable
		if o.IsAvailable {
			status = StatusSpecificallyAvailable
		}
		override := *o
		return Resolution{Status: status, Override: &override}, true
	}
	return Resolution{}, false
}

func recurringStage(c cell, data AvailabilityData) (Resolution, bool) {
	if c.weekday == "" {
		return Resolution{}, false
	}
	for _, p := range data.Periods {
		// a period only speaks for dates inside its own bounds
		if !p.Active || !InRange(c.date, p.StartDate, p.EndDate) {
			continue
		}
		for _, r := range p.Recurrences {
			if r.Weekday == c.weekday && SlotMatches(r.TimeSlot, c.slot) {
				return Resolution{Status: StatusRecurringlyAvailable}, true
			}
		}
	}
	return Resolution{}, false
}
