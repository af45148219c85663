package dto

import (
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// WeeklySlotRequest is one recurring (weekday, slot) pair in a period payload.
type WeeklySlotRequest struct {
	Weekday  string `json:"weekday" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY"`
	TimeSlot string `json:"time_slot" validate:"required,oneof=MORNING AFTERNOON FULL_DAY"`
}

// CreatePeriodRequest declares recurring availability between two dates.
type CreatePeriodRequest struct {
	StartDate   string              `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string              `json:"end_date" validate:"required,datetime=2006-01-02"`
	Active      *bool               `json:"active"`
	Recurrences []WeeklySlotRequest `json:"recurrences" validate:"required,min=1,dive"`
}

// SetOverrideRequest marks a substitute available or not for one date and slot.
type SetOverrideRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot    string  `json:"time_slot" validate:"required,oneof=MORNING AFTERNOON FULL_DAY"`
	IsAvailable *bool   `json:"is_available" validate:"required"`
	Note        *string `json:"note" validate:"omitempty,max=500"`
}

// CalendarQuery bounds a calendar grid.
type CalendarQuery struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to" validate:"required,datetime=2006-01-02"`
}

// CalendarColumn is a weekday column of the grid.
type CalendarColumn struct {
	Code  models.Weekday `json:"code"`
	Label string         `json:"label"`
}

// CalendarCell is the resolved status of one half-day.
type CalendarCell struct {
	TimeSlot     models.TimeSlot   `json:"time_slot"`
	Label        string            `json:"label"`
	Status       engine.SlotStatus `json:"status"`
	Available    bool              `json:"available"`
	AssignmentID string            `json:"assignment_id,omitempty"`
	OverrideID   string            `json:"override_id,omitempty"`
	AbsenceID    string            `json:"absence_id,omitempty"`
	Note         *string           `json:"note,omitempty"`
}

// CalendarDay is one row of the grid.
type CalendarDay struct {
	Date    string         `json:"date"`
	Weekday models.Weekday `json:"weekday"`
	Label   string         `json:"label"`
	Cells   []CalendarCell `json:"cells"`
}

// CalendarResponse is a substitute's resolved availability over a date range.
type CalendarResponse struct {
	SubstituteID string           `json:"substitute_id"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	Columns      []CalendarColumn `json:"columns"`
	Days         []CalendarDay    `json:"days"`
}
