package models

import "time"

// AvailabilityPeriod declares recurring availability between two dates.
type AvailabilityPeriod struct {
	ID           string        `db:"id" json:"id"`
	SubstituteID string        `db:"substitute_id" json:"substitute_id"`
	StartDate    time.Time     `db:"start_date" json:"start_date"`
	EndDate      time.Time     `db:"end_date" json:"end_date"`
	Active       bool          `db:"active" json:"active"`
	Recurrences  WeeklyPattern `db:"-" json:"recurrences"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// SpecificAvailability overrides recurring periods for one date and slot.
type SpecificAvailability struct {
	ID           string    `db:"id" json:"id"`
	SubstituteID string    `db:"substitute_id" json:"substitute_id"`
	Date         time.Time `db:"date" json:"date"`
	TimeSlot     TimeSlot  `db:"time_slot" json:"time_slot"`
	IsAvailable  bool      `db:"is_available" json:"is_available"`
	Note         *string   `db:"note" json:"note,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
