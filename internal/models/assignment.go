package models

import "time"

// Assignment links a substitute to a collaborator's absence at one school.
type Assignment struct {
	ID             string    `db:"id" json:"id"`
	SubstituteID   string    `db:"substitute_id" json:"substitute_id"`
	CollaboratorID string    `db:"collaborator_id" json:"collaborator_id"`
	SchoolID       string    `db:"school_id" json:"school_id"`
	StartDate      time.Time `db:"start_date" json:"start_date"`
	EndDate        time.Time `db:"end_date" json:"end_date"`
	TimeSlot       TimeSlot  `db:"time_slot" json:"time_slot"`
	Motif          *string   `db:"motif" json:"motif,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
