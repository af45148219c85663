package models

import "time"

// PresenceSchedule is a collaborator's recurring weekly presence at one school.
type PresenceSchedule struct {
	ID             string        `db:"id" json:"id"`
	CollaboratorID string        `db:"collaborator_id" json:"collaborator_id"`
	SchoolID       string        `db:"school_id" json:"school_id"`
	ValidFrom      *time.Time    `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo        *time.Time    `db:"valid_to" json:"valid_to,omitempty"`
	Slots          WeeklyPattern `db:"-" json:"slots"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}
