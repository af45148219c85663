package models

import "time"

// AbsenceOwnerType tells whose absence a record describes.
type AbsenceOwnerType string

const (
	OwnerCollaborator AbsenceOwnerType = "COLLABORATOR"
	OwnerSubstitute   AbsenceOwnerType = "SUBSTITUTE"
)

// Absence is a period during which the owner is away.
type Absence struct {
	ID         string           `db:"id" json:"id"`
	OwnerID    string           `db:"owner_id" json:"owner_id"`
	OwnerType  AbsenceOwnerType `db:"owner_type" json:"owner_type"`
	StartDate  time.Time        `db:"start_date" json:"start_date"`
	EndDate    time.Time        `db:"end_date" json:"end_date"`
	TimeSlot   TimeSlot         `db:"time_slot" json:"time_slot"`
	Motif      string           `db:"motif" json:"motif"`
	Details    *string          `db:"details" json:"details,omitempty"`
	IsReplaced bool             `db:"is_replaced" json:"is_replaced"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// AbsenceFilter narrows collaborator absence listings.
type AbsenceFilter struct {
	From     time.Time
	To       time.Time
	SchoolID string
}
