package dto

import "github.com/noah-isme/sma-substitute-api/internal/models"

// CreateAssignmentRequest links a substitute to a collaborator at a school.
type CreateAssignmentRequest struct {
	SubstituteID   string  `json:"substitute_id" validate:"required"`
	CollaboratorID string  `json:"collaborator_id" validate:"required"`
	SchoolID       string  `json:"school_id" validate:"required"`
	StartDate      string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	TimeSlot       string  `json:"time_slot" validate:"required,oneof=MORNING AFTERNOON FULL_DAY"`
	Motif          *string `json:"motif" validate:"omitempty,max=255"`
}

// AssignmentResponse returns the stored assignment and the absences queued for sync.
type AssignmentResponse struct {
	Assignment     *models.Assignment `json:"assignment"`
	SyncedAbsences []string           `json:"synced_absences"`
}

// UpdateDeadlineRequest sets or clears a school's replacement deadline in days.
type UpdateDeadlineRequest struct {
	DeadlineDays *float64 `json:"deadline_days" validate:"omitempty,gte=0,lte=365"`
}
