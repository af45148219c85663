package dto

import (
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// SchoolUrgency is the urgency of replacing an absence at one school.
type SchoolUrgency struct {
	SchoolID     string   `json:"school_id"`
	SchoolName   string   `json:"school_name,omitempty"`
	DeadlineDays *float64 `json:"deadline_days"`
	Replaced     bool     `json:"replaced"`
	engine.Urgency
}

// AbsenceUrgency is the per-school and overall urgency of one absence.
type AbsenceUrgency struct {
	AbsenceID      string          `json:"absence_id"`
	CollaboratorID string          `json:"collaborator_id"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	TimeSlot       models.TimeSlot `json:"time_slot"`
	Motif          string          `json:"motif"`
	Overall        engine.Urgency  `json:"overall"`
	Schools        []SchoolUrgency `json:"schools"`
}

// UrgencyListQuery filters the urgency list.
type UrgencyListQuery struct {
	From     string `form:"from" validate:"required,datetime=2006-01-02"`
	To       string `form:"to" validate:"required,datetime=2006-01-02"`
	SchoolID string `form:"school_id" validate:"omitempty"`
}

// UrgencyExportQuery adds the export format to the list filter.
type UrgencyExportQuery struct {
	UrgencyListQuery
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// ExportedFile is a rendered export ready to stream.
type ExportedFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
