package dto

import (
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// SchoolCoverage summarises how much of an absence is covered at one school.
type SchoolCoverage struct {
	SchoolID  string `json:"school_id"`
	Total     int    `json:"total"`
	Uncovered int    `json:"uncovered"`
	Replaced  bool   `json:"replaced"`
}

// CoverageResponse describes the slots an absence leaves open.
type CoverageResponse struct {
	AbsenceID      string                 `json:"absence_id"`
	CollaboratorID string                 `json:"collaborator_id"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	TimeSlot       models.TimeSlot        `json:"time_slot"`
	IsReplaced     bool                   `json:"is_replaced"`
	Entries        []engine.CoverageEntry `json:"entries"`
	Uncovered      []engine.CoverageEntry `json:"uncovered"`
	Schools        []SchoolCoverage       `json:"schools"`
}

// CandidatesResponse lists substitutes ranked for the uncovered slots of an absence.
type CandidatesResponse struct {
	AbsenceID  string                   `json:"absence_id"`
	EntryCount int                      `json:"entry_count"`
	Candidates []engine.RankedCandidate `json:"candidates"`
}

// SyncResponse reports the outcome of a replaced-flag recomputation.
type SyncResponse struct {
	AbsenceID  string `json:"absence_id"`
	IsReplaced bool   `json:"is_replaced"`
	Changed    bool   `json:"changed"`
}

// PreviewWeekday is one weekday affected by a date range.
type PreviewWeekday struct {
	Code  models.Weekday `json:"code"`
	Label string         `json:"label"`
}

// PreviewResponse lists the weekdays touched by a prospective absence.
type PreviewResponse struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Weekdays  []PreviewWeekday `json:"weekdays"`
}
