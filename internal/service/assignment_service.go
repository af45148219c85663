package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
)

type collaboratorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Collaborator, error)
}

type collaboratorAbsenceLister interface {
	ListByCollaborator(ctx context.Context, collaboratorID string, from, to time.Time) ([]models.Absence, error)
}

type assignmentWriter interface {
	Create(ctx context.Context, assignment *models.Assignment) error
}

type jobSubmitter interface {
	Submit(kind, key string) error
}

// AssignmentService records assignments and schedules replaced-flag recomputation for the
// absences they touch.
type AssignmentService struct {
	assignments   assignmentWriter
	substitutes   substituteRepository
	collaborators collaboratorRepository
	absences      collaboratorAbsenceLister
	queue         jobSubmitter
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(assignments assignmentWriter, substitutes substituteRepository, collaborators collaboratorRepository, absences collaboratorAbsenceLister, queue jobSubmitter, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments:   assignments,
		substitutes:   substitutes,
		collaborators: collaborators,
		absences:      absences,
		queue:         queue,
		validator:     validate,
		logger:        logger,
	}
}

// Create stores an assignment and queues a sync for every overlapping absence of the
// covered collaborator.
func (s *AssignmentService) Create(ctx context.Context, req dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.substitutes.FindByID(ctx, req.SubstituteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "substitute not found")
		}
		return nil, appErrors.Internal(err, "failed to load substitute")
	}
	if _, err := s.collaborators.FindByID(ctx, req.CollaboratorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "collaborator not found")
		}
		return nil, appErrors.Internal(err, "failed to load collaborator")
	}

	assignment := &models.Assignment{
		SubstituteID:   req.SubstituteID,
		CollaboratorID: req.CollaboratorID,
		SchoolID:       req.SchoolID,
		StartDate:      start,
		EndDate:        end,
		TimeSlot:       models.TimeSlot(req.TimeSlot),
		Motif:          req.Motif,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Internal(err, "failed to create assignment")
	}

	resp := &dto.AssignmentResponse{Assignment: assignment, SyncedAbsences: []string{}}
	absences, err := s.absences.ListByCollaborator(ctx, req.CollaboratorID, start, end)
	if err != nil {
		s.logger.Warn("absences not queued for sync", zap.String("assignment_id", assignment.ID), zap.Error(err))
		return resp, nil
	}
	for _, absence := range absences {
		if err := s.queue.Submit(JobSyncReplaced, absence.ID); err != nil {
			s.logger.Warn("failed to queue absence sync", zap.String("absence_id", absence.ID), zap.Error(err))
			continue
		}
		resp.SyncedAbsences = append(resp.SyncedAbsences, absence.ID)
	}
	return resp, nil
}
