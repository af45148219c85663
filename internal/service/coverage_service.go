package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
	"github.com/noah-isme/sma-substitute-api/pkg/jobs"
)

// JobSyncReplaced is the queue job kind recomputing an absence's replaced flag.
const JobSyncReplaced = "absence.sync_replaced"

type absenceRepository interface {
	FindByID(ctx context.Context, id string) (*models.Absence, error)
	ListCollaboratorAbsences(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, error)
	ListByCollaborator(ctx context.Context, collaboratorID string, from, to time.Time) ([]models.Absence, error)
	ListBySubstitutes(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.Absence, error)
	UpdateReplaced(ctx context.Context, id string, replaced bool) error
}

type presenceRepository interface {
	ListByCollaborator(ctx context.Context, collaboratorID string) ([]models.PresenceSchedule, error)
}

type assignmentRepository interface {
	ListByCollaborator(ctx context.Context, collaboratorID string, from, to time.Time) ([]models.Assignment, error)
	ListBySubstitutes(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
}

type substituteRepository interface {
	ListActive(ctx context.Context) ([]models.Substitute, error)
	FindByID(ctx context.Context, id string) (*models.Substitute, error)
}

type availabilityRepository interface {
	ListPeriods(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.AvailabilityPeriod, error)
	ListOverrides(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.SpecificAvailability, error)
	CreatePeriod(ctx context.Context, period *models.AvailabilityPeriod) error
	UpsertOverride(ctx context.Context, override *models.SpecificAvailability) error
}

// CoverageService projects absences onto presence schedules and ranks substitutes.
type CoverageService struct {
	absences     absenceRepository
	presence     presenceRepository
	assignments  assignmentRepository
	substitutes  substituteRepository
	availability availabilityRepository
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewCoverageService constructs a CoverageService.
func NewCoverageService(absences absenceRepository, presence presenceRepository, assignments assignmentRepository, substitutes substituteRepository, availability availabilityRepository, metrics *MetricsService, logger *zap.Logger) *CoverageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverageService{
		absences:     absences,
		presence:     presence,
		assignments:  assignments,
		substitutes:  substitutes,
		availability: availability,
		metrics:      metrics,
		logger:       logger,
	}
}

// Coverage returns the slots an absence needs covered and what is still open.
func (s *CoverageService) Coverage(ctx context.Context, absenceID string) (*dto.CoverageResponse, error) {
	absence, err := s.collaboratorAbsence(ctx, absenceID)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, *absence)
}

// Analyze computes the coverage of an already loaded collaborator absence.
func (s *CoverageService) Analyze(ctx context.Context, absence models.Absence) (*dto.CoverageResponse, error) {
	var (
		schedules   []models.PresenceSchedule
		assignments []models.Assignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		schedules, err = s.presence.ListByCollaborator(gctx, absence.OwnerID)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.assignments.ListByCollaborator(gctx, absence.OwnerID, absence.StartDate, absence.EndDate)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Internal(err, "failed to load coverage inputs")
	}

	entries := engine.ProjectCoverage(absence.StartDate, absence.EndDate, absence.TimeSlot, schedules)
	uncovered := engine.UncoveredEntries(entries, assignments)
	replaced := engine.ReplacedBySchool(entries, uncovered)

	return &dto.CoverageResponse{
		AbsenceID:      absence.ID,
		CollaboratorID: absence.OwnerID,
		StartDate:      engine.FormatDate(absence.StartDate),
		EndDate:        engine.FormatDate(absence.EndDate),
		TimeSlot:       absence.TimeSlot,
		IsReplaced:     len(entries) > 0 && len(uncovered) == 0,
		Entries:        entries,
		Uncovered:      uncovered,
		Schools:        summariseSchools(entries, uncovered, replaced),
	}, nil
}

func summariseSchools(entries, uncovered []engine.CoverageEntry, replaced map[string]bool) []dto.SchoolCoverage {
	totals := make(map[string]int)
	open := make(map[string]int)
	for _, e := range entries {
		totals[e.SchoolID]++
	}
	for _, e := range uncovered {
		open[e.SchoolID]++
	}
	out := make([]dto.SchoolCoverage, 0, len(totals))
	for school, total := range totals {
		out = append(out, dto.SchoolCoverage{SchoolID: school, Total: total, Uncovered: open[school], Replaced: replaced[school]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SchoolID < out[j].SchoolID })
	return out
}

// Candidates ranks active substitutes against the uncovered slots of an absence.
func (s *CoverageService) Candidates(ctx context.Context, absenceID string) (*dto.CandidatesResponse, error) {
	absence, err := s.collaboratorAbsence(ctx, absenceID)
	if err != nil {
		return nil, err
	}
	coverage, err := s.Analyze(ctx, *absence)
	if err != nil {
		return nil, err
	}

	subs, err := s.substitutes.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load substitutes")
	}
	candidates, err := s.loadCandidates(ctx, subs, absence.StartDate, absence.EndDate)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ranked := engine.RankCandidates(coverage.Uncovered, candidates)
	s.metrics.ObserveRanking(len(candidates), len(coverage.Uncovered), time.Since(start))

	return &dto.CandidatesResponse{
		AbsenceID:  absence.ID,
		EntryCount: len(coverage.Uncovered),
		Candidates: ranked,
	}, nil
}

// loadCandidates fetches the availability layers of every substitute over [from, to].
func (s *CoverageService) loadCandidates(ctx context.Context, subs []models.Substitute, from, to time.Time) ([]engine.Candidate, error) {
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}

	var (
		periods     []models.AvailabilityPeriod
		overrides   []models.SpecificAvailability
		assignments []models.Assignment
		absences    []models.Absence
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		periods, err = s.availability.ListPeriods(gctx, ids, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = s.availability.ListOverrides(gctx, ids, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.assignments.ListBySubstitutes(gctx, ids, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		absences, err = s.absences.ListBySubstitutes(gctx, ids, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Internal(err, "failed to load substitute availability")
	}

	data := make(map[string]*engine.AvailabilityData, len(subs))
	for _, id := range ids {
		data[id] = &engine.AvailabilityData{Absences: []models.Absence{}}
	}
	for _, p := range periods {
		if d, ok := data[p.SubstituteID]; ok {
			d.Periods = append(d.Periods, p)
		}
	}
	for _, o := range overrides {
		if d, ok := data[o.SubstituteID]; ok {
			d.Overrides = append(d.Overrides, o)
		}
	}
	for _, a := range assignments {
		if d, ok := data[a.SubstituteID]; ok {
			d.Assignments = append(d.Assignments, a)
		}
	}
	for _, a := range absences {
		if d, ok := data[a.OwnerID]; ok {
			d.Absences = append(d.Absences, a)
		}
	}

	candidates := make([]engine.Candidate, 0, len(subs))
	for _, sub := range subs {
		candidates = append(candidates, engine.Candidate{
			ID:           sub.ID,
			FirstName:    sub.FirstName,
			LastName:     sub.LastName,
			Availability: *data[sub.ID],
		})
	}
	return candidates, nil
}

// SyncReplaced recomputes an absence's replaced flag and persists it when it changed.
func (s *CoverageService) SyncReplaced(ctx context.Context, absenceID string) (*dto.SyncResponse, error) {
	absence, err := s.collaboratorAbsence(ctx, absenceID)
	if err != nil {
		s.metrics.RecordSync("error")
		return nil, err
	}
	coverage, err := s.Analyze(ctx, *absence)
	if err != nil {
		s.metrics.RecordSync("error")
		return nil, err
	}

	result := &dto.SyncResponse{AbsenceID: absence.ID, IsReplaced: coverage.IsReplaced}
	if coverage.IsReplaced == absence.IsReplaced {
		s.metrics.RecordSync("unchanged")
		return result, nil
	}
	if err := s.absences.UpdateReplaced(ctx, absence.ID, coverage.IsReplaced); err != nil {
		s.metrics.RecordSync("error")
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Internal(err, "failed to update absence")
	}
	s.metrics.RecordSync("updated")
	s.logger.Info("absence replaced flag updated", zap.String("absence_id", absence.ID), zap.Bool("is_replaced", coverage.IsReplaced))
	result.Changed = true
	return result, nil
}

// HandleSyncJob processes queued replaced-flag recomputations. Absences that disappeared
// or are not collaborator absences are dropped without retry.
func (s *CoverageService) HandleSyncJob(ctx context.Context, job jobs.Job) error {
	if job.Kind != JobSyncReplaced {
		s.logger.Warn("unexpected job kind", zap.String("kind", job.Kind))
		return nil
	}
	_, err := s.SyncReplaced(ctx, job.Key)
	if err == nil {
		return nil
	}
	if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code || appErr.Code == appErrors.ErrNotCollaborator.Code {
		s.logger.Warn("dropping sync job", zap.String("absence_id", job.Key), zap.Error(err))
		return nil
	}
	return err
}

// Preview lists the weekdays a prospective absence would touch.
func (s *CoverageService) Preview(start, end time.Time) *dto.PreviewResponse {
	days := engine.AffectedWeekdays(start, end)
	weekdays := make([]dto.PreviewWeekday, 0, len(days))
	for _, d := range days {
		weekdays = append(weekdays, dto.PreviewWeekday{Code: d, Label: engine.WeekdayLabel(d)})
	}
	return &dto.PreviewResponse{
		StartDate: engine.FormatDate(start),
		EndDate:   engine.FormatDate(end),
		Weekdays:  weekdays,
	}
}

func (s *CoverageService) collaboratorAbsence(ctx context.Context, id string) (*models.Absence, error) {
	absence, err := s.absences.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Internal(err, "failed to load absence")
	}
	if absence.OwnerType != models.OwnerCollaborator {
		return nil, appErrors.ErrNotCollaborator
	}
	return absence, nil
}
