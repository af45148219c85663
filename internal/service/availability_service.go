package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
)

type substituteAbsenceRepository interface {
	ListBySubstitutes(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.Absence, error)
}

type substituteAssignmentRepository interface {
	ListBySubstitutes(ctx context.Context, substituteIDs []string, from, to time.Time) ([]models.Assignment, error)
}

// CalendarOptions tunes the calendar grid.
type CalendarOptions struct {
	HideWednesday bool
	MaxRangeDays  int
}

// AvailabilityService manages substitute availability and renders calendar grids.
type AvailabilityService struct {
	substitutes  substituteRepository
	availability availabilityRepository
	assignments  substituteAssignmentRepository
	absences     substituteAbsenceRepository
	opts         CalendarOptions
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(substitutes substituteRepository, availability availabilityRepository, assignments substituteAssignmentRepository, absences substituteAbsenceRepository, opts CalendarOptions, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 62
	}
	return &AvailabilityService{
		substitutes:  substitutes,
		availability: availability,
		assignments:  assignments,
		absences:     absences,
		opts:         opts,
		validator:    validate,
		logger:       logger,
	}
}

// Calendar resolves every displayed half-day of a substitute over a date range.
func (s *AvailabilityService) Calendar(ctx context.Context, substituteID string, query dto.CalendarQuery) (*dto.CalendarResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar range")
	}
	from, to, err := parseRange(query.From, query.To)
	if err != nil {
		return nil, err
	}
	if engine.DaysBetween(from, to)+1 > s.opts.MaxRangeDays {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "calendar range too long")
	}
	if err := s.ensureSubstitute(ctx, substituteID); err != nil {
		return nil, err
	}

	data, err := s.loadData(ctx, substituteID, from, to)
	if err != nil {
		return nil, err
	}

	columns := engine.GridWeekdays(s.opts.HideWednesday)
	shown := make(map[models.Weekday]bool, len(columns))
	resp := &dto.CalendarResponse{
		SubstituteID: substituteID,
		From:         engine.FormatDate(from),
		To:           engine.FormatDate(to),
		Columns:      make([]dto.CalendarColumn, 0, len(columns)),
		Days:         []dto.CalendarDay{},
	}
	for _, w := range columns {
		shown[w] = true
		resp.Columns = append(resp.Columns, dto.CalendarColumn{Code: w, Label: engine.WeekdayLabel(w)})
	}

	for _, date := range engine.BusinessDays(from, to) {
		weekday, _ := engine.WeekdayOf(date)
		if !shown[weekday] {
			continue
		}
		day := dto.CalendarDay{Date: engine.FormatDate(date), Weekday: weekday, Label: engine.WeekdayLabel(weekday)}
		for _, slot := range engine.SlotsOf(models.FullDay) {
			day.Cells = append(day.Cells, calendarCell(slot, engine.ResolveStatus(date, slot, data)))
		}
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}

func calendarCell(slot models.TimeSlot, res engine.Resolution) dto.CalendarCell {
	cell := dto.CalendarCell{
		TimeSlot:  slot,
		Label:     engine.SlotLabel(slot),
		Status:    res.Status,
		Available: res.Status.IsAvailable(),
	}
	if res.Assignment != nil {
		cell.AssignmentID = res.Assignment.ID
	}
	if res.Override != nil {
		cell.OverrideID = res.Override.ID
		cell.Note = res.Override.Note
	}
	if res.Absence != nil {
		cell.AbsenceID = res.Absence.ID
	}
	return cell
}

func (s *AvailabilityService) loadData(ctx context.Context, substituteID string, from, to time.Time) (engine.AvailabilityData, error) {
	ids := []string{substituteID}
	data := engine.AvailabilityData{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Periods, err = s.availability.ListPeriods(gctx, ids, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		data.Overrides, err = s.availability.ListOverrides(gctx, ids, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		data.Assignments, err = s.assignments.ListBySubstitutes(gctx, ids, from, to)
		return err
	})
	g.Go(func() error {
		absences, err := s.absences.ListBySubstitutes(gctx, ids, from, to)
		if absences == nil {
			absences = []models.Absence{}
		}
		data.Absences = absences
		return err
	})
	if err := g.Wait(); err != nil {
		return engine.AvailabilityData{}, appErrors.Internal(err, "failed to load availability")
	}
	return data, nil
}

// CreatePeriod declares a recurring availability period for a substitute.
func (s *AvailabilityService) CreatePeriod(ctx context.Context, substituteID string, req dto.CreatePeriodRequest) (*models.AvailabilityPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSubstitute(ctx, substituteID); err != nil {
		return nil, err
	}

	seen := make(map[models.WeeklySlot]struct{}, len(req.Recurrences))
	pattern := make(models.WeeklyPattern, 0, len(req.Recurrences))
	for _, r := range req.Recurrences {
		slot := models.WeeklySlot{Weekday: models.Weekday(r.Weekday), TimeSlot: models.TimeSlot(r.TimeSlot)}
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		pattern = append(pattern, slot)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	period := &models.AvailabilityPeriod{
		SubstituteID: substituteID,
		StartDate:    start,
		EndDate:      end,
		Active:       active,
		Recurrences:  pattern,
	}
	if err := s.availability.CreatePeriod(ctx, period); err != nil {
		return nil, appErrors.Internal(err, "failed to create availability period")
	}
	s.logger.Info("availability period created", zap.String("substitute_id", substituteID), zap.String("period_id", period.ID))
	return period, nil
}

// SetOverride records a date-specific availability exception.
func (s *AvailabilityService) SetOverride(ctx context.Context, substituteID string, req dto.SetOverrideRequest) (*models.SpecificAvailability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override payload")
	}
	date, err := engine.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override date")
	}
	if err := s.ensureSubstitute(ctx, substituteID); err != nil {
		return nil, err
	}

	override := &models.SpecificAvailability{
		SubstituteID: substituteID,
		Date:         date,
		TimeSlot:     models.TimeSlot(req.TimeSlot),
		IsAvailable:  *req.IsAvailable,
		Note:         req.Note,
	}
	if err := s.availability.UpsertOverride(ctx, override); err != nil {
		return nil, appErrors.Internal(err, "failed to store availability override")
	}
	return override, nil
}

func (s *AvailabilityService) ensureSubstitute(ctx context.Context, id string) error {
	if _, err := s.substitutes.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "substitute not found")
		}
		return appErrors.Internal(err, "failed to load substitute")
	}
	return nil
}
