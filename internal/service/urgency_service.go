package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
	"github.com/noah-isme/sma-substitute-api/pkg/export"
)

const urgencyAnalysisConcurrency = 8

type urgencyAbsenceRepository interface {
	FindByID(ctx context.Context, id string) (*models.Absence, error)
	ListCollaboratorAbsences(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, error)
}

type coverageAnalyzer interface {
	Analyze(ctx context.Context, absence models.Absence) (*dto.CoverageResponse, error)
}

type policySource interface {
	Policies(ctx context.Context, ids []string) (map[string]SchoolPolicy, error)
}

// UrgencyService ranks collaborator absences by how late their replacement is.
type UrgencyService struct {
	absences  urgencyAbsenceRepository
	coverage  coverageAnalyzer
	policies  policySource
	validator *validator.Validate
	logger    *zap.Logger
	clock     func() time.Time
}

// NewUrgencyService constructs an UrgencyService.
func NewUrgencyService(absences urgencyAbsenceRepository, coverage coverageAnalyzer, policies policySource, validate *validator.Validate, logger *zap.Logger) *UrgencyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UrgencyService{
		absences:  absences,
		coverage:  coverage,
		policies:  policies,
		validator: validate,
		logger:    logger,
		clock:     time.Now,
	}
}

// WithClock overrides the time source.
func (s *UrgencyService) WithClock(clock func() time.Time) *UrgencyService {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// AbsenceUrgency returns the urgency of one collaborator absence.
func (s *UrgencyService) AbsenceUrgency(ctx context.Context, absenceID string) (*dto.AbsenceUrgency, error) {
	absence, err := s.absences.FindByID(ctx, absenceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Internal(err, "failed to load absence")
	}
	if absence.OwnerType != models.OwnerCollaborator {
		return nil, appErrors.ErrNotCollaborator
	}

	coverage, err := s.coverage.Analyze(ctx, *absence)
	if err != nil {
		return nil, err
	}
	policies, err := s.policies.Policies(ctx, coverageSchools(coverage))
	if err != nil {
		return nil, err
	}
	result := s.evaluate(*absence, coverage, policies, s.clock())
	return &result, nil
}

// List returns collaborator absences overlapping the window, most urgent first.
func (s *UrgencyService) List(ctx context.Context, query dto.UrgencyListQuery) ([]dto.AbsenceUrgency, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid urgency filter")
	}
	from, to, err := parseRange(query.From, query.To)
	if err != nil {
		return nil, err
	}

	absences, err := s.absences.ListCollaboratorAbsences(ctx, models.AbsenceFilter{From: from, To: to, SchoolID: query.SchoolID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list absences")
	}

	coverages := make([]*dto.CoverageResponse, len(absences))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(urgencyAnalysisConcurrency)
	for i := range absences {
		i := i
		g.Go(func() error {
			cov, err := s.coverage.Analyze(gctx, absences[i])
			if err != nil {
				return err
			}
			coverages[i] = cov
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var schoolIDs []string
	for _, cov := range coverages {
		schoolIDs = append(schoolIDs, coverageSchools(cov)...)
	}
	policies, err := s.policies.Policies(ctx, schoolIDs)
	if err != nil {
		return nil, err
	}

	today := s.clock()
	items := make([]dto.AbsenceUrgency, 0, len(absences))
	for i, absence := range absences {
		items = append(items, s.evaluate(absence, coverages[i], policies, today))
	}
	return engine.SortByUrgency(items, func(item dto.AbsenceUrgency) engine.Urgency { return item.Overall }), nil
}

// Export renders the urgency list as CSV or PDF.
func (s *UrgencyService) Export(ctx context.Context, query dto.UrgencyExportQuery) (*dto.ExportedFile, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	items, err := s.List(ctx, query.UrgencyListQuery)
	if err != nil {
		return nil, err
	}

	table := urgencyTable(query.From, query.To, items)
	base := fmt.Sprintf("urgences_%s_%s", query.From, query.To)
	switch query.Format {
	case "pdf":
		payload, err := export.RenderPDF(table, func(row []string) bool {
			return row[6] == engine.UrgencyUrgent.String()
		})
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render pdf")
		}
		return &dto.ExportedFile{Filename: base + ".pdf", ContentType: "application/pdf", Payload: payload}, nil
	default:
		payload, err := export.RenderCSV(table)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render csv")
		}
		return &dto.ExportedFile{Filename: base + ".csv", ContentType: "text/csv; charset=utf-8", Payload: payload}, nil
	}
}

func (s *UrgencyService) evaluate(absence models.Absence, coverage *dto.CoverageResponse, policies map[string]SchoolPolicy, today time.Time) dto.AbsenceUrgency {
	schools := make([]dto.SchoolUrgency, 0, len(coverage.Schools))
	levels := make([]engine.Urgency, 0, len(coverage.Schools))
	for _, sc := range coverage.Schools {
		policy := policies[sc.SchoolID]
		u := engine.SchoolUrgency(absence.StartDate, policy.DeadlineDays, sc.Replaced, today)
		schools = append(schools, dto.SchoolUrgency{
			SchoolID:     sc.SchoolID,
			SchoolName:   policy.Name,
			DeadlineDays: policy.DeadlineDays,
			Replaced:     sc.Replaced,
			Urgency:      u,
		})
		levels = append(levels, u)
	}
	return dto.AbsenceUrgency{
		AbsenceID:      absence.ID,
		CollaboratorID: absence.OwnerID,
		StartDate:      engine.FormatDate(absence.StartDate),
		EndDate:        engine.FormatDate(absence.EndDate),
		TimeSlot:       absence.TimeSlot,
		Motif:          absence.Motif,
		Overall:        engine.OverallUrgency(levels),
		Schools:        schools,
	}
}

func coverageSchools(coverage *dto.CoverageResponse) []string {
	ids := make([]string, 0, len(coverage.Schools))
	for _, sc := range coverage.Schools {
		ids = append(ids, sc.SchoolID)
	}
	return ids
}

func urgencyTable(from, to string, items []dto.AbsenceUrgency) export.Table {
	table := export.Table{
		Title:   fmt.Sprintf("Absences à remplacer du %s au %s", from, to),
		Columns: []string{"Absence", "Collaborateur", "Début", "Fin", "Créneau", "Motif", "Urgence", "Jours restants", "Écoles"},
		Rows:    make([][]string, 0, len(items)),
	}
	for _, item := range items {
		days := "-"
		if item.Overall.DaysRemaining != nil {
			days = strconv.Itoa(*item.Overall.DaysRemaining)
		}
		schools := make([]string, 0, len(item.Schools))
		for _, sc := range item.Schools {
			name := sc.SchoolName
			if name == "" {
				name = sc.SchoolID
			}
			schools = append(schools, name)
		}
		table.Rows = append(table.Rows, []string{
			item.AbsenceID,
			item.CollaboratorID,
			item.StartDate,
			item.EndDate,
			engine.SlotLabel(item.TimeSlot),
			item.Motif,
			item.Overall.Level.String(),
			days,
			strings.Join(schools, ", "),
		})
	}
	return table
}

// parseRange parses an inclusive YYYY-MM-DD window.
func parseRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	from, err := engine.ParseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrInvalidRange.Code, appErrors.ErrInvalidRange.Status, "invalid start date")
	}
	to, err := engine.ParseDate(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrInvalidRange.Code, appErrors.ErrInvalidRange.Status, "invalid end date")
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrInvalidRange, "start date must not be after end date")
	}
	return from, to, nil
}
