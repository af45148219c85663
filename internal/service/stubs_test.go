package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitute-api/internal/engine"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
)

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := engine.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type absenceRepoStub struct {
	mu      sync.Mutex
	items   map[string]*models.Absence
	updates map[string]bool
	err     error
}

func newAbsenceRepoStub(items ...models.Absence) *absenceRepoStub {
	stub := &absenceRepoStub{items: map[string]*models.Absence{}, updates: map[string]bool{}}
	for i := range items {
		item := items[i]
		stub.items[item.ID] = &item
	}
	return stub
}

func (s *absenceRepoStub) FindByID(ctx context.Context, id string) (*models.Absence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (s *absenceRepoStub) sorted(keep func(models.Absence) bool) []models.Absence {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Absence
	for _, item := range s.items {
		if keep(*item) {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *absenceRepoStub) ListCollaboratorAbsences(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, error) {
	return s.sorted(func(a models.Absence) bool {
		return a.OwnerType == models.OwnerCollaborator && !a.EndDate.Before(filter.From) && !a.StartDate.After(filter.To)
	}), nil
}

func (s *absenceRepoStub) ListByCollaborator(ctx context.Context, collaboratorID string, from, to time.Time) ([]models.Absence, error) {
	return s.sorted(func(a models.Absence) bool {
		return a.OwnerType == models.OwnerCollaborator && a.OwnerID == collaboratorID && !a.EndDate.Before(from) && !a.StartDate.After(to)
	}), nil
}

func (s *absenceRepoStub) ListBySubstitutes(ctx context.Context, ids []string, from, to time.Time) ([]models.Absence, error) {
	return s.sorted(func(a models.Absence) bool {
		return a.OwnerType == models.OwnerSubstitute && contains(ids, a.OwnerID)
	}), nil
}

func (s *absenceRepoStub) UpdateReplaced(ctx context.Context, id string, replaced bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.IsReplaced = replaced
	s.updates[id] = replaced
	return nil
}

type presenceRepoStub struct {
	items map[string][]models.PresenceSchedule
}

func (s *presenceRepoStub) ListByCollaborator(ctx context.Context, collaboratorID string) ([]models.PresenceSchedule, error) {
	return s.items[collaboratorID], nil
}

type assignmentRepoStub struct {
	mu      sync.Mutex
	items   []models.Assignment
	created []*models.Assignment
	err     error
}

func (s *assignmentRepoStub) ListByCollaborator(ctx context.Context, collaboratorID string, from, to time.Time) ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Assignment
	for _, a := range s.items {
		if a.CollaboratorID == collaboratorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *assignmentRepoStub) ListBySubstitutes(ctx context.Context, ids []string, from, to time.Time) ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Assignment
	for _, a := range s.items {
		if contains(ids, a.SubstituteID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *assignmentRepoStub) Create(ctx context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	assignment.ID = fmt.Sprintf("asg-%d", len(s.created)+1)
	s.created = append(s.created, assignment)
	s.items = append(s.items, *assignment)
	return nil
}

type substituteRepoStub struct {
	items []models.Substitute
}

func (s *substituteRepoStub) ListActive(ctx context.Context) ([]models.Substitute, error) {
	return s.items, nil
}

func (s *substituteRepoStub) FindByID(ctx context.Context, id string) (*models.Substitute, error) {
	for _, sub := range s.items {
		if sub.ID == id {
			cp := sub
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type collaboratorRepoStub struct {
	items map[string]models.Collaborator
}

func (s *collaboratorRepoStub) FindByID(ctx context.Context, id string) (*models.Collaborator, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

type availabilityRepoStub struct {
	periods   []models.AvailabilityPeriod
	overrides []models.SpecificAvailability
	created   []*models.AvailabilityPeriod
	upserted  []*models.SpecificAvailability
}

func (s *availabilityRepoStub) ListPeriods(ctx context.Context, ids []string, from, to time.Time) ([]models.AvailabilityPeriod, error) {
	var out []models.AvailabilityPeriod
	for _, p := range s.periods {
		if contains(ids, p.SubstituteID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *availabilityRepoStub) ListOverrides(ctx context.Context, ids []string, from, to time.Time) ([]models.SpecificAvailability, error) {
	var out []models.SpecificAvailability
	for _, o := range s.overrides {
		if contains(ids, o.SubstituteID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *availabilityRepoStub) CreatePeriod(ctx context.Context, period *models.AvailabilityPeriod) error {
	period.ID = fmt.Sprintf("period-%d", len(s.created)+1)
	s.created = append(s.created, period)
	return nil
}

func (s *availabilityRepoStub) UpsertOverride(ctx context.Context, override *models.SpecificAvailability) error {
	override.ID = fmt.Sprintf("override-%d", len(s.upserted)+1)
	s.upserted = append(s.upserted, override)
	return nil
}

type schoolRepoStub struct {
	items     map[string]*models.School
	listCalls int
}

func (s *schoolRepoStub) FindByID(ctx context.Context, id string) (*models.School, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (s *schoolRepoStub) ListByIDs(ctx context.Context, ids []string) ([]models.School, error) {
	s.listCalls++
	var out []models.School
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *schoolRepoStub) UpdateDeadline(ctx context.Context, id string, days *float64) error {
	item, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.ReplacementDeadlineDays = days
	return nil
}

type cacheRepoStub struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: map[string][]byte{}}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	return nil
}

func (s *cacheRepoStub) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
		s.deleted = append(s.deleted, key)
	}
	return nil
}

type queueStub struct {
	submitted []string
	err       error
}

func (q *queueStub) Submit(kind, key string) error {
	if q.err != nil {
		return q.err
	}
	q.submitted = append(q.submitted, kind+":"+key)
	return nil
}

// fixture is a collaborator working at two schools with one week-long absence.
type fixture struct {
	absences     *absenceRepoStub
	presence     *presenceRepoStub
	assignments  *assignmentRepoStub
	substitutes  *substituteRepoStub
	availability *availabilityRepoStub
	schools      *schoolRepoStub
}

func float(v float64) *float64 { return &v }

func newFixture(t *testing.T) *fixture {
	return &fixture{
		absences: newAbsenceRepoStub(
			models.Absence{ID: "abs-1", OwnerID: "col-1", OwnerType: models.OwnerCollaborator, StartDate: day(t, "2024-03-04"), EndDate: day(t, "2024-03-08"), TimeSlot: models.FullDay, Motif: "Formation"},
			models.Absence{ID: "abs-2", OwnerID: "col-2", OwnerType: models.OwnerCollaborator, StartDate: day(t, "2024-03-01"), EndDate: day(t, "2024-03-01"), TimeSlot: models.FullDay, Motif: "Maladie"},
			models.Absence{ID: "abs-sub", OwnerID: "sub-3", OwnerType: models.OwnerSubstitute, StartDate: day(t, "2024-03-07"), EndDate: day(t, "2024-03-07"), TimeSlot: models.FullDay, Motif: "Congé"},
		),
		presence: &presenceRepoStub{items: map[string][]models.PresenceSchedule{
			"col-1": {
				{ID: "ps-1", CollaboratorID: "col-1", SchoolID: "school-a", Slots: models.WeeklyPattern{{Weekday: models.Monday, TimeSlot: models.FullDay}, {Weekday: models.Tuesday, TimeSlot: models.Morning}}},
				{ID: "ps-2", CollaboratorID: "col-1", SchoolID: "school-b", Slots: models.WeeklyPattern{{Weekday: models.Thursday, TimeSlot: models.Afternoon}}},
			},
			"col-2": {
				{ID: "ps-3", CollaboratorID: "col-2", SchoolID: "school-b", Slots: models.WeeklyPattern{{Weekday: models.Friday, TimeSlot: models.Morning}}},
			},
		}},
		assignments: &assignmentRepoStub{items: []models.Assignment{
			{ID: "asg-a", SubstituteID: "sub-1", CollaboratorID: "col-1", SchoolID: "school-a", StartDate: day(t, "2024-03-04"), EndDate: day(t, "2024-03-05"), TimeSlot: models.FullDay},
		}},
		substitutes: &substituteRepoStub{items: []models.Substitute{
			{ID: "sub-1", FirstName: "Amélie", LastName: "Durand", Active: true},
			{ID: "sub-2", FirstName: "Bruno", LastName: "Martin", Active: true},
			{ID: "sub-3", FirstName: "Chloé", LastName: "bernard", Active: true},
		}},
		availability: &availabilityRepoStub{
			periods: []models.AvailabilityPeriod{
				{ID: "p-2", SubstituteID: "sub-2", StartDate: day(t, "2024-01-01"), EndDate: day(t, "2024-06-30"), Active: true, Recurrences: models.WeeklyPattern{{Weekday: models.Thursday, TimeSlot: models.FullDay}}},
				{ID: "p-3", SubstituteID: "sub-3", StartDate: day(t, "2024-01-01"), EndDate: day(t, "2024-06-30"), Active: true, Recurrences: models.WeeklyPattern{{Weekday: models.Thursday, TimeSlot: models.Afternoon}}},
			},
		},
		schools: &schoolRepoStub{items: map[string]*models.School{
			"school-a": {ID: "school-a", Name: "Les Tilleuls", ReplacementDeadlineDays: float(2)},
			"school-b": {ID: "school-b", Name: "Jean Jaurès", ReplacementDeadlineDays: float(1)},
		}},
	}
}

func (f *fixture) coverage() *CoverageService {
	return NewCoverageService(f.absences, f.presence, f.assignments, f.substitutes, f.availability, NewMetricsService(), nil)
}
