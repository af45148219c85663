package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
)

func newAssignmentService(f *fixture, queue *queueStub) *AssignmentService {
	collaborators := &collaboratorRepoStub{items: map[string]models.Collaborator{
		"col-1": {ID: "col-1", FirstName: "Denise", LastName: "Petit", Active: true},
	}}
	return NewAssignmentService(f.assignments, f.substitutes, collaborators, f.absences, queue, nil, nil)
}

func validAssignment() dto.CreateAssignmentRequest {
	return dto.CreateAssignmentRequest{
		SubstituteID:   "sub-2",
		CollaboratorID: "col-1",
		SchoolID:       "school-b",
		StartDate:      "2024-03-07",
		EndDate:        "2024-03-07",
		TimeSlot:       "AFTERNOON",
	}
}

func TestAssignmentServiceCreateQueuesSync(t *testing.T) {
	f := newFixture(t)
	queue := &queueStub{}
	svc := newAssignmentService(f, queue)

	resp, err := svc.Create(context.Background(), validAssignment())
	require.NoError(t, err)
	assert.Equal(t, "asg-1", resp.Assignment.ID)
	assert.Equal(t, models.Afternoon, resp.Assignment.TimeSlot)
	assert.Equal(t, []string{"abs-1"}, resp.SyncedAbsences)
	assert.Equal(t, []string{JobSyncReplaced + ":abs-1"}, queue.submitted)
}

func TestAssignmentServiceCreateSurvivesQueueFailure(t *testing.T) {
	f := newFixture(t)
	svc := newAssignmentService(f, &queueStub{err: errors.New("queue stopped")})

	resp, err := svc.Create(context.Background(), validAssignment())
	require.NoError(t, err)
	assert.Empty(t, resp.SyncedAbsences)
	assert.Len(t, f.assignments.created, 1)
}

func TestAssignmentServiceCreateValidation(t *testing.T) {
	f := newFixture(t)
	svc := newAssignmentService(f, &queueStub{})
	ctx := context.Background()

	req := validAssignment()
	req.TimeSlot = "EVENING"
	_, err := svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validAssignment()
	req.EndDate = "2024-03-01"
	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)

	req = validAssignment()
	req.CollaboratorID = "col-x"
	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.assignments.created)
}
