package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var staffColumns = []string{"id", "first_name", "last_name", "email", "phone", "active", "created_at", "updated_at"}

func TestSubstituteRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSubstituteRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM substitutes WHERE active = TRUE").
		WillReturnRows(sqlmock.NewRows(staffColumns).
			AddRow("sub-1", "Amélie", "Durand", "amelie@example.org", nil, true, now, now).
			AddRow("sub-2", "Bruno", "Martin", nil, nil, true, now, now))

	subs, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.NotNil(t, subs[0].Email)
	assert.Equal(t, "amelie@example.org", *subs[0].Email)
	assert.Nil(t, subs[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollaboratorRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCollaboratorRepository(db)

	mock.ExpectQuery("FROM collaborators WHERE id = \\$1").WithArgs("col-x").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "col-x")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
