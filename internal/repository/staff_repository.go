package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// SubstituteRepository reads the substitute pool.
type SubstituteRepository struct {
	db *sqlx.DB
}

// NewSubstituteRepository constructs a SubstituteRepository.
func NewSubstituteRepository(db *sqlx.DB) *SubstituteRepository {
	return &SubstituteRepository{db: db}
}

// ListActive returns every active substitute.
func (r *SubstituteRepository) ListActive(ctx context.Context) ([]models.Substitute, error) {
	const query = `SELECT id, first_name, last_name, email, phone, active, created_at, updated_at FROM substitutes WHERE active = TRUE ORDER BY last_name, first_name, id`
	var subs []models.Substitute
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("list active substitutes: %w", err)
	}
	return subs, nil
}

// FindByID fetches a substitute.
func (r *SubstituteRepository) FindByID(ctx context.Context, id string) (*models.Substitute, error) {
	const query = `SELECT id, first_name, last_name, email, phone, active, created_at, updated_at FROM substitutes WHERE id = $1`
	var sub models.Substitute
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CollaboratorRepository reads collaborators.
type CollaboratorRepository struct {
	db *sqlx.DB
}

// NewCollaboratorRepository constructs a CollaboratorRepository.
func NewCollaboratorRepository(db *sqlx.DB) *CollaboratorRepository {
	return &CollaboratorRepository{db: db}
}

// FindByID fetches a collaborator.
func (r *CollaboratorRepository) FindByID(ctx context.Context, id string) (*models.Collaborator, error) {
	const query = `SELECT id, first_name, last_name, email, phone, active, created_at, updated_at FROM collaborators WHERE id = $1`
	var collab models.Collaborator
	if err := r.db.GetContext(ctx, &collab, query, id); err != nil {
		return nil, err
	}
	return &collab, nil
}
