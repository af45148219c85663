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

const policyCachePrefix = "policy:school:"

type schoolRepository interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.School, error)
	UpdateDeadline(ctx context.Context, id string, deadlineDays *float64) error
}

// SchoolPolicy is the cached view of a school's deadline policy.
type SchoolPolicy struct {
	SchoolID     string   `json:"school_id"`
	Name         string   `json:"name"`
	DeadlineDays *float64 `json:"deadline_days"`
}

// PolicyService serves school deadline policies, caching them when enabled.
type PolicyService struct {
	schools   schoolRepository
	cache     *CacheService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPolicyService constructs a PolicyService. cache may be nil.
func NewPolicyService(schools schoolRepository, cache *CacheService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *PolicyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyService{schools: schools, cache: cache, ttl: ttl, validator: validate, logger: logger}
}

// Policies returns the policy of each known school among ids. Unknown schools are absent
// from the result and behave as having no deadline.
func (s *PolicyService) Policies(ctx context.Context, ids []string) (map[string]SchoolPolicy, error) {
	result := make(map[string]SchoolPolicy, len(ids))
	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}

		var cached SchoolPolicy
		hit, err := s.cache.Get(ctx, policyCachePrefix+id, &cached)
		if err == nil && hit {
			result[id] = cached
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}

	schools, err := s.schools.ListByIDs(ctx, missing)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load school policies")
	}
	for _, school := range schools {
		policy := SchoolPolicy{SchoolID: school.ID, Name: school.Name, DeadlineDays: school.ReplacementDeadlineDays}
		result[school.ID] = policy
		_ = s.cache.Set(ctx, policyCachePrefix+school.ID, policy, s.ttl)
	}
	return result, nil
}

// UpdateDeadline stores a new deadline policy and evicts the cached one.
func (s *PolicyService) UpdateDeadline(ctx context.Context, schoolID string, req dto.UpdateDeadlineRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid deadline payload")
	}
	if err := s.schools.UpdateDeadline(ctx, schoolID, req.DeadlineDays); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Internal(err, "failed to update school deadline")
	}
	if err := s.cache.Invalidate(ctx, policyCachePrefix+schoolID); err != nil {
		s.logger.Warn("school policy left in cache", zap.String("school_id", schoolID), zap.Error(err))
	}

	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Internal(err, "failed to load school")
	}
	s.logger.Info("school deadline updated", zap.String("school_id", schoolID))
	return school, nil
}
