package professional

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/repository"
	apperrors "github.com/omnisaude/saude-api/pkg/errors"
)

const (
	cacheTTL       = 5 * time.Minute
	cacheCleanup   = 15 * time.Minute
	cacheKeyPrefix = "professional:"
)

// Service serves professional records. Reads go through a short-lived
// in-process cache since conflict checks and feeds hit the same
// professionals repeatedly.
type Service struct {
	repo  repository.ProfessionalRepository
	cache *cache.Cache
}

func NewService(repo repository.ProfessionalRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) CreateProfessional(ctx context.Context, professional *model.Professional) error {
	if professional.Name == "" || professional.Specialty == "" || professional.Registration == "" {
		return apperrors.BadRequest("name, specialty and registration are required", nil)
	}

	if err := s.repo.Create(ctx, professional); err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	key := cacheKeyPrefix + id.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Professional), nil
	}

	professional, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("professional", err)
		}
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}

	s.cache.Set(key, professional, cache.DefaultExpiration)
	return professional, nil
}

func (s *Service) UpdateProfessional(ctx context.Context, id uuid.UUID, req *model.UpdateProfessionalRequest) (*model.Professional, error) {
	professional, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("professional", err)
		}
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}

	if req.Name != nil {
		professional.Name = *req.Name
	}
	if req.Specialty != nil {
		professional.Specialty = *req.Specialty
	}
	if req.Email != nil {
		professional.Email = *req.Email
	}
	if req.Phone != nil {
		professional.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, professional); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("professional", err)
		}
		return nil, fmt.Errorf("failed to update professional: %w", err)
	}

	s.cache.Delete(cacheKeyPrefix + id.String())
	return professional, nil
}

func (s *Service) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("professional", err)
		}
		return fmt.Errorf("failed to delete professional: %w", err)
	}

	s.cache.Delete(cacheKeyPrefix + id.String())
	return nil
}

func (s *Service) ListProfessionals(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error) {
	professionals, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return professionals, nil
}
