package user

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/repository"
)

const (
	providersCacheKey = "providers"
	providersCacheTTL = 60 * time.Second
)

type Service struct {
	userRepo repository.UserRepository
	cache    *cache.Cache
}

func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		cache:    cache.New(providersCacheTTL, 5*time.Minute),
	}
}

// ListProviders returns the active provider directory. The listing is
// cached briefly; slot resolution never goes through this path and is
// always served fresh.
func (s *Service) ListProviders(ctx context.Context) ([]*model.User, error) {
	if cached, found := s.cache.Get(providersCacheKey); found {
		return cached.([]*model.User), nil
	}

	providers, err := s.userRepo.ListByRole(ctx, model.RoleProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	s.cache.Set(providersCacheKey, providers, cache.DefaultExpiration)
	return providers, nil
}
