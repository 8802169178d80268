package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nutriswap/backend/internal/domain"
	applog "github.com/nutriswap/backend/internal/log"
)

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	CacheTTL time.Duration
}

// ProfileService reads per-100 g nutrient profiles from the catalog.
// Profiles are reference data, so they are cached; returned profiles are
// shared and must not be modified.
type ProfileService struct {
	store    domain.NutrientStore
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewProfileService creates a profile service. cache may be nil.
func NewProfileService(store domain.NutrientStore, cache domain.CacheRepository, config ProfileServiceConfig) *ProfileService {
	ttl := config.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &ProfileService{store: store, cache: cache, cacheTTL: ttl}
}

// GetProfile returns the food record and full nutrient vector of foodID.
// Flow: check cache -> load food and vector from the store -> cache -> return
func (s *ProfileService) GetProfile(ctx context.Context, foodID int) (*domain.NutrientProfile, error) {
	key := profileCacheKey(foodID)

	if profile := s.fromCache(ctx, key); profile != nil {
		return profile, nil
	}

	food, err := s.store.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	amounts, err := s.store.GetNutrientVector(ctx, foodID)
	if err != nil {
		return nil, err
	}

	profile := &domain.NutrientProfile{Food: *food, Amounts: amounts}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, profile, s.cacheTTL); err != nil {
			applog.Warn(ctx, "profile cache write failed", "food_id", foodID, "error", err)
		}
	}
	return profile, nil
}

// NutrientValue returns one per-100 g value of foodID
func (s *ProfileService) NutrientValue(ctx context.Context, foodID int, nutrient domain.NutrientID) (float64, error) {
	profile, err := s.GetProfile(ctx, foodID)
	if err != nil {
		return 0, err
	}
	v, ok := profile.Amounts[nutrient]
	if !ok {
		return 0, fmt.Errorf("%w: %s of food %d", domain.ErrNotFound, nutrient, foodID)
	}
	return v, nil
}

func (s *ProfileService) fromCache(ctx context.Context, key string) *domain.NutrientProfile {
	if s.cache == nil {
		return nil
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	profile, ok := value.(*domain.NutrientProfile)
	if !ok {
		applog.Warn(ctx, "unexpected value in profile cache", "key", key)
		return nil
	}
	return profile
}

func profileCacheKey(foodID int) string {
	return fmt.Sprintf("profile:%d", foodID)
}
