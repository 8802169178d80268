package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutriswap/backend/internal/domain"
)

func TestNewProfileService(t *testing.T) {
	t.Run("uses default TTL when zero", func(t *testing.T) {
		svc := NewProfileService(NewMockNutrientStore(), nil, ProfileServiceConfig{})
		if svc.cacheTTL != 24*time.Hour {
			t.Errorf("cacheTTL = %v, want 24h", svc.cacheTTL)
		}
	})

	t.Run("uses provided TTL", func(t *testing.T) {
		svc := NewProfileService(NewMockNutrientStore(), nil, ProfileServiceConfig{CacheTTL: time.Hour})
		if svc.cacheTTL != time.Hour {
			t.Errorf("cacheTTL = %v, want 1h", svc.cacheTTL)
		}
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("loads from store and caches", func(t *testing.T) {
		catalog := newTestCatalog()
		cache := NewMockCacheRepository()
		svc := NewProfileService(catalog, cache, ProfileServiceConfig{})

		profile, err := svc.GetProfile(ctx, 2)
		if err != nil {
			t.Fatalf("GetProfile() error: %v", err)
		}
		if profile.Food.DisplayName != "Chicken, breast, roasted" {
			t.Errorf("DisplayName = %q", profile.Food.DisplayName)
		}
		if profile.Amounts[domain.NutrientProtein] != 15 {
			t.Errorf("Protein = %v, want 15", profile.Amounts[domain.NutrientProtein])
		}
		if !cache.setCalled {
			t.Error("expected profile to be cached")
		}
		if _, ok := cache.data["profile:2"]; !ok {
			t.Error("cache key profile:2 not written")
		}
	})

	t.Run("serves repeat lookups from cache", func(t *testing.T) {
		catalog := newTestCatalog()
		svc := NewProfileService(catalog, NewMockCacheRepository(), ProfileServiceConfig{})

		for i := 0; i < 3; i++ {
			if _, err := svc.GetProfile(ctx, 1); err != nil {
				t.Fatalf("GetProfile() error: %v", err)
			}
		}
		if catalog.vectorCalls != 1 {
			t.Errorf("store read %d times, want 1", catalog.vectorCalls)
		}
	})

	t.Run("works without a cache", func(t *testing.T) {
		catalog := newTestCatalog()
		svc := NewProfileService(catalog, nil, ProfileServiceConfig{})

		for i := 0; i < 2; i++ {
			if _, err := svc.GetProfile(ctx, 1); err != nil {
				t.Fatalf("GetProfile() error: %v", err)
			}
		}
		if catalog.vectorCalls != 2 {
			t.Errorf("store read %d times, want 2", catalog.vectorCalls)
		}
	})

	t.Run("cache errors fall through to the store", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = errors.New("cache down")
		cache.setError = errors.New("cache down")
		svc := NewProfileService(newTestCatalog(), cache, ProfileServiceConfig{})

		if _, err := svc.GetProfile(ctx, 1); err != nil {
			t.Errorf("GetProfile() error = %v, want nil", err)
		}
	})

	t.Run("ignores foreign cache values", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["profile:1"] = "garbage"
		svc := NewProfileService(newTestCatalog(), cache, ProfileServiceConfig{})

		profile, err := svc.GetProfile(ctx, 1)
		if err != nil || profile.Food.ID != 1 {
			t.Errorf("GetProfile() = %+v, %v", profile, err)
		}
	})

	t.Run("unknown food", func(t *testing.T) {
		svc := NewProfileService(newTestCatalog(), NewMockCacheRepository(), ProfileServiceConfig{})
		_, err := svc.GetProfile(ctx, 404)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestNutrientValue(t *testing.T) {
	svc := NewProfileService(newTestCatalog(), nil, ProfileServiceConfig{})
	ctx := context.Background()

	v, err := svc.NutrientValue(ctx, 10, domain.NutrientSugar)
	if err != nil || v != 10.4 {
		t.Errorf("NutrientValue() = %v, %v; want 10.4", v, err)
	}

	_, err = svc.NutrientValue(ctx, 10, domain.NutrientProtein)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
