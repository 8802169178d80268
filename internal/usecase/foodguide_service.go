package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nutriswap/backend/internal/domain"
)

// PlateReport is a user's plate split by food guide section over a period
type PlateReport struct {
	TotalGrams  float64                     `json:"totalGrams"`
	Proportions map[domain.Category]float64 `json:"proportions"`
	Comparison  []domain.CategoryComparison `json:"comparison"`
}

// FoodGuideService measures logged meals against the food guide plate
type FoodGuideService struct {
	profiles *ProfileService
	meals    domain.MealLogStore
}

// NewFoodGuideService creates a food guide service
func NewFoodGuideService(profiles *ProfileService, meals domain.MealLogStore) *FoodGuideService {
	return &FoodGuideService{profiles: profiles, meals: meals}
}

// PlateProportions returns the percentage of logged grams falling in each
// plate section between start and end. Returns domain.ErrNotFound when the
// user logged nothing in the range.
func (s *FoodGuideService) PlateProportions(ctx context.Context, userID string, start, end time.Time) (*PlateReport, error) {
	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidRequest)
	}

	rows, err := s.meals.IngredientsForUserDateRange(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	grams := make(map[domain.Category]float64)
	total := 0.0
	for _, row := range rows {
		profile, err := s.profiles.GetProfile(ctx, row.FoodID)
		if err != nil {
			return nil, err
		}
		grams[domain.Classify(profile.Food.GroupID)] += row.QuantityGrams
		total += row.QuantityGrams
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no meals logged by %s in range", domain.ErrNotFound, userID)
	}

	proportions := make(map[domain.Category]float64, len(grams))
	for c, g := range grams {
		proportions[c] = 100 * g / total
	}

	return &PlateReport{
		TotalGrams:  total,
		Proportions: proportions,
		Comparison:  domain.CompareToTargets(proportions),
	}, nil
}
