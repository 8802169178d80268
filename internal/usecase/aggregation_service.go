package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nutriswap/backend/internal/domain"
	applog "github.com/nutriswap/backend/internal/log"
)

// ScalingPolicy decides how an ingredient's quantity weighs its per-100 g profile
type ScalingPolicy string

const (
	// ScaleByQuantity multiplies per-100 g values by grams/100
	ScaleByQuantity ScalingPolicy = "quantity"
	// ScalePer100g counts every ingredient as 100 g regardless of quantity
	ScalePer100g ScalingPolicy = "per100g"
)

// ParseScalingPolicy accepts "quantity" or "per100g"; empty means quantity
func ParseScalingPolicy(s string) (ScalingPolicy, error) {
	switch ScalingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScaleByQuantity:
		return ScaleByQuantity, nil
	case ScalePer100g:
		return ScalePer100g, nil
	}
	return "", fmt.Errorf("%w: unknown scaling policy %q", domain.ErrInvalidRequest, s)
}

func (p ScalingPolicy) factor(grams float64) float64 {
	if p == ScalePer100g {
		return 1
	}
	return grams / 100
}

// AggregationServiceConfig holds configuration for the aggregation service
type AggregationServiceConfig struct {
	Scaling ScalingPolicy
}

// AggregationService sums nutrients over meals and over a user's logged days.
// Meal-log results are never cached.
type AggregationService struct {
	profiles *ProfileService
	meals    domain.MealLogStore
	scaling  ScalingPolicy
}

// NewAggregationService creates an aggregation service
func NewAggregationService(profiles *ProfileService, meals domain.MealLogStore, config AggregationServiceConfig) *AggregationService {
	scaling := config.Scaling
	if scaling == "" {
		scaling = ScaleByQuantity
	}
	return &AggregationService{profiles: profiles, meals: meals, scaling: scaling}
}

// Scaling returns the active scaling policy
func (s *AggregationService) Scaling() ScalingPolicy {
	return s.scaling
}

// DailyIntake is the nutrient totals of one calendar day
type DailyIntake struct {
	Date   time.Time             `json:"date"`
	Totals domain.NutrientTotals `json:"totals"`
}

// ImpactDay compares one day's intake from original and swapped ingredients
type ImpactDay struct {
	Date     time.Time `json:"date"`
	Original float64   `json:"original"`
	Swapped  float64   `json:"swapped"`
}

// TotalsForIngredients returns the summed nutrient vector of a meal.
// An empty list yields empty totals.
func (s *AggregationService) TotalsForIngredients(ctx context.Context, ingredients []domain.Ingredient) (domain.NutrientTotals, error) {
	totals := make(domain.NutrientTotals)
	for _, ing := range ingredients {
		if ing.QuantityGrams <= 0 {
			return nil, fmt.Errorf("%w: quantity of food %d must be positive", domain.ErrInvalidRequest, ing.FoodID)
		}
		profile, err := s.profiles.GetProfile(ctx, ing.FoodID)
		if err != nil {
			return nil, err
		}
		totals.Merge(profile.Amounts.Scale(s.scaling.factor(ing.QuantityGrams)))
	}
	return totals, nil
}

// DailyTotals returns per-day totals for a user, ordered by date. Only days
// with logged data appear. A non-empty nutrient label restricts the totals
// to that nutrient and drops days without a value for it.
func (s *AggregationService) DailyTotals(ctx context.Context, userID, nutrient string, start, end time.Time) ([]DailyIntake, error) {
	r, err := s.validate(userID, start, end)
	if err != nil {
		return nil, err
	}
	var only domain.NutrientID
	if nutrient != "" {
		if only, err = domain.Resolve(nutrient); err != nil {
			return nil, err
		}
	}

	rows, err := s.meals.IngredientsForUserDateRange(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]domain.NutrientTotals)
	for _, row := range rows {
		contribution, err := s.contribution(ctx, row)
		if err != nil {
			return nil, err
		}
		day := domain.Day(row.Date)
		totals, ok := byDay[day]
		if !ok {
			totals = make(domain.NutrientTotals)
			byDay[day] = totals
		}
		if only != 0 {
			if v, ok := contribution[only]; ok {
				totals.Add(only, v)
			}
			continue
		}
		totals.Merge(contribution)
	}

	out := make([]DailyIntake, 0, len(byDay))
	for day, totals := range byDay {
		if len(totals) == 0 {
			continue
		}
		out = append(out, DailyIntake{Date: day, Totals: totals})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// PeriodAverages averages each nutrient over the days that have a value for
// it, not over every day in the range.
func (s *AggregationService) PeriodAverages(ctx context.Context, userID string, start, end time.Time) (domain.NutrientTotals, error) {
	days, err := s.DailyTotals(ctx, userID, "", start, end)
	if err != nil {
		return nil, err
	}

	sums := make(domain.NutrientTotals)
	counts := make(map[domain.NutrientID]int)
	for _, d := range days {
		for id, v := range d.Totals {
			sums.Add(id, v)
			counts[id]++
		}
	}

	averages := make(domain.NutrientTotals, len(sums))
	for id, sum := range sums {
		averages[id] = sum / float64(counts[id])
	}
	applog.Debug(ctx, "period averages computed", "user", userID, "days", len(days))
	return averages, nil
}

// SwapImpact splits each day's intake of one nutrient between ingredients
// still as logged and ingredients that were swapped
func (s *AggregationService) SwapImpact(ctx context.Context, userID, nutrient string, start, end time.Time) ([]ImpactDay, error) {
	r, err := s.validate(userID, start, end)
	if err != nil {
		return nil, err
	}
	id, err := domain.Resolve(nutrient)
	if err != nil {
		return nil, err
	}

	rows, err := s.meals.IngredientsForUserDateRange(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*ImpactDay)
	for _, row := range rows {
		contribution, err := s.contribution(ctx, row)
		if err != nil {
			return nil, err
		}
		v, ok := contribution[id]
		if !ok {
			continue
		}
		day := domain.Day(row.Date)
		impact, ok := byDay[day]
		if !ok {
			impact = &ImpactDay{Date: day}
			byDay[day] = impact
		}
		if row.WasSwapped {
			impact.Swapped += v
		} else {
			impact.Original += v
		}
	}

	out := make([]ImpactDay, 0, len(byDay))
	for _, impact := range byDay {
		out = append(out, *impact)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// PercentOfRecommended expresses each known nutrient as a percentage of its
// recommended daily amount
func PercentOfRecommended(totals domain.NutrientTotals) map[domain.NutrientID]float64 {
	out := make(map[domain.NutrientID]float64, len(totals))
	for id, v := range totals {
		info, ok := id.Info()
		if !ok || info.RecommendedDaily <= 0 {
			continue
		}
		out[id] = 100 * v / info.RecommendedDaily
	}
	return out
}

func (s *AggregationService) validate(userID string, start, end time.Time) (domain.DateRange, error) {
	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return domain.DateRange{}, fmt.Errorf("%w: user is required", domain.ErrInvalidRequest)
	}
	return r, nil
}

func (s *AggregationService) contribution(ctx context.Context, row domain.LoggedIngredient) (domain.NutrientTotals, error) {
	profile, err := s.profiles.GetProfile(ctx, row.FoodID)
	if err != nil {
		return nil, err
	}
	return profile.Amounts.Scale(s.scaling.factor(row.QuantityGrams)), nil
}
