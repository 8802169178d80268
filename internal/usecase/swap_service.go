package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nutriswap/backend/internal/domain"
	applog "github.com/nutriswap/backend/internal/log"
)

// SwapService finds single-nutrient replacement foods and applies them to
// logged meals
type SwapService struct {
	store domain.NutrientStore
	meals domain.MealLogStore
}

// NewSwapService creates a swap service. meals may be nil when only
// suggestions are needed.
func NewSwapService(store domain.NutrientStore, meals domain.MealLogStore) *SwapService {
	return &SwapService{store: store, meals: meals}
}

// SuggestSwap returns the food in the same group as foodID whose value of the
// goal nutrient is closest to the target (original value moved by the goal
// amount) while strictly crossing it. Ties go to the lowest food id.
// Returns domain.ErrNoMatch when the food is unknown, carries no value for
// the nutrient, or no candidate qualifies.
func (s *SwapService) SuggestSwap(ctx context.Context, foodID int, goal domain.SwapGoal) (*domain.FoodRecord, error) {
	resolved, err := goal.Resolve()
	if err != nil {
		return nil, err
	}
	return s.suggest(ctx, foodID, resolved)
}

func (s *SwapService) suggest(ctx context.Context, foodID int, goal domain.ResolvedGoal) (*domain.FoodRecord, error) {
	original, err := s.store.GetNutrientValue(ctx, foodID, goal.Nutrient)
	if err != nil {
		return nil, noMatchIfMissing(err, "food %d has no %s value", foodID, goal.Nutrient)
	}
	groupID, err := s.store.GetFoodGroup(ctx, foodID)
	if err != nil {
		return nil, noMatchIfMissing(err, "food %d has no group", foodID)
	}

	target := original - goal.Amount
	if goal.Direction == domain.Increase {
		target = original + goal.Amount
	}

	// foods of the group without a value for the nutrient are not returned
	candidates, err := s.store.ListGroupNutrientValues(ctx, groupID, goal.Nutrient)
	if err != nil {
		return nil, err
	}

	bestID := -1
	bestDistance := math.Inf(1)
	for _, c := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		id, value := c.FoodID, c.ValuePer100
		if id == foodID {
			continue
		}
		if !goal.Direction.Satisfies(value, target) {
			continue
		}

		distance := math.Abs(value - target)
		if distance < bestDistance || (distance == bestDistance && id < bestID) {
			bestID = id
			bestDistance = distance
		}
	}

	if bestID < 0 {
		return nil, fmt.Errorf("%w: no food in group %d %ss %s past %g",
			domain.ErrNoMatch, groupID, goal.Direction, goal.Nutrient, target)
	}

	food, err := s.store.GetFood(ctx, bestID)
	if err != nil {
		return nil, err
	}
	applog.Debug(ctx, "swap suggested",
		"food_id", foodID, "replacement_id", bestID, "nutrient", goal.Nutrient.String(), "target", target)
	return food, nil
}

// AppliedSwap records one logged ingredient that was replaced
type AppliedSwap struct {
	IngredientID   uint              `json:"ingredientId"`
	Date           time.Time         `json:"date"`
	MealType       domain.MealType   `json:"mealType"`
	OriginalFoodID int               `json:"originalFoodId"`
	Replacement    domain.FoodRecord `json:"replacement"`
	QuantityGrams  float64           `json:"quantityGrams"`
	Before         float64           `json:"before"`
	After          float64           `json:"after"`
}

// ApplyResult summarizes a bulk swap over a user's meals
type ApplyResult struct {
	Nutrient    string        `json:"nutrient"`
	Unit        string        `json:"unit"`
	Swaps       []AppliedSwap `json:"swaps"`
	TotalBefore float64       `json:"totalBefore"`
	TotalAfter  float64       `json:"totalAfter"`
}

// ApplySwaps replaces every not-yet-swapped ingredient a user logged between
// start and end with the suggestion for goal, and marks it swapped.
// Ingredients without a value for the nutrient or without a suggestion are
// left unchanged. Before and after amounts are scaled by quantity.
// Replacements are written together once all suggestions are known, so an
// error leaves the meal log as it was.
func (s *SwapService) ApplySwaps(ctx context.Context, userID string, goal domain.SwapGoal, start, end time.Time) (*ApplyResult, error) {
	if s.meals == nil {
		return nil, fmt.Errorf("%w: meal log unavailable", domain.ErrDataAccess)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidRequest)
	}
	resolved, err := goal.Resolve()
	if err != nil {
		return nil, err
	}
	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.meals.IngredientsForUserDateRange(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	info, _ := resolved.Nutrient.Info()
	result := &ApplyResult{Nutrient: info.Label, Unit: info.Unit, Swaps: []AppliedSwap{}}
	suggestions := make(map[int]*domain.FoodRecord)

	for _, row := range rows {
		if row.WasSwapped {
			continue
		}
		before, err := s.store.GetNutrientValue(ctx, row.FoodID, resolved.Nutrient)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		replacement, seen := suggestions[row.FoodID]
		if !seen {
			replacement, err = s.suggest(ctx, row.FoodID, resolved)
			if err != nil && !errors.Is(err, domain.ErrNoMatch) {
				return nil, err
			}
			suggestions[row.FoodID] = replacement
		}
		if replacement == nil {
			continue
		}

		after, err := s.store.GetNutrientValue(ctx, replacement.ID, resolved.Nutrient)
		if err != nil {
			return nil, err
		}

		factor := row.QuantityGrams / 100
		swap := AppliedSwap{
			IngredientID:   row.ID,
			Date:           row.Date,
			MealType:       row.MealType,
			OriginalFoodID: row.FoodID,
			Replacement:    *replacement,
			QuantityGrams:  row.QuantityGrams,
			Before:         before * factor,
			After:          after * factor,
		}
		result.Swaps = append(result.Swaps, swap)
		result.TotalBefore += swap.Before
		result.TotalAfter += swap.After
	}

	replacements := make([]domain.Replacement, 0, len(result.Swaps))
	for _, swap := range result.Swaps {
		replacements = append(replacements, domain.Replacement{IngredientID: swap.IngredientID, FoodID: swap.Replacement.ID})
	}
	if err := s.meals.ReplaceIngredientFoods(ctx, replacements); err != nil {
		return nil, err
	}

	applog.Info(ctx, "swaps applied",
		"user", userID, "goal", goal.String(), "swapped", len(result.Swaps), "scanned", len(rows))
	return result, nil
}

// noMatchIfMissing turns a missing catalog row into domain.ErrNoMatch
func noMatchIfMissing(err error, format string, args ...interface{}) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNoMatch, fmt.Sprintf(format, args...))
	}
	return err
}
