package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nutriswap/backend/internal/domain"
	applog "github.com/nutriswap/backend/internal/log"
)

// MealService validates and records meals in the meal log
type MealService struct {
	store domain.NutrientStore
	meals domain.MealLogStore
}

// NewMealService creates a meal service
func NewMealService(store domain.NutrientStore, meals domain.MealLogStore) *MealService {
	return &MealService{store: store, meals: meals}
}

// LogMeal checks a meal and appends it to the log. Breakfast, lunch and
// dinner can be logged once per user and date; snacks any number of times.
// The meal log rejects a concurrent duplicate with domain.ErrConflict.
func (s *MealService) LogMeal(ctx context.Context, meal *domain.Meal) error {
	if meal == nil {
		return domain.ErrInvalidRequest
	}
	meal.UserID = strings.TrimSpace(meal.UserID)
	if meal.UserID == "" {
		return fmt.Errorf("%w: user is required", domain.ErrInvalidRequest)
	}
	mealType, err := domain.ParseMealType(string(meal.Type))
	if err != nil {
		return err
	}
	meal.Type = mealType
	if meal.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidRequest)
	}
	meal.Date = domain.Day(meal.Date)
	if len(meal.Ingredients) == 0 {
		return fmt.Errorf("%w: a meal needs at least one ingredient", domain.ErrInvalidRequest)
	}

	if err := s.checkFoods(ctx, meal.Ingredients); err != nil {
		return err
	}

	if meal.Type != domain.Snack {
		_, err := s.meals.GetMeal(ctx, meal.UserID, meal.Type, meal.Date)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s on %s", domain.ErrConflict, meal.Type, meal.Date.Format(domain.DateLayout))
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}

	if err := s.meals.SaveMeal(ctx, meal); err != nil {
		return err
	}
	applog.Info(ctx, "meal logged",
		"user", meal.UserID, "type", string(meal.Type), "date", meal.Date.Format(domain.DateLayout),
		"ingredients", len(meal.Ingredients))
	return nil
}

// GetMeal returns what a user logged for one meal slot
func (s *MealService) GetMeal(ctx context.Context, userID, mealType string, date time.Time) (*domain.Meal, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidRequest)
	}
	mt, err := domain.ParseMealType(mealType)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidRequest)
	}
	return s.meals.GetMeal(ctx, strings.TrimSpace(userID), mt, domain.Day(date))
}

func (s *MealService) checkFoods(ctx context.Context, ingredients []domain.Ingredient) error {
	wanted := make(map[int]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if ing.QuantityGrams <= 0 {
			return fmt.Errorf("%w: quantity of food %d must be positive", domain.ErrInvalidRequest, ing.FoodID)
		}
		wanted[ing.FoodID] = struct{}{}
	}

	ids := make([]int, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	foods, err := s.store.GetFoods(ctx, ids)
	if err != nil {
		return err
	}
	for _, f := range foods {
		delete(wanted, f.ID)
	}
	for _, id := range ids {
		if _, missing := wanted[id]; missing {
			return fmt.Errorf("%w: unknown food %d", domain.ErrInvalidRequest, id)
		}
	}
	return nil
}
