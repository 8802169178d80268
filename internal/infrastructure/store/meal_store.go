package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nutriswap/backend/internal/domain"

	"gorm.io/gorm"
)

// MealLogStore persists logged meals and their ingredients
type MealLogStore struct {
	db *gorm.DB
}

// NewMealLogStore creates a meal log store over db
func NewMealLogStore(db *gorm.DB) *MealLogStore {
	return &MealLogStore{db: db}
}

var _ domain.MealLogStore = (*MealLogStore)(nil)

// SaveMeal appends meal and its ingredients in one transaction. A second
// breakfast, lunch or dinner for the same user and date fails with
// domain.ErrConflict.
func (s *MealLogStore) SaveMeal(ctx context.Context, meal *domain.Meal) error {
	row := LoggedMeal{
		UserID:   meal.UserID,
		MealType: string(meal.Type),
		MealDate: domain.Day(meal.Date),
		SlotKey:  slotKey(meal),
	}
	for _, ing := range meal.Ingredients {
		row.Ingredients = append(row.Ingredients, MealIngredient{
			FoodID:        ing.FoodID,
			QuantityGrams: ing.QuantityGrams,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return wrapErr("save meal", err)
	}
	return nil
}

func slotKey(meal *domain.Meal) *string {
	if meal.Type == domain.Snack {
		return nil
	}
	key := fmt.Sprintf("%s|%s|%s", meal.UserID, meal.Type, domain.Day(meal.Date).Format(domain.DateLayout))
	return &key
}

// GetMeal returns the ingredients logged for one meal slot. Several snack
// entries on the same day are returned as one meal.
func (s *MealLogStore) GetMeal(ctx context.Context, userID string, mealType domain.MealType, date time.Time) (*domain.Meal, error) {
	day := domain.Day(date)

	var rows []LoggedMeal
	if err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ? AND meal_type = ? AND meal_date >= ? AND meal_date < ?",
			userID, string(mealType), day, day.AddDate(0, 0, 1)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapErr("get meal", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no %s for %s on %s", domain.ErrNotFound, mealType, userID, day.Format(domain.DateLayout))
	}

	meal := &domain.Meal{UserID: userID, Type: mealType, Date: day}
	for _, r := range rows {
		for _, ing := range r.Ingredients {
			meal.Ingredients = append(meal.Ingredients, domain.Ingredient{
				FoodID:        ing.FoodID,
				QuantityGrams: ing.QuantityGrams,
			})
		}
	}
	return meal, nil
}

type loggedRow struct {
	ID            uint
	MealDate      time.Time
	MealType      string
	FoodID        int
	QuantityGrams float64
	WasSwapped    bool
}

// IngredientsForUserDateRange returns every ingredient userID logged within r, ordered by date
func (s *MealLogStore) IngredientsForUserDateRange(ctx context.Context, userID string, r domain.DateRange) ([]domain.LoggedIngredient, error) {
	var rows []loggedRow
	if err := s.db.WithContext(ctx).
		Table("meal_ingredients AS mi").
		Select("mi.id AS id, lm.meal_date AS meal_date, lm.meal_type AS meal_type, " +
			"mi.food_id AS food_id, mi.quantity_grams AS quantity_grams, mi.was_swapped AS was_swapped").
		Joins("JOIN logged_meals lm ON lm.id = mi.meal_id").
		Where("lm.user_id = ? AND lm.meal_date >= ? AND lm.meal_date < ?",
			userID, r.Start, r.End.AddDate(0, 0, 1)).
		Order("lm.meal_date ASC, mi.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrapErr("ingredients for date range", err)
	}

	out := make([]domain.LoggedIngredient, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LoggedIngredient{
			ID:            row.ID,
			Date:          domain.Day(row.MealDate),
			MealType:      domain.MealType(row.MealType),
			FoodID:        row.FoodID,
			QuantityGrams: row.QuantityGrams,
			WasSwapped:    row.WasSwapped,
		})
	}
	return out, nil
}

// ReplaceIngredientFoods swaps the food of each logged ingredient and marks
// it swapped, in one transaction. An unknown ingredient rolls back the whole
// batch with domain.ErrNotFound.
func (s *MealLogStore) ReplaceIngredientFoods(ctx context.Context, replacements []domain.Replacement) error {
	if len(replacements) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range replacements {
			res := tx.Model(&MealIngredient{}).
				Where("id = ?", r.IngredientID).
				Updates(map[string]any{"food_id": r.FoodID, "was_swapped": true})
			if res.Error != nil {
				return wrapErr(fmt.Sprintf("replace ingredient %d", r.IngredientID), res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: ingredient %d", domain.ErrNotFound, r.IngredientID)
			}
		}
		return nil
	})
}
