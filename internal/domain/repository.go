package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NutrientStore is the read-only reference catalog.
// Missing rows are reported as ErrNotFound, store failures as ErrDataAccess.
type NutrientStore interface {
	GetFood(ctx context.Context, foodID int) (*FoodRecord, error)
	GetFoods(ctx context.Context, foodIDs []int) ([]FoodRecord, error)
	GetFoodGroup(ctx context.Context, foodID int) (int, error)
	GetNutrientValue(ctx context.Context, foodID int, nutrient NutrientID) (float64, error)
	GetNutrientVector(ctx context.Context, foodID int) (NutrientTotals, error)
	ListFoodsInGroup(ctx context.Context, groupID int) ([]int, error)
	ListAllFoodsWithNutrient(ctx context.Context, nutrient NutrientID) ([]NutrientAmount, error)
	ListGroupNutrientValues(ctx context.Context, groupID int, nutrient NutrientID) ([]NutrientAmount, error)
	SearchFoods(ctx context.Context, term string, limit int) ([]FoodRecord, error)
}

// MealLogStore is the append-mostly log of eaten ingredients
type MealLogStore interface {
	SaveMeal(ctx context.Context, meal *Meal) error
	GetMeal(ctx context.Context, userID string, mealType MealType, date time.Time) (*Meal, error)
	IngredientsForUserDateRange(ctx context.Context, userID string, r DateRange) ([]LoggedIngredient, error)
	// ReplaceIngredientFoods applies every replacement or none of them
	ReplaceIngredientFoods(ctx context.Context, replacements []Replacement) error
}
