package domain

import (
	"fmt"
	"strings"
	"time"
)

// MealType is one of the fixed meal slots of a day
type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
	Snack     MealType = "Snack"
)

// ParseMealType accepts a meal type in any case
func ParseMealType(s string) (MealType, error) {
	for _, mt := range []MealType{Breakfast, Lunch, Dinner, Snack} {
		if strings.EqualFold(string(mt), strings.TrimSpace(s)) {
			return mt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown meal type %q", ErrInvalidRequest, s)
}

// Ingredient is a quantity of a catalog food inside a meal
type Ingredient struct {
	FoodID        int     `json:"foodId" binding:"required"`
	QuantityGrams float64 `json:"quantityGrams" binding:"required"`
}

// Meal is one logged meal of a user
type Meal struct {
	UserID      string       `json:"userId" binding:"required"`
	Type        MealType     `json:"mealType" binding:"required"`
	Date        time.Time    `json:"date"`
	Ingredients []Ingredient `json:"ingredients"`
}

// LoggedIngredient is a meal-log row as returned by range queries
type LoggedIngredient struct {
	ID            uint      `json:"id"`
	Date          time.Time `json:"date"`
	MealType      MealType  `json:"mealType"`
	FoodID        int       `json:"foodId"`
	QuantityGrams float64   `json:"quantityGrams"`
	WasSwapped    bool      `json:"wasSwapped"`
}

// Replacement points a logged ingredient at another catalog food
type Replacement struct {
	IngredientID uint
	FoodID       int
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Day truncates t to its calendar date in UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and normalizes an inclusive date range
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidRange)
	}
	r := DateRange{Start: Day(start), End: Day(end)}
	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return r, nil
}

// ParseDateRange parses two YYYY-MM-DD strings into a validated range
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: bad start date %q", ErrInvalidRange, start)
	}
	e, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: bad end date %q", ErrInvalidRange, end)
	}
	return NewDateRange(s, e)
}
