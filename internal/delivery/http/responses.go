package http

import (
	"time"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/usecase"
)

// Dates travel as YYYY-MM-DD on the wire

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, invalid("date is required")
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, invalid("date must be YYYY-MM-DD")
	}
	return t, nil
}

type mealResponse struct {
	UserID      string              `json:"userId"`
	MealType    domain.MealType     `json:"mealType"`
	Date        string              `json:"date"`
	Ingredients []domain.Ingredient `json:"ingredients"`
}

func newMealResponse(m *domain.Meal) mealResponse {
	return mealResponse{
		UserID:      m.UserID,
		MealType:    m.Type,
		Date:        formatDate(m.Date),
		Ingredients: m.Ingredients,
	}
}

type dailyResponse struct {
	Date   string                `json:"date"`
	Totals domain.NutrientTotals `json:"totals"`
}

func newDailyResponse(days []usecase.DailyIntake) []dailyResponse {
	out := make([]dailyResponse, len(days))
	for i, d := range days {
		out[i] = dailyResponse{Date: formatDate(d.Date), Totals: d.Totals}
	}
	return out
}

type impactResponse struct {
	Date     string  `json:"date"`
	Original float64 `json:"original"`
	Swapped  float64 `json:"swapped"`
}

func newImpactResponse(days []usecase.ImpactDay) []impactResponse {
	out := make([]impactResponse, len(days))
	for i, d := range days {
		out[i] = impactResponse{Date: formatDate(d.Date), Original: d.Original, Swapped: d.Swapped}
	}
	return out
}

type appliedSwapResponse struct {
	IngredientID   uint              `json:"ingredientId"`
	Date           string            `json:"date"`
	MealType       domain.MealType   `json:"mealType"`
	OriginalFoodID int               `json:"originalFoodId"`
	Replacement    domain.FoodRecord `json:"replacement"`
	QuantityGrams  float64           `json:"quantityGrams"`
	Before         float64           `json:"before"`
	After          float64           `json:"after"`
}

type applyResponse struct {
	Nutrient    string                `json:"nutrient"`
	Unit        string                `json:"unit"`
	Swapped     int                   `json:"swapped"`
	Swaps       []appliedSwapResponse `json:"swaps"`
	TotalBefore float64               `json:"totalBefore"`
	TotalAfter  float64               `json:"totalAfter"`
}

func newApplyResponse(r *usecase.ApplyResult) applyResponse {
	swaps := make([]appliedSwapResponse, len(r.Swaps))
	for i, s := range r.Swaps {
		swaps[i] = appliedSwapResponse{
			IngredientID:   s.IngredientID,
			Date:           formatDate(s.Date),
			MealType:       s.MealType,
			OriginalFoodID: s.OriginalFoodID,
			Replacement:    s.Replacement,
			QuantityGrams:  s.QuantityGrams,
			Before:         s.Before,
			After:          s.After,
		}
	}
	return applyResponse{
		Nutrient:    r.Nutrient,
		Unit:        r.Unit,
		Swapped:     len(swaps),
		Swaps:       swaps,
		TotalBefore: r.TotalBefore,
		TotalAfter:  r.TotalAfter,
	}
}
