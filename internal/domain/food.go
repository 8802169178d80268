package domain

// FoodRecord is an immutable catalog entry
type FoodRecord struct {
	ID          int    `json:"id"`
	GroupID     int    `json:"groupId"`
	DisplayName string `json:"displayName"`
}

// NutrientAmount is the amount of one nutrient in 100 g of a food
type NutrientAmount struct {
	FoodID      int        `json:"foodId"`
	NutrientID  NutrientID `json:"nutrient"`
	ValuePer100 float64    `json:"valuePer100g"`
}

// NutrientProfile is a food together with its full per-100 g nutrient vector
type NutrientProfile struct {
	Food    FoodRecord     `json:"food"`
	Amounts NutrientTotals `json:"amountsPer100g"`
}

// NutrientTotals maps a nutrient to an aggregated value.
// Values are sums over a meal or a period and are never negative.
type NutrientTotals map[NutrientID]float64

// Add accumulates value under id
func (t NutrientTotals) Add(id NutrientID, value float64) {
	t[id] += value
}

// Merge adds every value of other into t
func (t NutrientTotals) Merge(other NutrientTotals) {
	for id, v := range other {
		t[id] += v
	}
}

// Scale returns a copy of t with every value multiplied by factor
func (t NutrientTotals) Scale(factor float64) NutrientTotals {
	out := make(NutrientTotals, len(t))
	for id, v := range t {
		out[id] = v * factor
	}
	return out
}

// FoodMatch is a search hit with its relevance score (0-100)
type FoodMatch struct {
	Food          FoodRecord `json:"food"`
	Score         float64    `json:"score"`
	MatchedTokens []string   `json:"matchedTokens,omitempty"`
}
