package domain

// Category is a Canada's Food Guide plate section
type Category string

const (
	VegetablesAndFruits Category = "Vegetables & Fruits"
	WholeGrains         Category = "Whole Grains"
	ProteinFoods        Category = "Protein Foods"
	OtherFoods          Category = "Other"
)

// Categories lists every plate section, the three targeted ones first
var Categories = []Category{VegetablesAndFruits, WholeGrains, ProteinFoods, OtherFoods}

var idealProportions = map[Category]float64{
	VegetablesAndFruits: 50,
	WholeGrains:         25,
	ProteinFoods:        25,
}

// Classify maps a CNF food group id onto a plate section. Unmapped groups are OtherFoods.
func Classify(groupID int) Category {
	switch groupID {
	case 1, 2, 3, 9, 12:
		return VegetablesAndFruits
	case 4, 10:
		return WholeGrains
	case 5, 6, 7, 8:
		return ProteinFoods
	default:
		return OtherFoods
	}
}

// IdealProportion returns the recommended share of the plate in percent
func (c Category) IdealProportion() (float64, bool) {
	v, ok := idealProportions[c]
	return v, ok
}

// CategoryComparison is one plate section measured against its ideal share.
// Ideal and PercentOfTarget are nil for sections without a fixed ideal.
type CategoryComparison struct {
	Category        Category `json:"category"`
	Observed        float64  `json:"observed"`
	Ideal           *float64 `json:"ideal,omitempty"`
	PercentOfTarget *float64 `json:"percentOfTarget,omitempty"`
}

// CompareToTargets divides each observed percentage by its ideal share.
// Targeted sections are always reported; OtherFoods only when observed.
func CompareToTargets(observed map[Category]float64) []CategoryComparison {
	out := make([]CategoryComparison, 0, len(Categories))
	for _, c := range Categories {
		value, seen := observed[c]
		ideal, targeted := c.IdealProportion()
		if !targeted {
			if seen {
				out = append(out, CategoryComparison{Category: c, Observed: value})
			}
			continue
		}
		pct := 100 * value / ideal
		idealCopy := ideal
		out = append(out, CategoryComparison{
			Category:        c,
			Observed:        value,
			Ideal:           &idealCopy,
			PercentOfTarget: &pct,
		})
	}
	return out
}
