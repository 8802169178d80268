package domain

import (
	"fmt"
	"sort"
)

// NutrientID is the Canadian Nutrient File identifier of a nutrient.
// Only the members of the vocabulary below are valid.
type NutrientID int

// Nutrients tracked by the engine
const (
	NutrientEnergy       NutrientID = 208
	NutrientProtein      NutrientID = 203
	NutrientFat          NutrientID = 204
	NutrientCarbohydrate NutrientID = 205
	NutrientFiber        NutrientID = 291
	NutrientSugar        NutrientID = 269
)

// NutrientInfo describes one entry of the nutrient vocabulary
type NutrientInfo struct {
	ID               NutrientID `json:"id"`
	Label            string     `json:"label"`
	StoreName        string     `json:"storeName"`
	Unit             string     `json:"unit"`
	RecommendedDaily float64    `json:"recommendedDaily"`
}

var vocabulary = []NutrientInfo{
	{ID: NutrientEnergy, Label: "Energy", StoreName: "ENERGY (KILOCALORIES)", Unit: "kcal", RecommendedDaily: 2500},
	{ID: NutrientProtein, Label: "Protein", StoreName: "PROTEIN", Unit: "g", RecommendedDaily: 50},
	{ID: NutrientFat, Label: "Fat", StoreName: "FAT (TOTAL LIPIDS)", Unit: "g", RecommendedDaily: 60},
	{ID: NutrientCarbohydrate, Label: "Carbohydrate", StoreName: "CARBOHYDRATE, TOTAL (BY DIFFERENCE)", Unit: "g", RecommendedDaily: 130},
	{ID: NutrientFiber, Label: "Fiber", StoreName: "FIBRE, TOTAL DIETARY", Unit: "g", RecommendedDaily: 30},
	{ID: NutrientSugar, Label: "Sugar", StoreName: "SUGARS, TOTAL", Unit: "g", RecommendedDaily: 50},
}

var (
	byLabel = make(map[string]NutrientInfo, len(vocabulary))
	byID    = make(map[NutrientID]NutrientInfo, len(vocabulary))
)

func init() {
	for _, n := range vocabulary {
		byLabel[n.Label] = n
		byID[n.ID] = n
	}
}

// Resolve maps a human-facing label ("Protein") to its nutrient id.
// Matching is case-sensitive on the canonical label.
func Resolve(label string) (NutrientID, error) {
	n, ok := byLabel[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNutrient, label)
	}
	return n.ID, nil
}

// Vocabulary returns every known nutrient ordered by label
func Vocabulary() []NutrientInfo {
	out := make([]NutrientInfo, len(vocabulary))
	copy(out, vocabulary)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Info returns the vocabulary entry for id
func (id NutrientID) Info() (NutrientInfo, bool) {
	n, ok := byID[id]
	return n, ok
}

// Known reports whether id belongs to the vocabulary
func (id NutrientID) Known() bool {
	_, ok := byID[id]
	return ok
}

// String returns the human-facing label, or the numeric id for foreign nutrients
func (id NutrientID) String() string {
	if n, ok := byID[id]; ok {
		return n.Label
	}
	return fmt.Sprintf("nutrient(%d)", int(id))
}

// MarshalText makes nutrient ids serialize as their labels, including as JSON map keys
func (id NutrientID) MarshalText() ([]byte, error) {
	if !id.Known() {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownNutrient, int(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText resolves a label back to its id
func (id *NutrientID) UnmarshalText(text []byte) error {
	resolved, err := Resolve(string(text))
	if err != nil {
		return err
	}
	*id = resolved
	return nil
}
