package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutriswap/backend/internal/domain"

	"gorm.io/gorm"
)

// NutrientStore serves the read-only nutrient catalog from the CNF tables
type NutrientStore struct {
	db *gorm.DB
}

// NewNutrientStore creates a catalog store over db
func NewNutrientStore(db *gorm.DB) *NutrientStore {
	return &NutrientStore{db: db}
}

var _ domain.NutrientStore = (*NutrientStore)(nil)

func toRecord(f Food) domain.FoodRecord {
	return domain.FoodRecord{ID: f.ID, GroupID: f.FoodGroupID, DisplayName: f.Description}
}

// GetFood returns the catalog entry for foodID
func (s *NutrientStore) GetFood(ctx context.Context, foodID int) (*domain.FoodRecord, error) {
	var food Food
	if err := s.db.WithContext(ctx).First(&food, "id = ?", foodID).Error; err != nil {
		return nil, wrapErr(fmt.Sprintf("get food %d", foodID), err)
	}
	rec := toRecord(food)
	return &rec, nil
}

// GetFoods returns the catalog entries for foodIDs ordered by id. Unknown ids are skipped.
func (s *NutrientStore) GetFoods(ctx context.Context, foodIDs []int) ([]domain.FoodRecord, error) {
	if len(foodIDs) == 0 {
		return nil, nil
	}
	var foods []Food
	if err := s.db.WithContext(ctx).
		Where("id IN ?", foodIDs).
		Order("id ASC").
		Find(&foods).Error; err != nil {
		return nil, wrapErr("get foods", err)
	}
	out := make([]domain.FoodRecord, 0, len(foods))
	for _, f := range foods {
		out = append(out, toRecord(f))
	}
	return out, nil
}

// GetFoodGroup returns the group id of foodID
func (s *NutrientStore) GetFoodGroup(ctx context.Context, foodID int) (int, error) {
	food, err := s.GetFood(ctx, foodID)
	if err != nil {
		return 0, err
	}
	return food.GroupID, nil
}

// GetNutrientValue returns the per-100 g value of nutrient in foodID
func (s *NutrientStore) GetNutrientValue(ctx context.Context, foodID int, nutrient domain.NutrientID) (float64, error) {
	var amount NutrientAmount
	err := s.db.WithContext(ctx).
		Where("food_id = ? AND nutrient_id = ?", foodID, int(nutrient)).
		First(&amount).Error
	if err != nil {
		return 0, wrapErr(fmt.Sprintf("nutrient %s of food %d", nutrient, foodID), err)
	}
	return amount.Value, nil
}

// GetNutrientVector returns every vocabulary nutrient recorded for foodID
func (s *NutrientStore) GetNutrientVector(ctx context.Context, foodID int) (domain.NutrientTotals, error) {
	var amounts []NutrientAmount
	if err := s.db.WithContext(ctx).
		Where("food_id = ?", foodID).
		Find(&amounts).Error; err != nil {
		return nil, wrapErr(fmt.Sprintf("nutrients of food %d", foodID), err)
	}

	if len(amounts) == 0 {
		if _, err := s.GetFood(ctx, foodID); err != nil {
			return nil, err
		}
	}

	totals := make(domain.NutrientTotals, len(amounts))
	for _, a := range amounts {
		id := domain.NutrientID(a.NutrientID)
		if id.Known() {
			totals[id] = a.Value
		}
	}
	return totals, nil
}

// ListFoodsInGroup returns the ids of every food in groupID, ascending
func (s *NutrientStore) ListFoodsInGroup(ctx context.Context, groupID int) ([]int, error) {
	var ids []int
	if err := s.db.WithContext(ctx).
		Model(&Food{}).
		Where("food_group_id = ?", groupID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, wrapErr(fmt.Sprintf("foods in group %d", groupID), err)
	}
	return ids, nil
}

// ListAllFoodsWithNutrient returns every recorded value of nutrient ordered by food id
func (s *NutrientStore) ListAllFoodsWithNutrient(ctx context.Context, nutrient domain.NutrientID) ([]domain.NutrientAmount, error) {
	var amounts []NutrientAmount
	if err := s.db.WithContext(ctx).
		Where("nutrient_id = ?", int(nutrient)).
		Order("food_id ASC").
		Find(&amounts).Error; err != nil {
		return nil, wrapErr(fmt.Sprintf("foods with %s", nutrient), err)
	}
	out := make([]domain.NutrientAmount, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, domain.NutrientAmount{FoodID: a.FoodID, NutrientID: nutrient, ValuePer100: a.Value})
	}
	return out, nil
}

// ListGroupNutrientValues returns the value of nutrient for every food in
// groupID that records it, ordered by food id
func (s *NutrientStore) ListGroupNutrientValues(ctx context.Context, groupID int, nutrient domain.NutrientID) ([]domain.NutrientAmount, error) {
	var amounts []NutrientAmount
	if err := s.db.WithContext(ctx).
		Table("nutrient_amounts AS na").
		Select("na.food_id, na.nutrient_id, na.value").
		Joins("JOIN foods f ON f.id = na.food_id").
		Where("f.food_group_id = ? AND na.nutrient_id = ?", groupID, int(nutrient)).
		Order("na.food_id ASC").
		Scan(&amounts).Error; err != nil {
		return nil, wrapErr(fmt.Sprintf("%s in group %d", nutrient, groupID), err)
	}
	out := make([]domain.NutrientAmount, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, domain.NutrientAmount{FoodID: a.FoodID, NutrientID: nutrient, ValuePer100: a.Value})
	}
	return out, nil
}

// SearchFoods returns foods whose description contains term, case-insensitively
func (s *NutrientStore) SearchFoods(ctx context.Context, term string, limit int) ([]domain.FoodRecord, error) {
	term = escapeLike(strings.ToLower(strings.TrimSpace(term)))
	if term == "" {
		return nil, nil
	}
	q := s.db.WithContext(ctx).
		Where(`LOWER(description) LIKE ? ESCAPE '\'`, "%"+term+"%").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var foods []Food
	if err := q.Find(&foods).Error; err != nil {
		return nil, wrapErr("search foods", err)
	}
	out := make([]domain.FoodRecord, 0, len(foods))
	for _, f := range foods {
		out = append(out, toRecord(f))
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
