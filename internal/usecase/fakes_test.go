package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nutriswap/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockNutrientStore is an in-memory domain.NutrientStore
type MockNutrientStore struct {
	foods  map[int]domain.FoodRecord
	values map[int]domain.NutrientTotals
	err    error

	vectorCalls int
	listCalls   int
	groupCalls  int
	valueCalls  int
}

func NewMockNutrientStore() *MockNutrientStore {
	return &MockNutrientStore{
		foods:  make(map[int]domain.FoodRecord),
		values: make(map[int]domain.NutrientTotals),
	}
}

func (m *MockNutrientStore) add(id, group int, name string, values domain.NutrientTotals) *MockNutrientStore {
	m.foods[id] = domain.FoodRecord{ID: id, GroupID: group, DisplayName: name}
	m.values[id] = values
	return m
}

func (m *MockNutrientStore) GetFood(ctx context.Context, foodID int) (*domain.FoodRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.foods[foodID]
	if !ok {
		return nil, fmt.Errorf("%w: food %d", domain.ErrNotFound, foodID)
	}
	return &f, nil
}

func (m *MockNutrientStore) GetFoods(ctx context.Context, foodIDs []int) ([]domain.FoodRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.FoodRecord{}
	for _, id := range foodIDs {
		if f, ok := m.foods[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *MockNutrientStore) GetFoodGroup(ctx context.Context, foodID int) (int, error) {
	f, err := m.GetFood(ctx, foodID)
	if err != nil {
		return 0, err
	}
	return f.GroupID, nil
}

func (m *MockNutrientStore) GetNutrientValue(ctx context.Context, foodID int, nutrient domain.NutrientID) (float64, error) {
	m.valueCalls++
	if m.err != nil {
		return 0, m.err
	}
	v, ok := m.values[foodID][nutrient]
	if !ok {
		return 0, fmt.Errorf("%w: %s of food %d", domain.ErrNotFound, nutrient, foodID)
	}
	return v, nil
}

func (m *MockNutrientStore) GetNutrientVector(ctx context.Context, foodID int) (domain.NutrientTotals, error) {
	m.vectorCalls++
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.foods[foodID]; !ok {
		return nil, fmt.Errorf("%w: food %d", domain.ErrNotFound, foodID)
	}
	return m.values[foodID].Scale(1), nil
}

func (m *MockNutrientStore) ListFoodsInGroup(ctx context.Context, groupID int) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []int
	for id, f := range m.foods {
		if f.GroupID == groupID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *MockNutrientStore) ListAllFoodsWithNutrient(ctx context.Context, nutrient domain.NutrientID) ([]domain.NutrientAmount, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.NutrientAmount
	for id, values := range m.values {
		if v, ok := values[nutrient]; ok {
			out = append(out, domain.NutrientAmount{FoodID: id, NutrientID: nutrient, ValuePer100: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FoodID < out[j].FoodID })
	return out, nil
}

func (m *MockNutrientStore) ListGroupNutrientValues(ctx context.Context, groupID int, nutrient domain.NutrientID) ([]domain.NutrientAmount, error) {
	m.groupCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.NutrientAmount
	for id, values := range m.values {
		if v, ok := values[nutrient]; ok && m.foods[id].GroupID == groupID {
			out = append(out, domain.NutrientAmount{FoodID: id, NutrientID: nutrient, ValuePer100: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FoodID < out[j].FoodID })
	return out, nil
}

func (m *MockNutrientStore) SearchFoods(ctx context.Context, term string, limit int) ([]domain.FoodRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.FoodRecord
	for _, f := range m.foods {
		if strings.Contains(strings.ToLower(f.DisplayName), strings.ToLower(term)) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type loggedRow struct {
	user string
	domain.LoggedIngredient
}

// MockMealLogStore is an in-memory domain.MealLogStore
type MockMealLogStore struct {
	rows   []loggedRow
	nextID uint
	err    error

	rangeCalls    int
	replaceCalls  int
	replaceFailAt int
}

func NewMockMealLogStore() *MockMealLogStore {
	return &MockMealLogStore{nextID: 1}
}

// log appends one ingredient row and returns its id
func (m *MockMealLogStore) log(user string, date time.Time, mealType domain.MealType, foodID int, grams float64) uint {
	id := m.nextID
	m.nextID++
	m.rows = append(m.rows, loggedRow{user: user, LoggedIngredient: domain.LoggedIngredient{
		ID: id, Date: domain.Day(date), MealType: mealType, FoodID: foodID, QuantityGrams: grams,
	}})
	return id
}

func (m *MockMealLogStore) row(id uint) domain.LoggedIngredient {
	for _, r := range m.rows {
		if r.ID == id {
			return r.LoggedIngredient
		}
	}
	return domain.LoggedIngredient{}
}

func (m *MockMealLogStore) SaveMeal(ctx context.Context, meal *domain.Meal) error {
	if m.err != nil {
		return m.err
	}
	for _, ing := range meal.Ingredients {
		m.log(meal.UserID, meal.Date, meal.Type, ing.FoodID, ing.QuantityGrams)
	}
	return nil
}

func (m *MockMealLogStore) GetMeal(ctx context.Context, userID string, mealType domain.MealType, date time.Time) (*domain.Meal, error) {
	if m.err != nil {
		return nil, m.err
	}
	meal := &domain.Meal{UserID: userID, Type: mealType, Date: domain.Day(date)}
	for _, r := range m.rows {
		if r.user == userID && r.MealType == mealType && r.Date.Equal(domain.Day(date)) {
			meal.Ingredients = append(meal.Ingredients, domain.Ingredient{FoodID: r.FoodID, QuantityGrams: r.QuantityGrams})
		}
	}
	if len(meal.Ingredients) == 0 {
		return nil, domain.ErrNotFound
	}
	return meal, nil
}

func (m *MockMealLogStore) IngredientsForUserDateRange(ctx context.Context, userID string, r domain.DateRange) ([]domain.LoggedIngredient, error) {
	m.rangeCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.LoggedIngredient
	for _, row := range m.rows {
		if row.user == userID && !row.Date.Before(r.Start) && !row.Date.After(r.End) {
			out = append(out, row.LoggedIngredient)
		}
	}
	return out, nil
}

// ReplaceIngredientFoods works on a copy of the rows and keeps it only when
// every replacement succeeds. replaceFailAt makes the n-th replacement fail.
func (m *MockMealLogStore) ReplaceIngredientFoods(ctx context.Context, replacements []domain.Replacement) error {
	m.replaceCalls++
	if m.err != nil {
		return m.err
	}
	rows := make([]loggedRow, len(m.rows))
	copy(rows, m.rows)

	for n, r := range replacements {
		if m.replaceFailAt == n+1 {
			return fmt.Errorf("%w: replace ingredient %d", domain.ErrDataAccess, r.IngredientID)
		}
		found := false
		for i := range rows {
			if rows[i].ID == r.IngredientID {
				rows[i].FoodID = r.FoodID
				rows[i].WasSwapped = true
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: ingredient %d", domain.ErrNotFound, r.IngredientID)
		}
	}
	m.rows = rows
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Catalog used across the usecase tests. Group 5 is poultry, 9 fruit.
func newTestCatalog() *MockNutrientStore {
	return NewMockNutrientStore().
		add(1, 5, "Chicken, thigh, roasted", domain.NutrientTotals{domain.NutrientProtein: 10, domain.NutrientFat: 15, domain.NutrientEnergy: 230}).
		add(2, 5, "Chicken, breast, roasted", domain.NutrientTotals{domain.NutrientProtein: 15, domain.NutrientFat: 4, domain.NutrientEnergy: 165}).
		add(3, 5, "Turkey, ground, cooked", domain.NutrientTotals{domain.NutrientProtein: 27, domain.NutrientFat: 10, domain.NutrientEnergy: 203}).
		add(4, 5, "Duck, roasted", domain.NutrientTotals{domain.NutrientProtein: 19, domain.NutrientFat: 28, domain.NutrientEnergy: 337}).
		add(5, 5, "Goose liver", domain.NutrientTotals{domain.NutrientFat: 4}).
		add(10, 9, "Apple, raw", domain.NutrientTotals{domain.NutrientSugar: 10.4, domain.NutrientFiber: 2.4, domain.NutrientEnergy: 52}).
		add(11, 9, "Raspberries, raw", domain.NutrientTotals{domain.NutrientSugar: 4.4, domain.NutrientFiber: 6.5, domain.NutrientEnergy: 52})
}
