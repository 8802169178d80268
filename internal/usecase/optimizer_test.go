package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/nutriswap/backend/internal/domain"
)

func foodIDs(foods []domain.FoodRecord) []int {
	ids := make([]int, len(foods))
	for i, f := range foods {
		ids[i] = f.ID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOptimizeGoals(t *testing.T) {
	catalog := NewMockNutrientStore().
		add(7, 5, "X", domain.NutrientTotals{domain.NutrientProtein: 20, domain.NutrientFat: 3}).
		add(3, 5, "Y", domain.NutrientTotals{domain.NutrientProtein: 25, domain.NutrientFat: 8}).
		add(9, 6, "Z", domain.NutrientTotals{domain.NutrientProtein: 5, domain.NutrientFat: 1}).
		add(1, 6, "W", domain.NutrientTotals{domain.NutrientProtein: 12, domain.NutrientFat: 4.9}).
		add(2, 6, "No fat value", domain.NutrientTotals{domain.NutrientProtein: 30})
	svc := NewGoalOptimizer(catalog)
	ctx := context.Background()

	tests := []struct {
		name    string
		goals   []domain.SwapGoal
		want    []int
		wantErr error
	}{
		{
			name: "every goal must hold",
			goals: []domain.SwapGoal{
				{Nutrient: "Protein", Direction: domain.Increase, Amount: 10},
				{Nutrient: "Fat", Direction: domain.Decrease, Amount: 5},
			},
			want: []int{1, 7},
		},
		{
			name:  "single goal returns all foods past the threshold ordered by id",
			goals: []domain.SwapGoal{{Nutrient: "Protein", Direction: domain.Increase, Amount: 10}},
			want:  []int{1, 2, 3, 7},
		},
		{
			name: "two goals on one nutrient form a band",
			goals: []domain.SwapGoal{
				{Nutrient: "Protein", Direction: domain.Increase, Amount: 10},
				{Nutrient: "Protein", Direction: domain.Decrease, Amount: 21},
			},
			want: []int{1, 7},
		},
		{
			name:  "thresholds are strict",
			goals: []domain.SwapGoal{{Nutrient: "Protein", Direction: domain.Increase, Amount: 25}},
			want:  []int{2},
		},
		{
			name: "no food satisfies every goal",
			goals: []domain.SwapGoal{
				{Nutrient: "Protein", Direction: domain.Increase, Amount: 26},
				{Nutrient: "Fat", Direction: domain.Decrease, Amount: 5},
			},
			wantErr: domain.ErrNoMatch,
		},
		{
			name:    "empty goal list",
			goals:   nil,
			wantErr: domain.ErrNoGoals,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.OptimizeGoals(ctx, tt.goals)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("OptimizeGoals() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OptimizeGoals() unexpected error: %v", err)
			}
			if ids := foodIDs(got); !equalInts(ids, tt.want) {
				t.Errorf("OptimizeGoals() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestOptimizeGoals_UnknownNutrientAbortsBeforeReading(t *testing.T) {
	catalog := newTestCatalog()
	svc := NewGoalOptimizer(catalog)

	_, err := svc.OptimizeGoals(context.Background(), []domain.SwapGoal{
		{Nutrient: "Protein", Direction: domain.Increase, Amount: 10},
		{Nutrient: "Sodium", Direction: domain.Decrease, Amount: 100},
	})
	if !errors.Is(err, domain.ErrUnknownNutrient) {
		t.Fatalf("error = %v, want ErrUnknownNutrient", err)
	}
	if catalog.listCalls != 0 {
		t.Errorf("catalog read %d times, want 0", catalog.listCalls)
	}
}

func TestOptimizeGoals_StoreFailure(t *testing.T) {
	catalog := newTestCatalog()
	catalog.err = domain.ErrDataAccess
	svc := NewGoalOptimizer(catalog)

	_, err := svc.OptimizeGoals(context.Background(), []domain.SwapGoal{
		{Nutrient: "Protein", Direction: domain.Increase, Amount: 10},
	})
	if !errors.Is(err, domain.ErrDataAccess) {
		t.Errorf("error = %v, want ErrDataAccess", err)
	}
}
