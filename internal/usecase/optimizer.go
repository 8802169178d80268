package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/nutriswap/backend/internal/domain"
	applog "github.com/nutriswap/backend/internal/log"
)

// GoalOptimizer finds the foods that satisfy several nutrient goals at once
type GoalOptimizer struct {
	store domain.NutrientStore
}

// NewGoalOptimizer creates a goal optimizer
func NewGoalOptimizer(store domain.NutrientStore) *GoalOptimizer {
	return &GoalOptimizer{store: store}
}

// OptimizeGoals returns every catalog food that satisfies all goals, ordered
// by food id. For multi-goal queries a goal's Amount is an absolute
// threshold: Increase keeps foods above it, Decrease keeps foods below it.
// All goals are resolved before the catalog is read, so one unknown nutrient
// aborts the whole query.
func (o *GoalOptimizer) OptimizeGoals(ctx context.Context, goals []domain.SwapGoal) ([]domain.FoodRecord, error) {
	if len(goals) == 0 {
		return nil, domain.ErrNoGoals
	}

	resolved := make([]domain.ResolvedGoal, 0, len(goals))
	for _, g := range goals {
		r, err := g.Resolve()
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, r)
	}

	var survivors map[int]struct{}
	for _, goal := range resolved {
		amounts, err := o.store.ListAllFoodsWithNutrient(ctx, goal.Nutrient)
		if err != nil {
			return nil, err
		}

		qualifying := make(map[int]struct{})
		for _, a := range amounts {
			if !goal.Direction.Satisfies(a.ValuePer100, goal.Amount) {
				continue
			}
			if survivors != nil {
				if _, ok := survivors[a.FoodID]; !ok {
					continue
				}
			}
			qualifying[a.FoodID] = struct{}{}
		}
		survivors = qualifying

		if len(survivors) == 0 {
			return nil, fmt.Errorf("%w: no food satisfies all %d goals", domain.ErrNoMatch, len(goals))
		}
	}

	ids := make([]int, 0, len(survivors))
	for id := range survivors {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	foods, err := o.store.GetFoods(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return nil, fmt.Errorf("%w: no food satisfies all %d goals", domain.ErrNoMatch, len(goals))
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].ID < foods[j].ID })

	applog.Debug(ctx, "goals optimized", "goals", len(goals), "matches", len(foods))
	return foods, nil
}
