package domain

import (
	"fmt"
	"strings"
)

// Direction is the way a goal wants a nutrient to move
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// ParseDirection accepts "increase" or "decrease" in any case
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Increase:
		return Increase, nil
	case Decrease:
		return Decrease, nil
	}
	return "", fmt.Errorf("%w: direction must be increase or decrease, got %q", ErrInvalidRequest, s)
}

// Satisfies reports whether value strictly crosses threshold in this direction
func (d Direction) Satisfies(value, threshold float64) bool {
	if d == Increase {
		return value > threshold
	}
	return value < threshold
}

// SwapGoal asks to move a nutrient up or down by Amount (in the nutrient's unit)
type SwapGoal struct {
	Nutrient  string    `json:"nutrient" binding:"required"`
	Direction Direction `json:"direction" binding:"required"`
	Amount    float64   `json:"amount"`
}

// ResolvedGoal is a SwapGoal whose nutrient and direction have been checked
type ResolvedGoal struct {
	Nutrient  NutrientID
	Direction Direction
	Amount    float64
}

// Resolve checks the goal shape and resolves its nutrient label.
// An unknown label yields ErrUnknownNutrient.
func (g SwapGoal) Resolve() (ResolvedGoal, error) {
	id, err := Resolve(g.Nutrient)
	if err != nil {
		return ResolvedGoal{}, err
	}
	dir, err := ParseDirection(string(g.Direction))
	if err != nil {
		return ResolvedGoal{}, err
	}
	if g.Amount < 0 {
		return ResolvedGoal{}, fmt.Errorf("%w: amount must not be negative", ErrInvalidRequest)
	}
	return ResolvedGoal{Nutrient: id, Direction: dir, Amount: g.Amount}, nil
}

func (g SwapGoal) String() string {
	return fmt.Sprintf("%s %s by %g", strings.ToLower(string(g.Direction)), g.Nutrient, g.Amount)
}
