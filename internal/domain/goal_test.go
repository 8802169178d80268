package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "increase", want: Increase},
		{in: "Decrease", want: Decrease},
		{in: " INCREASE ", want: Increase},
		{in: "up", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirection_SatisfiesIsStrict(t *testing.T) {
	assert.True(t, Increase.Satisfies(15, 13))
	assert.False(t, Increase.Satisfies(13, 13))
	assert.True(t, Decrease.Satisfies(12, 13))
	assert.False(t, Decrease.Satisfies(13, 13))
}

func TestSwapGoal_Resolve(t *testing.T) {
	t.Run("valid goal", func(t *testing.T) {
		got, err := SwapGoal{Nutrient: "Fiber", Direction: "increase", Amount: 2}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, ResolvedGoal{Nutrient: NutrientFiber, Direction: Increase, Amount: 2}, got)
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		_, err := SwapGoal{Nutrient: "Fiber", Direction: Decrease}.Resolve()
		assert.NoError(t, err)
	})

	t.Run("unknown nutrient", func(t *testing.T) {
		_, err := SwapGoal{Nutrient: "fiber", Direction: Increase}.Resolve()
		assert.ErrorIs(t, err, ErrUnknownNutrient)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := SwapGoal{Nutrient: "Fiber", Direction: Increase, Amount: -2}.Resolve()
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestSwapGoal_String(t *testing.T) {
	assert.Equal(t, "increase Protein by 3", SwapGoal{Nutrient: "Protein", Direction: "Increase", Amount: 3}.String())
}
