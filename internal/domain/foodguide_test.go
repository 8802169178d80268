package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		group int
		want  Category
	}{
		{1, VegetablesAndFruits}, {2, VegetablesAndFruits}, {3, VegetablesAndFruits},
		{9, VegetablesAndFruits}, {12, VegetablesAndFruits},
		{4, WholeGrains}, {10, WholeGrains},
		{5, ProteinFoods}, {6, ProteinFoods}, {7, ProteinFoods}, {8, ProteinFoods},
		{0, OtherFoods}, {11, OtherFoods}, {19, OtherFoods}, {-1, OtherFoods}, {9999, OtherFoods},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.group), "group %d", tt.group)
	}
}

func TestCompareToTargets(t *testing.T) {
	got := CompareToTargets(map[Category]float64{
		VegetablesAndFruits: 25,
		ProteinFoods:        50,
		OtherFoods:          25,
	})
	require.Len(t, got, 4)

	assert.Equal(t, VegetablesAndFruits, got[0].Category)
	assert.InDelta(t, 50, *got[0].PercentOfTarget, 1e-9)

	assert.Equal(t, WholeGrains, got[1].Category)
	assert.Equal(t, 0.0, got[1].Observed)
	assert.InDelta(t, 0, *got[1].PercentOfTarget, 1e-9)

	assert.InDelta(t, 200, *got[2].PercentOfTarget, 1e-9)
	assert.Equal(t, 25.0, *got[2].Ideal)

	assert.Equal(t, OtherFoods, got[3].Category)
	assert.Equal(t, 25.0, got[3].Observed)
	assert.Nil(t, got[3].PercentOfTarget, "Other has no ideal and is reported as observed only")
	assert.Nil(t, got[3].Ideal)
}

func TestCompareToTargets_OmitsUnobservedOther(t *testing.T) {
	got := CompareToTargets(map[Category]float64{WholeGrains: 100})
	require.Len(t, got, 3)
	for _, c := range got {
		assert.NotEqual(t, OtherFoods, c.Category)
	}
}
