package lp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallLP() *LP {
	// minimize x0 + 2x1 s.t. x0 + x1 <= 4, x0,x1 >= 0
	model := New(1, 2)
	model.ColCost[0] = 1
	model.ColCost[1] = 2
	model.ColUpper[0] = Inf()
	model.ColUpper[1] = Inf()
	model.RowLower[0] = NegInf()
	model.RowUpper[0] = 4
	model.AStart = []int{0, 1, 2}
	model.AIndex = []int{0, 0}
	model.AValue = []float64{1, 1}
	return model
}

func TestValidate(t *testing.T) {
	model := smallLP()
	require.NoError(t, model.Validate())
}

func TestValidateRejectsInvertedBounds(t *testing.T) {
	model := smallLP()
	model.ColLower[0] = 5
	model.ColUpper[0] = 1
	require.Error(t, model.Validate())
}

func TestAugmentedBoundsLogical(t *testing.T) {
	model := smallLP()
	lo, up := model.AugmentedBounds(model.NumCol) // logical for the single row
	assert.Equal(t, -4.0, lo)
	assert.Equal(t, math.Inf(1), up)
}

func TestSenseSign(t *testing.T) {
	model := smallLP()
	assert.Equal(t, 1.0, model.SenseSign())
	model.Sense = Maximize
	assert.Equal(t, -1.0, model.SenseSign())
}

func TestNumTotal(t *testing.T) {
	model := smallLP()
	assert.Equal(t, 3, model.NumTotal())
}
