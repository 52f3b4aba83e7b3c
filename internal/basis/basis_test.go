package basis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbarros/revsimplex/lp"
)

func boxedLP() *lp.LP {
	model := lp.New(1, 2)
	model.ColLower[0] = 0
	model.ColUpper[0] = 10
	model.ColLower[1] = 0
	model.ColUpper[1] = lp.Inf()
	model.RowLower[0] = lp.NegInf()
	model.RowUpper[0] = 4
	model.AStart = []int{0, 1, 2}
	model.AIndex = []int{0, 0}
	model.AValue = []float64{1, 1}
	return model
}

func TestSetLogicalBasis(t *testing.T) {
	model := boxedLP()
	s := New(model.NumTotal(), model.NumRow)
	s.SetLogicalBasis(model)

	assert.True(t, s.IsBasic(2)) // the single logical variable
	assert.False(t, s.IsBasic(0))
	assert.False(t, s.IsBasic(1))
	assert.Equal(t, []int{2}, s.BasicIndex)
	assert.Equal(t, MoveUp, s.NonbasicMove[0]) // boxed, lower is nearer to zero
	assert.Equal(t, MoveUp, s.NonbasicMove[1]) // lower finite, upper infinite
}

func TestInitialiseNonbasicValueAndMove(t *testing.T) {
	model := boxedLP()
	s := New(model.NumTotal(), model.NumRow)
	s.SetLogicalBasis(model)

	lower := make([]float64, model.NumTotal())
	upper := make([]float64, model.NumTotal())
	value := make([]float64, model.NumTotal())
	for v := 0; v < model.NumTotal(); v++ {
		lower[v], upper[v] = model.AugmentedBounds(v)
	}
	s.InitialiseNonbasicValueAndMove(lower, upper, value)

	assert.Equal(t, 0.0, value[0])
	assert.Equal(t, 0.0, value[1])
}

func TestSetBasisRejectsWrongLength(t *testing.T) {
	model := boxedLP()
	s := New(model.NumTotal(), model.NumRow)
	err := s.SetBasis(model, []int{0, 1})
	require.Error(t, err)
}

func TestSetBasisRejectsDuplicate(t *testing.T) {
	model := lp.New(2, 2)
	model.AStart = []int{0, 0, 0}
	s := New(model.NumTotal(), model.NumRow)
	err := s.SetBasis(model, []int{0, 0})
	require.Error(t, err)
}

func TestSetBasisInstallsGivenVariables(t *testing.T) {
	model := boxedLP()
	s := New(model.NumTotal(), model.NumRow)
	require.NoError(t, s.SetBasis(model, []int{0}))
	assert.True(t, s.IsBasic(0))
	assert.False(t, s.IsBasic(2))
	assert.Equal(t, []int{0}, s.BasicIndex)
}

func TestFlipBoundTogglesMoveAndValue(t *testing.T) {
	model := boxedLP()
	s := New(model.NumTotal(), model.NumRow)
	s.SetLogicalBasis(model)

	lower := []float64{0, 0, lp.NegInf()}
	upper := []float64{10, lp.Inf(), 4}
	value := []float64{0, 0, 0}

	s.FlipBound(0, lower, upper, value)
	assert.Equal(t, MoveDown, s.NonbasicMove[0])
	assert.Equal(t, 10.0, value[0])

	s.FlipBound(0, lower, upper, value)
	assert.Equal(t, MoveUp, s.NonbasicMove[0])
	assert.Equal(t, 0.0, value[0])
}

func TestUpdatePivotsSwapsBasicVariable(t *testing.T) {
	model := boxedLP()
	s := New(model.NumTotal(), model.NumRow)
	s.SetLogicalBasis(model)

	lower := []float64{0, 0, lp.NegInf()}
	upper := []float64{10, lp.Inf(), 4}
	value := []float64{0, 0, 0}

	vOut := s.UpdatePivots(0, 0, MoveDown, lower, upper, value)
	assert.Equal(t, 2, vOut)
	assert.True(t, s.IsBasic(0))
	assert.False(t, s.IsBasic(2))
	assert.Equal(t, MoveDown, s.NonbasicMove[2])
	assert.Equal(t, 4.0, value[2])
	assert.Equal(t, []int{0}, s.BasicIndex)
}
