package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbarros/revsimplex/lp"
)

func fixedAndBoxedLP() *lp.LP {
	model := lp.New(1, 2)
	model.ColCost[0] = 1
	model.ColLower[0] = 3
	model.ColUpper[0] = 3 // fixed
	model.ColCost[1] = -1
	model.ColLower[1] = 0
	model.ColUpper[1] = lp.Inf() // one-sided
	model.RowLower[0] = lp.NegInf()
	model.RowUpper[0] = lp.Inf()
	model.AStart = []int{0, 1, 2}
	model.AIndex = []int{0, 0}
	model.AValue = []float64{1, 1}
	return model
}

func TestPerturbBoundsLeavesFixedAndInfiniteAlone(t *testing.T) {
	model := fixedAndBoxedLP()
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))
	require.NoError(t, s.SetBasis())

	s.perturbBounds()

	assert.Equal(t, 3.0, s.work.WorkLower[0])
	assert.Equal(t, 3.0, s.work.WorkUpper[0])
	assert.True(t, math.IsInf(s.work.WorkUpper[1], 1))
}

func TestPerturbBoundsDisabledByZeroMultiplier(t *testing.T) {
	model := fixedAndBoxedLP()
	s := New(DefaultOptions())
	s.opts.BoundPerturbationMultiplier = 0
	require.NoError(t, s.PassLp(model))
	require.NoError(t, s.SetBasis())

	before := append([]float64(nil), s.work.WorkLower...)
	s.perturbBounds()
	assert.Equal(t, before, s.work.WorkLower)
}

func TestBigCTakesFourthRootAboveHundred(t *testing.T) {
	model := fixedAndBoxedLP()
	model.ColCost[0] = 200 // > 100, triggers sqrt(sqrt(.))
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))
	require.NoError(t, s.SetBasis())

	got := s.bigC()
	want := math.Sqrt(math.Sqrt(200.0))
	assert.InDelta(t, want, got, 1e-9)
}
