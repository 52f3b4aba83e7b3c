package ratiotest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fbarros/revsimplex/internal/basis"
	"github.com/fbarros/revsimplex/internal/vecspace"
)

func TestPrimalPicksBlockingRow(t *testing.T) {
	alpha := vecspace.New(2)
	alpha.Set(0, 1.0)
	baseValue := []float64{5, 0}
	baseLower := []float64{0, 0}
	baseUpper := []float64{10, 10}

	res := Primal(1, alpha, baseValue, baseLower, baseUpper, 1e-7, math.Inf(1), false)
	assert.False(t, res.Unbounded)
	assert.False(t, res.Flip)
	assert.Equal(t, 0, res.LeaveRow)
	assert.InDelta(t, 5.0, res.Theta, 1e-6)
	assert.Equal(t, 1.0, res.PivotValue)
}

func TestPrimalUnboundedWhenNoBlocker(t *testing.T) {
	alpha := vecspace.New(2)
	alpha.Set(0, -1.0) // rate negative, basic value rising toward +inf upper
	baseValue := []float64{5, 0}
	baseLower := []float64{0, 0}
	baseUpper := []float64{math.Inf(1), 10}

	res := Primal(1, alpha, baseValue, baseLower, baseUpper, 1e-7, math.Inf(1), false)
	assert.True(t, res.Unbounded)
}

func TestPrimalPrefersBoundFlipWhenCheaper(t *testing.T) {
	alpha := vecspace.New(2)
	alpha.Set(0, 1.0)
	baseValue := []float64{5, 0}
	baseLower := []float64{0, 0}
	baseUpper := []float64{10, 10}

	// blocking theta (~5) exceeds the entering variable's own range (2),
	// so a bound flip is cheaper.
	res := Primal(1, alpha, baseValue, baseLower, baseUpper, 1e-7, 2.0, true)
	assert.True(t, res.Flip)
	assert.Equal(t, 2.0, res.Theta)
}

func TestDualPicksMinimumRatio(t *testing.T) {
	rowAp := vecspace.New(2)
	rowAp.Set(0, 1.0)
	rowAp.Set(1, -1.0)
	flags := []basis.Flag{basis.IsNonbasic, basis.IsNonbasic}
	moves := []basis.Move{basis.MoveUp, basis.MoveDown}
	workDual := []float64{-2, 3}

	res := Dual(rowAp, 1, flags, moves, workDual, 1e-7)
	assert.True(t, res.Found)
	assert.Equal(t, 0, res.EnterVar)
	assert.InDelta(t, 2.0, res.Step, 1e-9)
	assert.Equal(t, 1.0, res.PivotValue)
}

func TestDualUnboundedWhenNoCandidate(t *testing.T) {
	rowAp := vecspace.New(2)
	rowAp.Set(0, 1.0)
	flags := []basis.Flag{basis.IsBasic}
	moves := []basis.Move{basis.Fixed}
	workDual := []float64{0}

	res := Dual(rowAp, 1, flags, moves, workDual, 1e-7)
	assert.True(t, res.Unbounded)
	assert.Equal(t, -1, res.EnterVar)
}
