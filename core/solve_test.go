package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbarros/revsimplex/lp"
)

// coverLP is minimize x0+x1 s.t. x0+x1 >= 2, 0 <= x0,x1 <= 10.
func coverLP() *lp.LP {
	model := lp.New(1, 2)
	model.ColCost[0] = 1
	model.ColCost[1] = 1
	model.ColLower[0] = 0
	model.ColUpper[0] = 10
	model.ColLower[1] = 0
	model.ColUpper[1] = 10
	model.RowLower[0] = 2
	model.RowUpper[0] = lp.Inf()
	model.AStart = []int{0, 1, 2}
	model.AIndex = []int{0, 0}
	model.AValue = []float64{1, 1}
	return model
}

func TestSolveFindsOptimalCover(t *testing.T) {
	model := coverLP()
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, s.Status())

	sol := s.GetSolution()
	assert.InDelta(t, 2.0, sol.ObjectiveValue, 1e-6)
	assert.GreaterOrEqual(t, sol.ColValue[0]+sol.ColValue[1], 2.0-1e-6)
}

func TestSolveDetectsInfeasible(t *testing.T) {
	model := lp.New(1, 2)
	model.ColCost[0] = 1
	model.ColCost[1] = 1
	model.ColLower[0] = 2
	model.ColLower[1] = 2
	model.ColUpper[0] = lp.Inf()
	model.ColUpper[1] = lp.Inf()
	model.RowLower[0] = lp.NegInf()
	model.RowUpper[0] = 1
	model.AStart = []int{0, 1, 2}
	model.AIndex = []int{0, 0}
	model.AValue = []float64{1, 1}

	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)

	sol := s.GetSolution()
	assert.True(t, sol.IsInfeasible())
}

func TestSolveDetectsUnbounded(t *testing.T) {
	model := lp.New(1, 1)
	model.ColCost[0] = -1
	model.ColLower[0] = 0
	model.ColUpper[0] = lp.Inf()
	model.RowLower[0] = lp.NegInf()
	model.RowUpper[0] = lp.Inf()
	model.AStart = []int{0, 1}
	model.AIndex = []int{0}
	model.AValue = []float64{1}

	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)

	sol := s.GetSolution()
	assert.True(t, sol.IsUnbounded())
}

func TestAddColsExtendsProblem(t *testing.T) {
	model := coverLP()
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))
	require.NoError(t, s.SetBasis())

	// cheaper third column covering the same row.
	err := s.AddCols([]float64{0.1}, []float64{0}, []float64{10},
		[]int{0, 1}, []int{0}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, 3, s.lp.NumCol)

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, s.Status())

	sol := s.GetSolution()
	assert.InDelta(t, 0.2, sol.ObjectiveValue, 1e-6)
}

func TestDeleteRowsShrinksProblem(t *testing.T) {
	model := coverLP()
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))
	require.NoError(t, s.SetBasis())

	require.NoError(t, s.DeleteRows([]int{0}))
	assert.Equal(t, 0, s.lp.NumRow)
}

func TestUpdateStatusNewCostsResyncsWorkCost(t *testing.T) {
	model := coverLP()
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))
	require.NoError(t, s.SetBasis())

	s.lp.ColCost[0] = 9
	require.NoError(t, s.UpdateStatus(MutationNewCosts))
	assert.Equal(t, 9.0, s.work.WorkCost[0])
	assert.Equal(t, NotSet, s.status)
}

// bealeLP is Beale's classic two-variable-degenerate cycling example:
// minimize -0.75x0+150x1-0.02x2+6x3 subject to
// 0.25x0-60x1-0.04x2+9x3<=0, 0.5x0-90x1-0.02x2+3x3<=0, 0<=x2<=1, all
// xi>=0. Plain Dantzig pricing with perturbation disabled cycles on
// this LP forever; bound flipping (the boxed x2 column) is what
// escapes the cycle. Known optimum: objective = -1/20.
func bealeLP() *lp.LP {
	model := lp.New(2, 4)
	model.ColCost = []float64{-0.75, 150, -0.02, 6}
	model.ColLower = []float64{0, 0, 0, 0}
	model.ColUpper = []float64{lp.Inf(), lp.Inf(), 1, lp.Inf()}
	model.RowLower = []float64{lp.NegInf(), lp.NegInf()}
	model.RowUpper = []float64{0, 0}
	model.AStart = []int{0, 2, 4, 6, 8}
	model.AIndex = []int{0, 1, 0, 1, 0, 1, 0, 1}
	model.AValue = []float64{0.25, 0.5, -60, -90, -0.04, -0.02, 9, 3}
	return model
}

func TestSolveHandlesBealeCyclingExample(t *testing.T) {
	opts := DefaultOptions()
	opts.SimplexStrategy = StrategyPrimal
	opts.BoundPerturbationMultiplier = 0

	s := New(opts)
	require.NoError(t, s.PassLp(bealeLP()))

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, s.Status())

	sol := s.GetSolution()
	assert.InDelta(t, -0.05, sol.ObjectiveValue, 1e-6)
}

// dupColumnLP has two structural columns that are exact duplicates, so
// selecting both as the initial basis (with no logical variable in it)
// leaves the basis matrix singular: factor.Build
// reports a deficiency that buildFactorRepairingDeficiency must repair
// by swapping one duplicate out for its row's logical variable.
func dupColumnLP() *lp.LP {
	model := lp.New(2, 2)
	model.ColCost[0] = 1
	model.ColCost[1] = 1
	model.ColLower[0], model.ColUpper[0] = 0, lp.Inf()
	model.ColLower[1], model.ColUpper[1] = 0, lp.Inf()
	model.RowLower[0], model.RowUpper[0] = 2, lp.Inf()
	model.RowLower[1], model.RowUpper[1] = 1, lp.Inf()
	model.AStart = []int{0, 2, 4}
	model.AIndex = []int{0, 1, 0, 1}
	model.AValue = []float64{1, 1, 1, 1}
	return model
}

func TestInitialiseSimplexLpBasisAndFactorRepairsRankDeficiency(t *testing.T) {
	model := dupColumnLP()
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))

	// Both structural columns basic, no row logical: duplicate columns
	// make this basis singular.
	require.NoError(t, s.SetBasisExternal([]int{0, 1}))
	require.NoError(t, s.InitialiseSimplexLpBasisAndFactor(true))

	assert.Equal(t, 1, s.Analysis().RankDeficiencyFixes)

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, s.Status())
}

func TestSolveIsIdempotent(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(coverLP()))

	status1, err := s.Solve()
	require.NoError(t, err)
	sol1 := s.GetSolution()

	status2, err := s.Solve()
	require.NoError(t, err)
	sol2 := s.GetSolution()

	assert.Equal(t, status1, status2)
	assert.Equal(t, sol1.Status, sol2.Status)
	assert.InDelta(t, sol1.ObjectiveValue, sol2.ObjectiveValue, 1e-9)
	assert.Equal(t, sol1.ColValue, sol2.ColValue)
}

func TestGetHighsBasisSetBasisExternalRoundTrip(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(coverLP()))

	status, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, SolveOk, status)
	require.Equal(t, Optimal, s.Status())
	want := s.GetSolution().ObjectiveValue

	colStatus, rowStatus := s.GetHighsBasis()
	external := make([]int, 0, s.lp.NumRow)
	for j, st := range colStatus {
		if st == StatusBasic {
			external = append(external, j)
		}
	}
	for i, st := range rowStatus {
		if st == StatusBasic {
			external = append(external, s.lp.NumCol+i)
		}
	}
	require.Len(t, external, s.lp.NumRow)

	fresh := New(DefaultOptions())
	require.NoError(t, fresh.PassLp(coverLP()))
	require.NoError(t, fresh.SetBasisExternal(external))

	status, err = fresh.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, fresh.Status())
	assert.InDelta(t, want, fresh.GetSolution().ObjectiveValue, 1e-6)
}

// TestSolveZeroRowLpIsOptimalImmediately is §8 scenario 1: an LP with
// no rows at all has nothing for either driver to do.
func TestSolveZeroRowLpIsOptimalImmediately(t *testing.T) {
	model := lp.New(0, 1)
	model.ColCost[0] = 0
	model.ColLower[0], model.ColUpper[0] = 0, lp.Inf()
	model.AStart = []int{0, 0}
	model.Offset = 5

	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, s.Status())
	assert.Equal(t, 0, s.Analysis().Iterations)
	assert.InDelta(t, 5.0, s.GetSolution().ObjectiveValue, 1e-9)
}

// TestSolveTrivialBoundedColumnNeedsNoIterations is §8 scenario 2: a
// single column bounded to [1,2] is already optimal at its logical
// (nonbasic, no rows) starting point.
func TestSolveTrivialBoundedColumnNeedsNoIterations(t *testing.T) {
	model := lp.New(0, 1)
	model.ColCost[0] = 1
	model.ColLower[0], model.ColUpper[0] = 1, 2
	model.AStart = []int{0, 0}

	s := New(DefaultOptions())
	require.NoError(t, s.PassLp(model))

	status, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, s.Status())
	assert.Equal(t, 0, s.Analysis().Iterations)

	sol := s.GetSolution()
	assert.InDelta(t, 1.0, sol.ColValue[0], 1e-9)
	assert.InDelta(t, 1.0, sol.ObjectiveValue, 1e-9)
}

// TestSolvePerturbationReversibilityLaw checks §8's "Perturbation
// reversibility" law: once perturbation is removed and cleanup runs,
// the reported optimum matches what an unperturbed solve of the same
// LP finds.
func TestSolvePerturbationReversibilityLaw(t *testing.T) {
	perturbed := New(DefaultOptions())
	require.NoError(t, perturbed.PassLp(coverLP()))
	status, err := perturbed.Solve()
	require.NoError(t, err)
	require.Equal(t, SolveOk, status)
	require.Equal(t, Optimal, perturbed.Status())

	unperturbedOpts := DefaultOptions()
	unperturbedOpts.CostPerturbationMultiplier = 0
	unperturbedOpts.BoundPerturbationMultiplier = 0
	unperturbed := New(unperturbedOpts)
	require.NoError(t, unperturbed.PassLp(coverLP()))
	status, err = unperturbed.Solve()
	require.NoError(t, err)
	require.Equal(t, SolveOk, status)
	require.Equal(t, Optimal, unperturbed.Status())

	assert.InDelta(t, unperturbed.GetSolution().ObjectiveValue, perturbed.GetSolution().ObjectiveValue, 1e-6)
}

// TestSolveRefactorNeutralityLaw checks §8's "Refactor neutrality"
// law: forcing a refactor after every single update (SimplexUpdateLimit
// of 1, versus the default's much larger eta chain before refactoring)
// does not change the final trajectory's outcome.
func TestSolveRefactorNeutralityLaw(t *testing.T) {
	baseline := New(DefaultOptions())
	require.NoError(t, baseline.PassLp(coverLP()))
	status, err := baseline.Solve()
	require.NoError(t, err)
	require.Equal(t, SolveOk, status)
	want := baseline.GetSolution().ObjectiveValue

	forcedOpts := DefaultOptions()
	forcedOpts.SimplexUpdateLimit = 1
	forced := New(forcedOpts)
	require.NoError(t, forced.PassLp(coverLP()))
	status, err = forced.Solve()
	require.NoError(t, err)
	assert.Equal(t, SolveOk, status)
	assert.Equal(t, Optimal, forced.Status())
	assert.InDelta(t, want, forced.GetSolution().ObjectiveValue, 1e-6)
}
