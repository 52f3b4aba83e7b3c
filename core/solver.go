// Package core wires the revised-simplex components (C1-C10) into the
// external interface an orchestrator consumes (§6): passLp, setBasis,
// solve, getSolution, getHighsBasis, initialiseSimplexLpBasisAndFactor,
// and the row/column editing operations.
package core

import (
	"math/rand/v2"
	"time"

	"github.com/fbarros/revsimplex/internal/basis"
	"github.com/fbarros/revsimplex/internal/factor"
	"github.com/fbarros/revsimplex/internal/matrixstore"
	"github.com/fbarros/revsimplex/internal/pricing"
	"github.com/fbarros/revsimplex/internal/workspace"
	"github.com/fbarros/revsimplex/lp"
	"github.com/fbarros/revsimplex/simplexerr"
)

// Solver owns every piece of state one solve call mutates: the basis,
// the factorization, the working arrays, and the edge weights. A
// canonical LP is borrowed read-only via PassLp.
type Solver struct {
	lp    *lp.LP
	store *matrixstore.Store

	bas  *basis.State
	work *workspace.Arrays
	fac  *factor.Factor

	dualWeights   *pricing.Weights // length m, indexed by row
	primalWeights *pricing.Weights // length N, indexed by augmented variable

	opts Options
	rng  *rand.Rand

	status    ModelStatus
	analysis  Analysis
	perturbed bool

	dualObjective   float64
	primalObjective float64

	primalRay []float64 // set by the primal driver when it reports Unbounded
	dualRay   []float64 // set by the dual driver when it certifies Infeasible

	snapshot *snapshot

	startTime time.Time

	basisIsSet bool
}

type snapshot struct {
	basicIndex   []int
	nonbasicFlag []basis.Flag
	nonbasicMove []basis.Move
	dualW        []float64
	primalW      []float64
	workShift    []float64
	workLower    []float64
	workUpper    []float64
	perturbed    bool
	updateLimit  int
}

// New constructs an empty Solver with the given options.
func New(opts Options) *Solver {
	return &Solver{
		opts: opts,
		rng:  rand.New(rand.NewPCG(opts.HighsRandomSeed, opts.HighsRandomSeed^0x9e3779b97f4a7c15)),
	}
}

// PassLp installs a new canonical LP, invalidating any prior basis,
// factor, and work arrays.
func (s *Solver) PassLp(model *lp.LP) error {
	if err := model.Validate(); err != nil {
		return simplexerr.NewInvalidInput("lp", err.Error())
	}
	s.lp = model
	s.store = matrixstore.Build(model)
	n := model.NumTotal()
	s.bas = basis.New(n, model.NumRow)
	s.work = workspace.New(n, model.NumRow)
	s.fac = factor.Setup(model.NumRow, model, s.store, s.opts.FactorPivotThreshold, s.opts.FactorPivotTolerance, s.opts.SimplexUpdateLimit)
	s.work.ResetToLP(model)
	s.dualWeights = newWeights(s.opts.DualEdgeWeight, model.NumRow)
	s.primalWeights = newWeights(s.opts.DualEdgeWeight, n)
	s.status = NotSet
	s.analysis = Analysis{}
	s.perturbed = false
	s.snapshot = nil
	s.primalRay = nil
	s.dualRay = nil
	s.basisIsSet = false
	return nil
}

// newWeights constructs the C6 edge-weight scheme opts.DualEdgeWeight
// names. WeightChoose starts from Devex, HiGHS's own default; the
// auto-switchover WeightSteepestEdgeToDevex offers starts from exact
// steepest-edge weights, since the switchover itself isn't modeled
// here -- it stays steepest-edge for the whole solve.
func newWeights(strategy EdgeWeightStrategy, n int) *pricing.Weights {
	switch strategy {
	case WeightDantzig:
		return pricing.NewDantzig(n)
	case WeightSteepestEdge, WeightSteepestEdgeToDevex:
		return pricing.NewSteepestEdge(n)
	default:
		return pricing.NewDevex(n)
	}
}

// SetBasis installs the trivial logical basis (every logical variable
// basic, every structural variable nonbasic).
func (s *Solver) SetBasis() error {
	if s.lp == nil {
		return simplexerr.NewInvalidInput("lp", "no LP installed")
	}
	s.bas.SetLogicalBasis(s.lp)
	s.bas.InitialiseNonbasicValueAndMove(s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
	s.basisIsSet = true
	return nil
}

// SetBasisExternal installs a caller-supplied basis; the underlying
// HiGHS-shaped API calls this the overload of setBasis that takes an
// external basis.
func (s *Solver) SetBasisExternal(externalBasis []int) error {
	if s.lp == nil {
		return simplexerr.NewInvalidInput("lp", "no LP installed")
	}
	if err := s.bas.SetBasis(s.lp, externalBasis); err != nil {
		return simplexerr.NewInvalidInput("basis", err.Error())
	}
	s.bas.InitialiseNonbasicValueAndMove(s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
	s.basisIsSet = true
	return nil
}

// InitialiseSimplexLpBasisAndFactor builds the factor for the current
// basis, generating a logical basis first if onlyFromKnown is false
// and no basis has been set, and repairs rank deficiency by swapping
// unfound pivot columns with the logical variable of their row.
func (s *Solver) InitialiseSimplexLpBasisAndFactor(onlyFromKnown bool) error {
	if s.lp == nil {
		return simplexerr.NewInvalidInput("lp", "no LP installed")
	}
	if !onlyFromKnown && !s.basisIsSet {
		s.bas.SetLogicalBasis(s.lp)
		s.bas.InitialiseNonbasicValueAndMove(s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
		s.basisIsSet = true
	}
	return s.buildFactorRepairingDeficiency()
}

// buildFactorRepairingDeficiency calls factor.Build and, on rank
// deficiency, swaps each unfound pivot column for the logical variable
// of the corresponding missing pivot row, retrying until the basis is
// nonsingular.
func (s *Solver) buildFactorRepairingDeficiency() error {
	const maxRepairRounds = 8
	for round := 0; round < maxRepairRounds; round++ {
		def, err := s.fac.Build(s.bas.BasicIndex)
		if err != nil {
			return err
		}
		if !def.IsSingular() {
			return nil
		}
		s.analysis.RankDeficiencyFixes++
		for k, col := range def.NoPvC {
			row := def.NoPvR[k]
			logicalVar := s.lp.NumCol + row
			for i, v := range s.bas.BasicIndex {
				if v == col {
					s.bas.NonbasicFlag[v] = basis.IsNonbasic
					s.bas.NonbasicMove[v] = basis.MoveUp
					s.bas.BasicIndex[i] = logicalVar
					s.bas.NonbasicFlag[logicalVar] = basis.IsBasic
					s.bas.NonbasicMove[logicalVar] = basis.Fixed
					break
				}
			}
		}
	}
	// Exhausting repair rounds before any pivot has been taken means
	// the basis handed in was singular from the start, not that a
	// mid-solve refactor degraded it -- the two get distinct sentinels
	// so a caller can tell a bad starting basis from a numerical
	// backtracking failure.
	if s.analysis.Iterations == 0 {
		return &simplexerr.SingularBasisError{}
	}
	return &simplexerr.RankDeficiencyError{Attempts: maxRepairRounds}
}

// GetSolution returns primal/dual values for original columns and
// rows. Row values/duals follow the convention row_value =
// -workValue[n+i], row_dual = sense * workDual[n+i].
func (s *Solver) GetSolution() Solution {
	n, m := s.lp.NumCol, s.lp.NumRow
	sign := s.lp.SenseSign()
	sol := Solution{
		Status:   s.status,
		ColValue: make([]float64, n),
		ColDual:  make([]float64, n),
		RowValue: make([]float64, m),
		RowDual:  make([]float64, m),
	}
	for j := 0; j < n; j++ {
		sol.ColValue[j] = s.work.WorkValue[j]
		sol.ColDual[j] = sign * s.work.WorkDual[j]
	}
	for i := 0; i < m; i++ {
		v := n + i
		sol.RowValue[i] = -s.work.WorkValue[v]
		sol.RowDual[i] = sign * s.work.WorkDual[v]
	}
	sol.ObjectiveValue = s.primalObjective
	sol.PrimalRay = s.primalRay
	sol.DualRay = s.dualRay
	return sol
}

// GetHighsBasis returns the per-variable basis status derived from
// nonbasicFlag/nonbasicMove, mapping logical variables to row
// statuses with the bound convention inverted (a logical at its
// *upper* augmented bound corresponds to the row sitting at its
// *lower* bound, since the logical is -Ax).
func (s *Solver) GetHighsBasis() (colStatus []HighsBasisStatus, rowStatus []HighsBasisStatus) {
	n, m := s.lp.NumCol, s.lp.NumRow
	colStatus = make([]HighsBasisStatus, n)
	rowStatus = make([]HighsBasisStatus, m)
	for j := 0; j < n; j++ {
		colStatus[j] = statusOf(s.bas, j)
	}
	for i := 0; i < m; i++ {
		v := n + i
		st := statusOf(s.bas, v)
		switch st {
		case StatusLower:
			rowStatus[i] = StatusUpper
		case StatusUpper:
			rowStatus[i] = StatusLower
		default:
			rowStatus[i] = st
		}
	}
	return colStatus, rowStatus
}

func statusOf(b *basis.State, v int) HighsBasisStatus {
	if b.NonbasicFlag[v] == basis.IsBasic {
		return StatusBasic
	}
	switch b.NonbasicMove[v] {
	case basis.MoveUp:
		return StatusLower
	case basis.MoveDown:
		return StatusUpper
	default:
		return StatusZero
	}
}

// Analysis returns the iteration/rebuild counters accumulated by the
// most recent Solve call.
func (s *Solver) Analysis() Analysis { return s.analysis }

// Status returns the model status of the most recent Solve call.
func (s *Solver) Status() ModelStatus { return s.status }

// PrimalRay returns the unbounded-ray certificate found by the most
// recent Solve call, or nil if the status was not Unbounded.
func (s *Solver) PrimalRay() []float64 { return s.primalRay }

// DualRay returns the infeasibility-ray certificate found by the most
// recent Solve call, or nil if the status was not Infeasible.
func (s *Solver) DualRay() []float64 { return s.dualRay }
