package core

import (
	"errors"
	"math"
	"time"

	"github.com/fbarros/revsimplex/internal/basis"
	"github.com/fbarros/revsimplex/internal/factor"
	"github.com/fbarros/revsimplex/internal/matrixstore"
	"github.com/fbarros/revsimplex/internal/pricing"
	"github.com/fbarros/revsimplex/internal/ratiotest"
	"github.com/fbarros/revsimplex/internal/vecspace"
	"github.com/fbarros/revsimplex/simplexerr"
)

// errNeedsPrimalPhase1 is an internal control-flow signal, never
// returned to a caller of Solve: it tells the dispatcher that the
// dual driver could not make progress (phase 1 couldn't repair a
// dual infeasibility, or phase 1's own pivot search came up empty)
// and the problem should be handed to the primal driver instead.
var errNeedsPrimalPhase1 = errors.New("core: dual driver needs a primal fallback")

const maxPivotRetries = 3

// dualOutcome is the result of one dualStep call.
type dualOutcome int

const (
	dualContinue dualOutcome = iota // pivoted; more rows may be infeasible
	dualFeasible                    // no basic row violates its current bounds
	dualNoPivot                     // a ratio test found no entering candidate
)

// runDual drives the dual simplex in two stages against the same
// per-iteration pivot mechanics (dualStep): phase 1 brings every
// basic row within the artificial bounds installed by
// enterDualPhase1 (trivial, since dual feasibility already holds
// there by construction), then phase 2 repeats the same loop against
// the real bounds restored by leaveDualPhase1, now targeting actual
// primal feasibility.
func (s *Solver) runDual() (ModelStatus, error) {
	if err := s.rebuild(); err != nil {
		return NotSet, err
	}
	fallback, err := s.enterDualPhase1()
	if err != nil {
		return NotSet, err
	}
	if fallback {
		return NotSet, errNeedsPrimalPhase1
	}

	for {
		if st, done, err := s.checkBudget(); done {
			return st, err
		}
		out, err := s.dualStep()
		if err != nil {
			return NotSet, err
		}
		switch out {
		case dualFeasible:
			goto phase2
		case dualNoPivot:
			return NotSet, errNeedsPrimalPhase1
		}
	}

phase2:
	if err := s.leaveDualPhase1(); err != nil {
		return NotSet, err
	}
	for {
		if st, done, err := s.checkBudget(); done {
			return st, err
		}
		out, err := s.dualStep()
		if err != nil {
			return NotSet, err
		}
		// Weak duality holds throughout phase 2 (dual feasibility is
		// maintained by construction), so the dual objective is a valid
		// lower bound on the optimum here -- once it reaches the
		// configured cutoff the LP can't do any better.
		if !math.IsInf(s.opts.ObjectiveBound, 1) && s.dualObjective >= s.opts.ObjectiveBound {
			return ObjectiveBoundReached, nil
		}
		switch out {
		case dualFeasible:
			return Optimal, nil
		case dualNoPivot:
			// Dual unboundedness certifies primal infeasibility in the
			// textbook case, but a perturbed or shifted starting point
			// can also report it spuriously; the dispatcher resolves
			// the ambiguity with a primal restart (§7).
			return UnboundedOrInfeasible, nil
		}
	}
}

// dualStep performs one dual-simplex iteration against whatever
// bounds are currently installed in s.work (artificial during phase
// 1, real during phase 2): refresh primal/dual values, pick the most
// infeasible basic row, price its tableau row, ratio-test, and pivot.
func (s *Solver) dualStep() (dualOutcome, error) {
	if err := s.recomputeValues(); err != nil {
		return dualContinue, err
	}

	rowInfeas := s.rowInfeasibilities()
	cand, ok := s.dualWeights.ChooseLeavingRow(rowInfeas, s.bas.BasicIndex, s.opts.PrimalFeasibilityTolerance)
	if !ok {
		return dualFeasible, nil
	}
	rowOut := cand.Index

	leaveDir := 1.0
	if s.work.BaseValue[rowOut] < s.work.BaseLower[rowOut] {
		leaveDir = -1.0
	}

	rowEp := vecspace.New(s.lp.NumRow)
	rowEp.Set(rowOut, 1)
	s.analysis.BtranCalls++
	if err := s.fac.Btran(rowEp, 1.0/float64(s.lp.NumRow)); err != nil {
		return dualContinue, &simplexerr.InternalInvariantError{What: "dual btran: " + err.Error()}
	}

	rowAp := s.priceRow(rowEp)
	ratio := ratiotest.Dual(rowAp, leaveDir, s.bas.NonbasicFlag, s.bas.NonbasicMove, s.work.WorkDual, s.opts.DualFeasibilityTolerance)
	if ratio.Unbounded {
		s.captureDualRay(rowOut, leaveDir, rowEp)
		return dualNoPivot, nil
	}

	column, ok := s.ftranColumnWithRetry(ratio.EnterVar, rowOut, ratio.PivotValue)
	if !ok {
		return dualContinue, &simplexerr.InternalInvariantError{What: "dual driver: pivot disagreement not resolved by refactor"}
	}

	var steepestNorm func(i int) float64
	if s.dualWeights.Strategy == pricing.SteepestEdge {
		edge := vecspace.New(s.lp.NumRow)
		edge.Set(rowOut, 1)
		s.analysis.BtranCalls++
		if err := s.fac.Btran(edge, 1.0); err != nil {
			return dualContinue, &simplexerr.InternalInvariantError{What: "dual steepest-edge btran: " + err.Error()}
		}
		s.analysis.FtranCalls++
		if err := s.fac.Ftran(edge, 1.0); err != nil {
			return dualContinue, &simplexerr.InternalInvariantError{What: "dual steepest-edge ftran: " + err.Error()}
		}
		steepestNorm = func(i int) float64 { return edge.At(i) }
	}

	moveOut := basis.MoveDown
	if leaveDir < 0 {
		moveOut = basis.MoveUp
	}
	enterWeight := s.dualWeights.W[rowOut]
	s.bas.UpdatePivots(ratio.EnterVar, rowOut, moveOut, s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
	switch s.dualWeights.Strategy {
	case pricing.Dantzig:
		// weight stays 1 for every row; nothing to update.
	case pricing.SteepestEdge:
		s.dualWeights.UpdateSteepestEdgeAfterPivot(column, rowOut, enterWeight, steepestNorm)
	default:
		s.dualWeights.UpdateDevexAfterPivot(column, rowOut, enterWeight, nil)
	}

	hint, err := s.fac.Update(column, rowEp, rowOut)
	if err != nil {
		return dualContinue, &simplexerr.InternalInvariantError{What: "dual update: " + err.Error()}
	}
	s.analysis.Iterations++
	if hint == factor.HintRefactor {
		if err := s.refactorOrBacktrack(); err != nil {
			return dualContinue, err
		}
	}
	return dualContinue, nil
}

// ftranColumnWithRetry FTRANs the entering column and checks it agrees
// with the value the ratio test priced from the tableau row (the
// numerical pivot-agreement check, §4.6); on disagreement it tightens
// the Markowitz threshold, refactors, and tries again, giving up after
// maxPivotRetries attempts in all.
func (s *Solver) ftranColumnWithRetry(enterVar, rowOut int, priced float64) (*vecspace.Vector, bool) {
	for attempt := 0; attempt < maxPivotRetries; attempt++ {
		column := vecspace.New(s.lp.NumRow)
		s.store.CollectAj(column, enterVar, 1.0)
		s.analysis.FtranCalls++
		if err := s.fac.Ftran(column, 1.0); err != nil {
			return nil, false
		}
		got := column.At(rowOut)
		tol := 1e-8 * (1 + absf(priced))
		if absf(got-priced) <= tol {
			return column, true
		}
		s.fac.SetPivotThreshold(minf(0.9, s.opts.FactorPivotThreshold*2))
		if _, err := s.fac.Build(s.bas.BasicIndex); err != nil {
			return nil, false
		}
		if err := s.recomputeValues(); err != nil {
			return nil, false
		}
	}
	return nil, false
}

// refactorOrBacktrack refactors B from the current basis, restoring
// the last good snapshot and halving the update limit if the refactor
// reports rank deficiency beyond repair.
func (s *Solver) refactorOrBacktrack() error {
	s.takeSnapshot()
	if err := s.rebuild(); err != nil {
		var rd *simplexerr.RankDeficiencyError
		if errors.As(err, &rd) {
			return s.restoreSnapshot()
		}
		return err
	}
	return nil
}

// checkBudget reports whether the iteration or time limit has been
// reached; done is true when the caller should stop and return st. The
// accompanying error wraps simplexerr.ErrBudgetExhausted -- Solve
// unwraps it to decide the exhaustion is a warning, not a solve
// failure, while still letting errors.Is callers detect it downstream.
func (s *Solver) checkBudget() (st ModelStatus, done bool, err error) {
	if s.analysis.Iterations >= s.opts.SimplexIterationLimit {
		return IterationLimitReached, true, &simplexerr.BudgetExhaustedError{Reason: "iteration limit"}
	}
	if s.opts.TimeLimit > 0 && time.Since(s.startTime).Seconds() > s.opts.TimeLimit {
		return TimeLimitReached, true, &simplexerr.BudgetExhaustedError{Reason: "time limit"}
	}
	return NotSet, false, nil
}

// priceRow computes the tableau row for the already-BTRAN'd rowEp
// using whichever PRICE implementation opts.PriceStrategy selects.
func (s *Solver) priceRow(rowEp *vecspace.Vector) *vecspace.Vector {
	rowAp := vecspace.New(s.lp.NumTotal())
	isNonbasic := func(j int) bool { return !s.bas.IsBasic(j) }
	switch s.opts.PriceStrategy {
	case PriceRow:
		s.store.PriceByRowSparseResult(rowAp, rowEp, isNonbasic)
	case PriceRowSwitch, PriceRowSwitchColSwitch:
		s.store.PriceByRowSparseResultWithSwitch(rowAp, rowEp, isNonbasic)
	default:
		s.store.PriceByColumn(rowAp, rowEp)
		matrixstore.ZeroBasicEntries(rowAp, s.bas.IsBasic)
	}
	return rowAp
}

// captureDualRay records the Farkas certificate of infeasibility found
// when the dual ratio test has no entering candidate for a basic row
// that the dual driver could not repair: the row multiplier vector
// y = leaveDir * B^-T e_rowOut, already on hand as rowEp, signed so it
// points in the direction the infeasible row could not be resolved.
func (s *Solver) captureDualRay(rowOut int, leaveDir float64, rowEp *vecspace.Vector) {
	ray := make([]float64, s.lp.NumRow)
	for i := range ray {
		ray[i] = leaveDir * rowEp.At(i)
	}
	s.dualRay = ray
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
