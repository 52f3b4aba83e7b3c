package core

import (
	"math"

	"github.com/fbarros/revsimplex/internal/basis"
	"github.com/fbarros/revsimplex/internal/factor"
	"github.com/fbarros/revsimplex/internal/pricing"
	"github.com/fbarros/revsimplex/internal/ratiotest"
	"github.com/fbarros/revsimplex/internal/vecspace"
)

// primalOutcome is the result of one primalPivot call.
type primalOutcome int

const (
	primalPivoted     primalOutcome = iota // pivoted or flipped; keep iterating
	primalNoCandidate                      // no eligible entering column
	primalUnbounded                        // ratio test found no blocking row
)

// runPrimal drives the primal simplex in two stages, sharing the
// pivot mechanics in primalPivot: phase 1 minimises a composite
// objective (unit cost on each infeasible basic variable, pointed
// toward feasibility) over a bound set relaxed so a row already
// outside its real bounds only blocks on the far side, until every
// basic row is feasible; phase 2 restores the real cost and repeats
// against the real bounds, now targeting optimality.
func (s *Solver) runPrimal() (ModelStatus, error) {
	if err := s.rebuild(); err != nil {
		return NotSet, err
	}
	s.perturbBounds()
	s.perturbed = true
	if err := s.rebuild(); err != nil {
		return NotSet, err
	}
	savedCost := append([]float64(nil), s.work.WorkCost...)

	for {
		if st, done, err := s.checkBudget(); done {
			return st, err
		}
		if err := s.refreshBaseValue(); err != nil {
			return NotSet, err
		}
		if s.setPrimalPhase1Costs() == 0 {
			break
		}
		if err := s.refreshDual(); err != nil {
			return NotSet, err
		}
		lo, up := s.primalPhase1Bounds()
		outcome, err := s.primalPivot(lo, up)
		if err != nil {
			return NotSet, err
		}
		switch outcome {
		case primalNoCandidate:
			return Infeasible, nil
		case primalUnbounded:
			return UnboundedOrInfeasible, nil
		}
	}

	copy(s.work.WorkCost, savedCost)
	if err := s.rebuild(); err != nil {
		return NotSet, err
	}

	for {
		if st, done, err := s.checkBudget(); done {
			return st, err
		}
		if err := s.recomputeValues(); err != nil {
			return NotSet, err
		}
		outcome, err := s.primalPivot(s.work.BaseLower, s.work.BaseUpper)
		if err != nil {
			return NotSet, err
		}
		switch outcome {
		case primalNoCandidate:
			return Optimal, nil
		case primalUnbounded:
			return Unbounded, nil
		}
	}
}

// primalPivot selects the entering column by most-eligible reduced
// cost, FTRANs it, ratio-tests against the supplied basic-row bounds
// (the real bounds in phase 2, phase-1-relaxed bounds in phase 1), and
// either flips a boxed entering variable's bound or pivots it into the
// basis.
func (s *Solver) primalPivot(baseLower, baseUpper []float64) (primalOutcome, error) {
	cand, ok := s.primalWeights.ChooseEnteringColumn(s.bas.NonbasicFlag, s.bas.NonbasicMove, s.work.WorkDual, s.opts.DualFeasibilityTolerance)
	if !ok {
		return primalNoCandidate, nil
	}
	enterVar := cand.Index

	var dir float64
	switch s.bas.NonbasicMove[enterVar] {
	case basis.MoveUp:
		dir = 1
	case basis.MoveDown:
		dir = -1
	default:
		if s.work.WorkDual[enterVar] < 0 {
			dir = 1
		} else {
			dir = -1
		}
	}

	column := vecspace.New(s.lp.NumRow)
	s.store.CollectAj(column, enterVar, 1.0)
	s.analysis.FtranCalls++
	if err := s.fac.Ftran(column, 1.0); err != nil {
		return primalPivoted, err
	}

	lo, up := s.work.WorkLower[enterVar], s.work.WorkUpper[enterVar]
	boxed := !math.IsInf(lo, -1) && !math.IsInf(up, 1) && lo != up
	result := ratiotest.Primal(dir, column, s.work.BaseValue, baseLower, baseUpper, s.opts.PrimalFeasibilityTolerance, s.work.WorkRange[enterVar], boxed)
	if result.Unbounded {
		s.capturePrimalRay(enterVar, dir, column)
		return primalUnbounded, nil
	}
	if result.Flip {
		s.bas.FlipBound(enterVar, s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
		s.analysis.BoundFlips++
		return primalPivoted, nil
	}

	// The entering-variable weight update needs the tableau row for the
	// leaving row, not the column already on hand: an extra BTRAN of
	// e_leaveRow through the still-unpivoted basis, priced against every
	// nonbasic variable (§4.5's "weights updated from the pivot column"
	// reads symmetrically here as the pivot row, since primal weights
	// are indexed by column rather than by row).
	var rowAp *vecspace.Vector
	if s.primalWeights.Strategy != pricing.Dantzig {
		edge := vecspace.New(s.lp.NumRow)
		edge.Set(result.LeaveRow, 1)
		s.analysis.BtranCalls++
		if err := s.fac.Btran(edge, 1.0); err != nil {
			return primalPivoted, err
		}
		rowAp = s.priceRow(edge)
	}

	oldBasicVar := s.bas.BasicIndex[result.LeaveRow]
	enterWeight := s.primalWeights.W[enterVar]
	switch s.primalWeights.Strategy {
	case pricing.Dantzig:
		// weight stays 1 for every column; nothing to update.
	case pricing.SteepestEdge:
		dotEdge := vecspace.New(s.lp.NumRow)
		dotEdge.CopyFromDense(column.Array)
		s.analysis.BtranCalls++
		if err := s.fac.Btran(dotEdge, 1.0); err != nil {
			return primalPivoted, err
		}
		dotRow := s.priceRow(dotEdge)
		alpha := rowAp.At(enterVar)
		leavingWeight := enterWeight / (alpha * alpha)
		if leavingWeight < 1e-10 {
			leavingWeight = 1e-10
		}
		s.primalWeights.UpdateSteepestEdgeAfterPivot(rowAp, enterVar, enterWeight, func(j int) float64 { return dotRow.At(j) })
		s.primalWeights.W[oldBasicVar] = leavingWeight
	default:
		var leavingWeight float64
		s.primalWeights.UpdateDevexAfterPivot(rowAp, enterVar, enterWeight, &leavingWeight)
		s.primalWeights.W[oldBasicVar] = leavingWeight
	}

	rate := dir * result.PivotValue
	moveOut := basis.MoveDown
	if rate > 0 {
		moveOut = basis.MoveUp
	}
	s.bas.UpdatePivots(enterVar, result.LeaveRow, moveOut, s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)

	hint, err := s.fac.Update(column, nil, result.LeaveRow)
	if err != nil {
		return primalPivoted, err
	}
	s.analysis.Iterations++
	if hint == factor.HintRefactor {
		if err := s.refactorOrBacktrack(); err != nil {
			return primalPivoted, err
		}
	}
	return primalPivoted, nil
}

// setPrimalPhase1Costs rebuilds the composite phase-1 cost vector
// from the current base values: zero on every nonbasic variable, and
// on each basic variable +1 if it sits above its upper bound (cost
// rewards decreasing it), -1 if below its lower bound (cost rewards
// increasing it), 0 if feasible. Returns the number of infeasible
// rows found.
func (s *Solver) setPrimalPhase1Costs() int {
	for v := range s.work.WorkCost {
		s.work.WorkCost[v] = 0
	}
	tol := s.opts.PrimalFeasibilityTolerance
	count := 0
	for i, v := range s.bas.BasicIndex {
		val, lo, up := s.work.BaseValue[i], s.work.BaseLower[i], s.work.BaseUpper[i]
		switch {
		case val > up+tol:
			s.work.WorkCost[v] = 1
			count++
		case val < lo-tol:
			s.work.WorkCost[v] = -1
			count++
		}
	}
	return count
}

// primalPhase1Bounds relaxes the bound a basic row currently violates
// to infinity, leaving the far bound active -- a row already above
// its upper bound no longer blocks there, but still blocks if it
// would overshoot past its lower bound; this is what lets the
// composite objective make progress instead of stalling on the first
// already-infeasible row the ratio test meets.
func (s *Solver) primalPhase1Bounds() (lo, up []float64) {
	lo = append([]float64(nil), s.work.BaseLower...)
	up = append([]float64(nil), s.work.BaseUpper...)
	for i := range lo {
		if s.work.BaseValue[i] > up[i] {
			up[i] = math.Inf(1)
		}
		if s.work.BaseValue[i] < lo[i] {
			lo[i] = math.Inf(-1)
		}
	}
	return lo, up
}

// capturePrimalRay records the unbounded ray the ratio test found no
// blocker for: the entering variable moves by dir per unit step, and
// from x_B = baseValue - column*dir*step, each basic variable moves by
// -dir*column[i] per unit step -- the standard certificate that the
// objective improves without bound along this direction.
func (s *Solver) capturePrimalRay(enterVar int, dir float64, column *vecspace.Vector) {
	ray := make([]float64, s.lp.NumTotal())
	ray[enterVar] = dir
	for i, v := range s.bas.BasicIndex {
		ray[v] = -dir * column.At(i)
	}
	s.primalRay = ray[:s.lp.NumCol]
}
