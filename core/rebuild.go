package core

import (
	"github.com/fbarros/revsimplex/internal/basis"
	"github.com/fbarros/revsimplex/internal/factor"
	"github.com/fbarros/revsimplex/internal/pricing"
	"github.com/fbarros/revsimplex/internal/vecspace"
	"github.com/fbarros/revsimplex/simplexerr"
)

// rebuild refactors B from scratch and recomputes primal and dual
// values end to end. Called whenever the factor is stale, after a
// rank-deficiency repair, and unconditionally before the main loop
// starts.
func (s *Solver) rebuild() error {
	if err := s.buildFactorRepairingDeficiency(); err != nil {
		return err
	}
	if s.dualWeights.Strategy != pricing.SteepestEdge {
		s.resetWeights()
	}
	s.analysis.Rebuilds++
	return s.recomputeValues()
}

// recomputeValues refreshes baseValue and workDual against the
// current factorization without refactoring, then the cached
// objective values. The main loop calls this every iteration (cheap:
// the factor's maintained eta chain, not a fresh LU) to keep both
// vectors exact rather than carrying incremental update error across
// many pivots.
func (s *Solver) recomputeValues() error {
	if err := s.refreshBaseValue(); err != nil {
		return err
	}
	if err := s.refreshDual(); err != nil {
		return err
	}
	s.primalObjective = s.computePrimalObjective()
	s.dualObjective = s.computeDualObjective(true)
	return nil
}

// refreshBaseValue recomputes baseValue (and, from it, workValue for
// every basic variable) via FTRAN of the nonbasic contribution to the
// right-hand side. Depends only on the basis and nonbasic values, not
// on cost, so the primal driver's phase-1 composite cost (itself a
// function of baseValue) can call this first and set costs from the
// result before calling refreshDual.
func (s *Solver) refreshBaseValue() error {
	rhs := vecspace.New(s.lp.NumRow)
	for v := 0; v < s.lp.NumTotal(); v++ {
		if s.bas.IsBasic(v) {
			continue
		}
		if val := s.work.WorkValue[v]; val != 0 {
			s.store.CollectAj(rhs, v, -val)
		}
	}
	s.analysis.FtranCalls++
	if err := s.fac.Ftran(rhs, rhs.Density()); err != nil {
		return &simplexerr.InternalInvariantError{What: "ftran failed during rebuild: " + err.Error()}
	}
	copy(s.work.BaseValue, rhs.Array)
	for i, v := range s.bas.BasicIndex {
		s.work.WorkValue[v] = s.work.BaseValue[i]
	}
	s.work.SyncBaseBounds(s.bas.BasicIndex)
	return nil
}

// refreshDual recomputes workDual from the current workCost via BTRAN
// of the basic costs followed by a column-wise PRICE.
func (s *Solver) refreshDual() error {
	cb := vecspace.New(s.lp.NumRow)
	for i, v := range s.bas.BasicIndex {
		if c := s.work.WorkCost[v]; c != 0 {
			cb.Set(i, c)
		}
	}
	s.analysis.BtranCalls++
	if err := s.fac.Btran(cb, cb.Density()); err != nil {
		return &simplexerr.InternalInvariantError{What: "btran failed during rebuild: " + err.Error()}
	}

	rowAp := vecspace.New(s.lp.NumTotal())
	s.store.PriceByColumn(rowAp, cb)
	for v := 0; v < s.lp.NumTotal(); v++ {
		if s.bas.IsBasic(v) {
			s.work.WorkDual[v] = 0
			continue
		}
		s.work.WorkDual[v] = s.work.WorkCost[v] - rowAp.At(v)
	}
	return nil
}

// resetWeights reinitialises edge weights to 1, called from rebuild
// whenever the configured strategy is Dantzig or Devex. Exact
// steepest-edge weights, by contrast, stay valid across a
// refactorization -- they're recomputed from the pivot column/row each
// iteration rather than carried forward from a stale reference frame,
// so rebuild leaves them alone.
func (s *Solver) resetWeights() {
	for i := range s.dualWeights.W {
		s.dualWeights.W[i] = 1
	}
	for i := range s.primalWeights.W {
		s.primalWeights.W[i] = 1
	}
}

// takeSnapshot saves enough state to recover from a failed refactor:
// the basis, both weight vectors, working shifts/bounds, and the
// perturbation flag.
func (s *Solver) takeSnapshot() {
	s.snapshot = &snapshot{
		basicIndex:   append([]int(nil), s.bas.BasicIndex...),
		nonbasicFlag: append([]basis.Flag(nil), s.bas.NonbasicFlag...),
		nonbasicMove: append([]basis.Move(nil), s.bas.NonbasicMove...),
		dualW:        append([]float64(nil), s.dualWeights.W...),
		primalW:      append([]float64(nil), s.primalWeights.W...),
		workShift:    append([]float64(nil), s.work.WorkShift...),
		workLower:    append([]float64(nil), s.work.WorkLower...),
		workUpper:    append([]float64(nil), s.work.WorkUpper...),
		perturbed:    s.perturbed,
		updateLimit:  s.opts.SimplexUpdateLimit,
	}
}

// restoreSnapshot reverts to the last snapshot and halves the update
// limit, the backtracking recovery path (§4.7) taken when a refactor
// reports rank deficiency mid-solve.
func (s *Solver) restoreSnapshot() error {
	if s.snapshot == nil {
		return &simplexerr.RankDeficiencyError{Attempts: 0}
	}
	sn := s.snapshot
	copy(s.bas.BasicIndex, sn.basicIndex)
	copy(s.bas.NonbasicFlag, sn.nonbasicFlag)
	copy(s.bas.NonbasicMove, sn.nonbasicMove)
	copy(s.dualWeights.W, sn.dualW)
	copy(s.primalWeights.W, sn.primalW)
	copy(s.work.WorkShift, sn.workShift)
	copy(s.work.WorkLower, sn.workLower)
	copy(s.work.WorkUpper, sn.workUpper)
	s.work.RecomputeRange()
	s.perturbed = sn.perturbed
	s.opts.SimplexUpdateLimit = maxInt(1, sn.updateLimit/2)
	s.fac = factor.Setup(s.lp.NumRow, s.lp, s.store, s.opts.FactorPivotThreshold, s.opts.FactorPivotTolerance, s.opts.SimplexUpdateLimit)
	return s.rebuild()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
