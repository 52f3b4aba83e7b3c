package core

import (
	"errors"
	"time"

	"github.com/fbarros/revsimplex/simplexerr"
)

// Solve runs the driver selected by options (§6) and returns the
// coarse outcome category alongside the model status retrievable via
// Status. A dual driver that reports UnboundedOrInfeasible is
// ambiguous on its own (§7), so Solve always resolves it with a
// primal restart before settling on a final status.
func (s *Solver) Solve() (SolveStatus, error) {
	if s.lp == nil {
		return SolveError, simplexerr.NewInvalidInput("lp", "no LP installed")
	}
	if !s.basisIsSet {
		if err := s.InitialiseSimplexLpBasisAndFactor(false); err != nil {
			return SolveError, err
		}
	}

	s.startTime = time.Now()
	s.analysis = Analysis{}
	s.perturbed = false
	s.primalRay = nil
	s.dualRay = nil

	status, err := s.dispatch()
	if err = unwrapBudgetExhausted(err); err != nil {
		s.status = NotSet
		return SolveError, err
	}
	s.analysis.recordStatus(status)

	if status == UnboundedOrInfeasible {
		status, err = s.runPrimal()
		if err = unwrapBudgetExhausted(err); err != nil {
			s.status = NotSet
			return SolveError, err
		}
		s.analysis.recordStatus(status)
	}

	if status == Optimal && s.perturbed {
		if err := s.cleanup(); err != nil {
			s.status = NotSet
			return SolveError, err
		}
	}

	// Only the ray matching the final status is a valid certificate: a
	// dual driver's ambiguous UnboundedOrInfeasible report may have set
	// dualRay before the primal restart settled on Unbounded instead,
	// and vice versa.
	switch status {
	case Unbounded:
		s.dualRay = nil
	case Infeasible:
		s.primalRay = nil
	default:
		s.primalRay = nil
		s.dualRay = nil
	}

	s.status = status
	switch status {
	case IterationLimitReached, TimeLimitReached, ObjectiveBoundReached:
		return SolveWarning, nil
	default:
		return SolveOk, nil
	}
}

// unwrapBudgetExhausted clears a driver error that is only
// simplexerr.ErrBudgetExhausted: checkBudget's status return value
// (IterationLimitReached/TimeLimitReached) already carries the
// outcome, so the error exists for errors.Is callers, not to fail the
// solve.
func unwrapBudgetExhausted(err error) error {
	if errors.Is(err, simplexerr.ErrBudgetExhausted) {
		return nil
	}
	return err
}

// dispatch picks a driver per opts.SimplexStrategy. StrategyChoose
// follows the documented rule: dual when the current basis is not
// already primal feasible, primal otherwise (§6) -- checked once,
// against the factor freshly built for the current basis, before any
// perturbation is applied.
func (s *Solver) dispatch() (ModelStatus, error) {
	switch s.opts.SimplexStrategy {
	case StrategyPrimal:
		return s.runPrimal()
	case StrategyDual, StrategyDualTasks, StrategyDualMulti:
		return s.runDualWithFallback()
	default:
		if err := s.rebuild(); err != nil {
			return NotSet, err
		}
		if s.computePrimalInfeasibilities().Count == 0 {
			return s.runPrimal()
		}
		return s.runDualWithFallback()
	}
}

// runDualWithFallback runs the dual driver and, if it signals that it
// couldn't establish or maintain dual feasibility under phase-1
// bounds, hands the problem to the primal driver instead (§7's
// "automatic primal restart").
func (s *Solver) runDualWithFallback() (ModelStatus, error) {
	status, err := s.runDual()
	if errors.Is(err, errNeedsPrimalPhase1) {
		return s.runPrimal()
	}
	return status, err
}
