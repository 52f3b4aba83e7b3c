package core

import (
	"math"

	"github.com/fbarros/revsimplex/internal/basis"
)

// setDualPhase1Bounds installs the artificial bounds the dual
// driver's phase 1 uses (§4.7/§4.8): chosen so that any dual-feasible
// point sets the corresponding primal value to zero, and any
// dual-infeasible point is penalised by a unit primal infeasibility
// in the direction the dual value needs to move -- making the phase-1
// dual objective the negation of the sum of primal infeasibilities.
// Row (logical) free variables are left untouched, since they should
// never be nonbasic starting from a logical basis.
func (s *Solver) setDualPhase1Bounds() {
	n := s.lp.NumCol
	for j := 0; j < s.lp.NumTotal(); j++ {
		lo, up := s.work.WorkLower[j], s.work.WorkUpper[j]
		loInf, upInf := math.IsInf(lo, -1), math.IsInf(up, 1)
		switch {
		case loInf && upInf:
			if j >= n {
				continue
			}
			s.work.WorkLower[j], s.work.WorkUpper[j] = -1000, 1000
		case loInf:
			s.work.WorkLower[j], s.work.WorkUpper[j] = -1, 0
		case upInf:
			s.work.WorkLower[j], s.work.WorkUpper[j] = 0, 1
		default:
			s.work.WorkLower[j], s.work.WorkUpper[j] = 0, 0
		}
	}
	s.work.RecomputeRange()
}

// enterDualPhase1 installs the artificial bounds and brings every
// nonbasic variable to whichever artificial bound its (unchanged)
// move points at, then repairs any dual infeasibility this exposes.
// Under the artificial substitution every nonbasic structural variable
// is either boxed or fixed: correctDual flips a boxed one to its other
// bound and, since cost shifting is allowed here, shifts the cost of
// any other dual-infeasible variable, so fallbackToPrimal is always
// false on this path.
func (s *Solver) enterDualPhase1() (fallbackToPrimal bool, err error) {
	s.perturbCosts()
	s.perturbed = true
	if err := s.rebuild(); err != nil {
		return false, err
	}
	s.setDualPhase1Bounds()
	s.bas.InitialiseNonbasicValueAndMove(s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
	fallbackToPrimal = s.correctDual(true)
	if err := s.recomputeValues(); err != nil {
		return false, err
	}
	return fallbackToPrimal, nil
}

// leaveDualPhase1 restores real bounds/moves and refreshes primal and
// dual values against them, handing off to phase 2.
func (s *Solver) leaveDualPhase1() error {
	s.restoreOriginalBounds()
	return s.rebuild()
}

// restoreOriginalBounds resets workLower/workUpper to the LP's
// (unperturbed) augmented bounds, used when leaving phase 1 or
// restarting without perturbation. A variable genuinely boxed in the
// real LP keeps whatever side phase 1 flipped it to; a variable that
// was only boxed because of the artificial substitution has its move
// forced back to the one side its real (possibly infinite) bound
// pattern allows, since the artificial flip carries no meaning once
// the tiny bound it pointed at is gone.
func (s *Solver) restoreOriginalBounds() {
	for j := 0; j < s.lp.NumTotal(); j++ {
		lo, up := s.lp.AugmentedBounds(j)
		s.work.WorkLower[j] = lo
		s.work.WorkUpper[j] = up
		if s.bas.IsBasic(j) {
			continue
		}
		loFinite, upFinite := !math.IsInf(lo, -1), !math.IsInf(up, 1)
		if loFinite && upFinite {
			continue // genuinely boxed: keep phase 1's choice of side
		}
		switch {
		case loFinite:
			s.bas.NonbasicMove[j] = basis.MoveUp
		case upFinite:
			s.bas.NonbasicMove[j] = basis.MoveDown
		default:
			s.bas.NonbasicMove[j] = basis.Fixed
		}
	}
	s.work.RecomputeRange()
	s.bas.InitialiseNonbasicValueAndMove(s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
}
