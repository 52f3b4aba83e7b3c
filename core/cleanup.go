package core

import "github.com/fbarros/revsimplex/internal/pricing"

const cleanupIterationLimit = 1000

// cleanup undoes whichever perturbation the driver that reached
// Optimal applied -- workCost is reset from the LP's own costs, which
// drops the dual driver's cost perturbation together with any shifts
// recorded in workShift, and the primal driver's bound perturbation is
// dropped by restoring the LP's bounds -- and then runs a bounded
// number of ordinary pivots against the real problem to resolve
// whatever infeasibility perturbation had been masking.
func (s *Solver) cleanup() error {
	sign := s.lp.SenseSign()
	for v := range s.work.WorkShift {
		s.work.WorkCost[v] = sign * s.lp.AugmentedCost(v)
		s.work.WorkShift[v] = 0
	}
	s.restoreOriginalBounds()
	s.perturbed = false
	if err := s.rebuild(); err != nil {
		return err
	}
	return s.resolveResidualInfeasibility()
}

// resolveResidualInfeasibility alternates dual and primal pivots,
// picking whichever mechanism addresses the infeasibility still
// present, until both vanish or a driver reports it can't make
// further progress. Per §4.7, cleanup always prices with Devex
// regardless of the strategy the solve was configured with, so the
// configured weights are swapped out for the duration of the pass and
// restored before returning.
func (s *Solver) resolveResidualInfeasibility() error {
	savedDual, savedPrimal := s.dualWeights, s.primalWeights
	s.dualWeights = pricing.NewDevex(s.lp.NumRow)
	s.primalWeights = pricing.NewDevex(s.lp.NumTotal())
	defer func() { s.dualWeights, s.primalWeights = savedDual, savedPrimal }()

	for iter := 0; iter < cleanupIterationLimit; iter++ {
		primal := s.computePrimalInfeasibilities()
		dual := s.computeDualInfeasibilities()
		if primal.Count == 0 && dual.Count == 0 {
			return nil
		}
		if primal.Count > 0 {
			out, err := s.dualStep()
			if err != nil {
				return err
			}
			if out != dualContinue {
				break
			}
		} else {
			out, err := s.primalPivot(s.work.BaseLower, s.work.BaseUpper)
			if err != nil {
				return err
			}
			if out != primalPivoted {
				break
			}
		}
		if err := s.recomputeValues(); err != nil {
			return err
		}
	}
	return nil
}
