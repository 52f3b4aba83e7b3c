package core

import "math"

const perturbationBase = 5e-7

// bigC approximates HiGHS's "bigc" scale factor: the largest
// magnitude original cost, square-rooted twice once it exceeds 100,
// and clamped to at most 1 when almost no variable is boxed --
// keeping perturbation small relative to the objective either way.
func (s *Solver) bigC() float64 {
	bigc := 0.0
	for j := 0; j < s.lp.NumCol; j++ {
		if a := math.Abs(s.lp.ColCost[j]); a > bigc {
			bigc = a
		}
	}
	if bigc > 100 {
		bigc = math.Sqrt(math.Sqrt(bigc))
	}
	boxed := 0
	for v := 0; v < s.lp.NumTotal(); v++ {
		if s.work.WorkRange[v] < 1e30 {
			boxed++
		}
	}
	boxedRate := float64(boxed) / float64(s.lp.NumTotal())
	if boxedRate < 0.01 && bigc > 1 {
		bigc = 1
	}
	return bigc
}

// perturbCosts applies dual cost perturbation (§4.8): every
// structural variable's workCost is shifted by a small signed random
// amount depending on its bound pattern, and logical rows get a tiny
// symmetric perturbation.
func (s *Solver) perturbCosts() {
	mult := s.opts.CostPerturbationMultiplier
	if mult == 0 {
		return
	}
	base := perturbationBase * s.bigC()
	n := s.lp.NumCol
	for j := 0; j < n; j++ {
		lo, up := s.lp.ColLower[j], s.lp.ColUpper[j]
		loFinite, upFinite := !math.IsInf(lo, -1), !math.IsInf(up, 1)
		xpert := (math.Abs(s.work.WorkCost[j]) + 1) * base * mult * (1 + s.rng.Float64())
		switch {
		case !loFinite && !upFinite:
			// free: no perturbation
		case !upFinite:
			s.work.WorkCost[j] += xpert
		case !loFinite:
			s.work.WorkCost[j] -= xpert
		case lo != up:
			if s.work.WorkCost[j] >= 0 {
				s.work.WorkCost[j] += xpert
			} else {
				s.work.WorkCost[j] -= xpert
			}
		default:
			// fixed: no perturbation
		}
	}
	for v := n; v < s.lp.NumTotal(); v++ {
		s.work.WorkCost[v] += (0.5 - s.rng.Float64()) * mult * 1e-12
	}
}

// perturbBounds applies primal bound perturbation (§4.8): every
// finite bound is shifted by a random fraction of a base amount
// scaled by the bound's own magnitude, skipping fixed nonbasic
// variables.
func (s *Solver) perturbBounds() {
	mult := s.opts.BoundPerturbationMultiplier
	if mult == 0 {
		return
	}
	base := perturbationBase * mult
	for v := 0; v < s.lp.NumTotal(); v++ {
		if !s.bas.IsBasic(v) && s.work.WorkLower[v] == s.work.WorkUpper[v] {
			continue // fixed nonbasic: never perturbed
		}
		if !math.IsInf(s.work.WorkLower[v], -1) {
			shift := base * (0.5 - s.rng.Float64()) * (math.Abs(s.work.WorkLower[v]) + 1)
			s.work.WorkLower[v] += shift
		}
		if !math.IsInf(s.work.WorkUpper[v], 1) {
			shift := base * (0.5 - s.rng.Float64()) * (math.Abs(s.work.WorkUpper[v]) + 1)
			s.work.WorkUpper[v] += shift
		}
	}
	s.work.RecomputeRange()
}

// correctDual inspects every nonbasic variable whose reduced cost
// violates dual feasibility and repairs it: boxed variables flip
// bound exactly; one-sided variables have their cost shifted by the
// minimum amount that restores feasibility, recorded in workShift, or
// report that a fallback to primal phase 1 is required when cost
// perturbation/shifting is disallowed.
func (s *Solver) correctDual(allowShift bool) (fallbackToPrimal bool) {
	tol := s.opts.DualFeasibilityTolerance
	for v := 0; v < s.lp.NumTotal(); v++ {
		if s.bas.IsBasic(v) {
			continue
		}
		viol := dualInfeasibilityOf(int8(s.bas.NonbasicMove[v]), s.work.WorkDual[v])
		if viol <= tol {
			continue
		}
		lo, up := s.work.WorkLower[v], s.work.WorkUpper[v]
		boxed := !math.IsInf(lo, -1) && !math.IsInf(up, 1) && lo != up
		if boxed {
			s.bas.FlipBound(v, s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
			continue
		}
		if !allowShift {
			fallbackToPrimal = true
			continue
		}
		shift := viol
		if s.work.WorkDual[v] > 0 {
			shift = -viol
		}
		s.work.WorkShift[v] += shift
		s.work.WorkCost[v] += shift
		s.work.WorkDual[v] += shift
	}
	return fallbackToPrimal
}
