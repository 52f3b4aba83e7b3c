package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// infeasibilitySummary is the count/max/sum triple C10 maintains for
// both primal and dual infeasibility.
type infeasibilitySummary struct {
	Count int
	Max   float64
	Sum   float64
}

// summarizeInfeasibilities filters viol down to entries above tol and
// reduces them with gonum/floats, the same reduction style the
// teacher's gonum/mat-based objective sums use elsewhere.
func summarizeInfeasibilities(viol []float64, tol float64) infeasibilitySummary {
	var kept []float64
	for _, v := range viol {
		if v > tol {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return infeasibilitySummary{}
	}
	return infeasibilitySummary{
		Count: len(kept),
		Sum:   floats.Sum(kept),
		Max:   kept[floats.MaxIdx(kept)],
	}
}

// primalInfeasibilityOf returns max(0, lower-value, value-upper) for a
// single variable, the amount by which it violates its bounds.
func primalInfeasibilityOf(value, lower, upper float64) float64 {
	viol := 0.0
	if d := lower - value; d > viol {
		viol = d
	}
	if d := value - upper; d > viol {
		viol = d
	}
	return viol
}

// computePrimalInfeasibilities scans nonbasic variables (against
// workLower/workUpper/workValue) and basic rows (against
// baseLower/baseUpper/baseValue), returning the aggregate summary.
func (s *Solver) computePrimalInfeasibilities() infeasibilitySummary {
	viol := make([]float64, 0, s.lp.NumTotal())
	for v := 0; v < s.lp.NumTotal(); v++ {
		if s.bas.IsBasic(v) {
			continue
		}
		viol = append(viol, primalInfeasibilityOf(s.work.WorkValue[v], s.work.WorkLower[v], s.work.WorkUpper[v]))
	}
	for i := range s.bas.BasicIndex {
		viol = append(viol, primalInfeasibilityOf(s.work.BaseValue[i], s.work.BaseLower[i], s.work.BaseUpper[i]))
	}
	return summarizeInfeasibilities(viol, s.opts.PrimalFeasibilityTolerance)
}

// rowInfeasibilities returns, for every basic row, the amount by
// which its current value violates its working bounds -- the raw
// input to the dual driver's leaving-row pricing.
func (s *Solver) rowInfeasibilities() []float64 {
	out := make([]float64, len(s.bas.BasicIndex))
	for i := range out {
		out[i] = primalInfeasibilityOf(s.work.BaseValue[i], s.work.BaseLower[i], s.work.BaseUpper[i])
	}
	return out
}

// dualInfeasibilityOf is |dual| for a free variable, or
// -move*dual (only positive when the sign is wrong) otherwise.
func dualInfeasibilityOf(move int8, dual float64) float64 {
	if move == 0 {
		return math.Abs(dual)
	}
	v := -float64(move) * dual
	if v < 0 {
		return 0
	}
	return v
}

// computeDualInfeasibilities scans every nonbasic variable.
func (s *Solver) computeDualInfeasibilities() infeasibilitySummary {
	viol := make([]float64, 0, s.lp.NumTotal())
	for v := 0; v < s.lp.NumTotal(); v++ {
		if s.bas.IsBasic(v) {
			continue
		}
		viol = append(viol, dualInfeasibilityOf(int8(s.bas.NonbasicMove[v]), s.work.WorkDual[v]))
	}
	return summarizeInfeasibilities(viol, s.opts.DualFeasibilityTolerance)
}

// computePrimalObjective dots the structural workValue entries with
// the LP's original column costs and adds the offset. Logicals carry
// no cost, and since the original costs are used the value is already
// in the LP's own sense; no sign is applied.
func (s *Solver) computePrimalObjective() float64 {
	return floats.Dot(s.work.WorkValue[:s.lp.NumCol], s.lp.ColCost) + s.lp.Offset
}

// computeDualObjective sums (workValue*workDual) over nonbasic
// variables, scaled by cost scale (1 here; no scaling subsystem), plus
// the offset with sign per phase.
func (s *Solver) computeDualObjective(includeOffset bool) float64 {
	total := 0.0
	for v := 0; v < s.lp.NumTotal(); v++ {
		if s.bas.IsBasic(v) {
			continue
		}
		total += s.work.WorkValue[v] * s.work.WorkDual[v]
	}
	if includeOffset {
		total += s.lp.SenseSign() * s.lp.Offset
	}
	return total
}
