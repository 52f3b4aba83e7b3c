package core

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solution is the primal/dual values for original columns and rows,
// plus the status they were computed under.
type Solution struct {
	Status ModelStatus

	ColValue []float64
	ColDual  []float64
	RowValue []float64
	RowDual  []float64

	ObjectiveValue float64

	// PrimalRay is the unbounded-ray certificate (length NumCol), set
	// only when Status is Unbounded.
	PrimalRay []float64
	// DualRay is the infeasibility-ray certificate (length NumRow), set
	// only when Status is Infeasible.
	DualRay []float64
}

func (s *Solution) IsOptimal() bool { return s.Status == Optimal }
func (s *Solution) IsInfeasible() bool {
	return s.Status == Infeasible || s.Status == UnboundedOrInfeasible
}
func (s *Solution) IsUnbounded() bool {
	return s.Status == Unbounded || s.Status == UnboundedOrInfeasible
}

// ColValueVec returns the column solution as a gonum vector, for
// callers that want to feed it into further gonum/mat computation
// rather than a plain slice.
func (s *Solution) ColValueVec() *mat.VecDense {
	return mat.NewVecDense(len(s.ColValue), s.ColValue)
}

// Format implements fmt.Formatter via mat.Formatted, printing the
// column solution the way the teacher's model.PrintC printed its
// coefficient row.
func (s *Solution) Format(f fmt.State, verb rune) {
	mat.Formatted(s.ColValueVec().T(), mat.Prefix("    "), mat.Squeeze()).Format(f, verb)
}

// Analysis accumulates the counters a caller can inspect after Solve
// returns: iteration/rebuild/flip counts, FTRAN/BTRAN totals, and the
// model status each driver run reported (the dispatched driver, then
// the primal restart when one happens).
type Analysis struct {
	Iterations        int
	Rebuilds          int
	BoundFlips        int
	RankDeficiencyFixes int
	FtranCalls        int
	BtranCalls        int
	StatusHistory     []ModelStatus
}

func (a *Analysis) recordStatus(s ModelStatus) {
	a.StatusHistory = append(a.StatusHistory, s)
}
