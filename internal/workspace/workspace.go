// Package workspace holds the per-variable and per-row working arrays
// (C5) the drivers mutate during a solve: working cost/bounds/value/
// dual/shift for every augmented variable, and the basic value/bounds
// indexed by row.
package workspace

import "github.com/fbarros/revsimplex/lp"

// Arrays is the mutable scratch state for one solve. The canonical LP
// is never mutated; everything here is a working copy that phase-1
// bounds, perturbation, and shifts are free to distort.
type Arrays struct {
	WorkCost  []float64 // length N
	WorkLower []float64
	WorkUpper []float64
	WorkRange []float64 // WorkUpper - WorkLower
	WorkValue []float64
	WorkDual  []float64
	WorkShift []float64

	BaseValue []float64 // length m, indexed by row
	BaseLower []float64
	BaseUpper []float64

	UpdateCount int
}

// New allocates arrays for n+m augmented variables and m rows.
func New(numTotal, numRow int) *Arrays {
	return &Arrays{
		WorkCost:  make([]float64, numTotal),
		WorkLower: make([]float64, numTotal),
		WorkUpper: make([]float64, numTotal),
		WorkRange: make([]float64, numTotal),
		WorkValue: make([]float64, numTotal),
		WorkDual:  make([]float64, numTotal),
		WorkShift: make([]float64, numTotal),
		BaseValue: make([]float64, numRow),
		BaseLower: make([]float64, numRow),
		BaseUpper: make([]float64, numRow),
	}
}

// ResetToLP repopulates WorkCost/WorkLower/WorkUpper from the
// canonical LP, sign-flipped for maximization, and recomputes
// WorkRange. WorkShift is zeroed; WorkValue/WorkDual are left for the
// caller to (re)initialise once a basis is known.
func (a *Arrays) ResetToLP(model *lp.LP) {
	sign := model.SenseSign()
	for j := 0; j < model.NumTotal(); j++ {
		a.WorkCost[j] = sign * model.AugmentedCost(j)
		lo, up := model.AugmentedBounds(j)
		a.WorkLower[j] = lo
		a.WorkUpper[j] = up
		a.WorkRange[j] = up - lo
		a.WorkShift[j] = 0
	}
	a.UpdateCount = 0
}

// RecomputeRange refreshes WorkRange after WorkLower/WorkUpper change
// (e.g. under phase-1 or perturbed bounds).
func (a *Arrays) RecomputeRange() {
	for j := range a.WorkRange {
		a.WorkRange[j] = a.WorkUpper[j] - a.WorkLower[j]
	}
}

// SyncBaseBounds copies working bounds for the current basic index
// into BaseLower/BaseUpper, in row order.
func (a *Arrays) SyncBaseBounds(basicIndex []int) {
	for i, v := range basicIndex {
		a.BaseLower[i] = a.WorkLower[v]
		a.BaseUpper[i] = a.WorkUpper[v]
	}
}
