// Package ratiotest implements the primal and dual ratio tests (C7):
// a two-pass Harris test that first finds the maximum feasible step
// with a relaxed tolerance, then picks the numerically safest pivot
// among rows that step does not exceed, plus bound-flip detection for
// boxed entering variables.
package ratiotest

import (
	"math"

	"github.com/fbarros/revsimplex/internal/basis"
	"github.com/fbarros/revsimplex/internal/vecspace"
)

const (
	harrisSlack = 1e-9
)

// PrimalResult is the outcome of a primal ratio test.
type PrimalResult struct {
	Flip       bool // true: bound flip, no basis change
	Unbounded  bool
	LeaveRow   int
	PivotValue float64
	Theta      float64 // step length
}

// Primal runs the two-pass Harris ratio test for an entering variable
// moving in direction dir (+1 or -1 along its allowed move) with
// FTRAN'd column alpha (alpha[i] is the rate of change of basic
// variable in row i per unit step of the entering variable). If the
// entering variable is boxed, enterRange is its upper-lower span and a
// cheap bound flip is preferred whenever it is no worse than the best
// blocking row.
func Primal(dir float64, alpha *vecspace.Vector, baseValue, baseLower, baseUpper []float64, feasTol float64, enterRange float64, boxed bool) PrimalResult {
	type blocker struct {
		row   int
		theta float64
		abs   float64
	}
	var blockers []blocker

	alpha.Iterate(func(i int, a float64) {
		rate := dir * a
		if math.Abs(rate) < feasTol*1e-3 {
			return
		}
		var theta float64
		if rate > 0 {
			// basic value decreasing toward its lower bound
			if math.IsInf(baseLower[i], -1) {
				return
			}
			theta = (baseValue[i] - baseLower[i] + harrisSlack) / rate
		} else {
			if math.IsInf(baseUpper[i], 1) {
				return
			}
			theta = (baseValue[i] - baseUpper[i] - harrisSlack) / rate
		}
		if theta < 0 {
			theta = 0
		}
		blockers = append(blockers, blocker{row: i, theta: theta, abs: math.Abs(a)})
	})

	if len(blockers) == 0 {
		if boxed && !math.IsInf(enterRange, 1) {
			return PrimalResult{Flip: true, Theta: enterRange}
		}
		return PrimalResult{Unbounded: true}
	}

	thetaMax := blockers[0].theta
	for _, b := range blockers[1:] {
		if b.theta < thetaMax {
			thetaMax = b.theta
		}
	}

	if boxed && enterRange <= thetaMax {
		return PrimalResult{Flip: true, Theta: enterRange}
	}

	best := -1
	bestAbs := -1.0
	for i, b := range blockers {
		if b.theta > thetaMax {
			continue
		}
		if b.abs > bestAbs {
			bestAbs = b.abs
			best = i
		}
	}
	chosen := blockers[best]
	return PrimalResult{
		LeaveRow:   chosen.row,
		PivotValue: alpha.At(chosen.row),
		Theta:      thetaMax,
	}
}

// DualResult is the outcome of a dual ratio test over the tableau row.
type DualResult struct {
	Found      bool
	Unbounded  bool // dual infeasible / primal unbounded along this row
	EnterVar   int
	Step       float64
	PivotValue float64
}

// Dual runs the ratio test over the priced tableau row rowAp for a
// leaving row whose basic variable is infeasible in direction
// leaveDir (+1 meaning the basic value is above its upper bound and
// must decrease, -1 meaning it is below its lower bound and must
// increase). Candidates are nonbasic variables whose entry sign is
// consistent with restoring dual feasibility as the pivot is applied;
// the minimum ratio |workDual[v]/rowAp[v]| selects the entering
// variable. Ratios within dualFeasTol of the current best count as
// ties: a candidate with a lower index than the current best replaces
// it, and otherwise one with a larger |rowAp[v]| does.
func Dual(rowAp *vecspace.Vector, leaveDir float64, flags []basis.Flag, moves []basis.Move, workDual []float64, dualFeasTol float64) DualResult {
	best := DualResult{EnterVar: -1}
	bestAbsA := 0.0
	rowAp.Iterate(func(v int, a float64) {
		if flags[v] == basis.IsBasic {
			return
		}
		signed := leaveDir * a
		var wantSign float64
		switch moves[v] {
		case basis.MoveUp:
			wantSign = 1
		case basis.MoveDown:
			wantSign = -1
		default:
			wantSign = 0 // free: either sign can enter
		}
		if wantSign != 0 && signed*wantSign <= 0 {
			return
		}
		ratio := math.Abs(workDual[v]) / math.Abs(signed)
		if !best.Found || ratio < best.Step-1e-12 ||
			(math.Abs(ratio-best.Step) <= dualFeasTol && v < best.EnterVar) {
			best = DualResult{Found: true, EnterVar: v, Step: ratio, PivotValue: a}
			bestAbsA = math.Abs(a)
		} else if math.Abs(ratio-best.Step) <= dualFeasTol && math.Abs(a) > bestAbsA {
			best = DualResult{Found: true, EnterVar: v, Step: ratio, PivotValue: a}
			bestAbsA = math.Abs(a)
		}
	})
	if !best.Found {
		return DualResult{Unbounded: true, EnterVar: -1}
	}
	return best
}
