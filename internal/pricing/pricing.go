// Package pricing implements entering-variable selection (C6):
// Dantzig, Devex, and steepest-edge weighted reduced-cost candidates,
// shared by the primal driver's column choice and the dual driver's
// row choice.
package pricing

import (
	"math"

	"github.com/fbarros/revsimplex/internal/basis"
	"github.com/fbarros/revsimplex/internal/vecspace"
)

// Strategy selects the edge-weight scheme.
type Strategy int

const (
	Dantzig Strategy = iota
	Devex
	SteepestEdge
)

// Weights owns a reference- or exact-norm weight per candidate.
// Primal pricing weighs nonbasic columns (length N); dual pricing
// weighs basic rows (length m). One Weights value is used for each.
type Weights struct {
	Strategy Strategy
	W        []float64
}

// NewDevex returns Devex reference weights, all initialised to 1 as
// required at the start of a Devex framework.
func NewDevex(n int) *Weights {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return &Weights{Strategy: Devex, W: w}
}

// NewDantzig returns a Weights value that always reports weight 1,
// reducing pricing to plain |reduced cost| comparison.
func NewDantzig(n int) *Weights {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return &Weights{Strategy: Dantzig, W: w}
}

// NewSteepestEdge returns exact steepest-edge weights seeded at 1
// (correct for a logical starting basis, where every column's
// projected norm in the basis is 1).
func NewSteepestEdge(n int) *Weights {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return &Weights{Strategy: SteepestEdge, W: w}
}

// Candidate is one pricing choice: the index of the eligible variable
// (or, for dual pricing, the basic row) and the score pricing ranked
// it by.
type Candidate struct {
	Index int
	Score float64
}

const dualFeasTolDefault = 1e-7

// eligible reports whether nonbasic variable v's reduced cost is
// improving given its allowed move direction.
func eligible(move basis.Move, dual float64, tol float64) bool {
	switch move {
	case basis.MoveUp:
		return dual < -tol
	case basis.MoveDown:
		return dual > tol
	default: // free
		return math.Abs(dual) > tol
	}
}

// ChooseEnteringColumn scans nonbasic structural/logical variables
// for the best primal entering candidate: argmax weighted squared
// reduced cost among eligible candidates, ties broken by lowest index.
func (w *Weights) ChooseEnteringColumn(flags []basis.Flag, moves []basis.Move, dual []float64, tol float64) (Candidate, bool) {
	best := Candidate{Index: -1}
	for v := 0; v < len(flags); v++ {
		if flags[v] == basis.IsBasic {
			continue
		}
		d := dual[v]
		if !eligible(moves[v], d, tol) {
			continue
		}
		score := d * d / w.W[v]
		if best.Index == -1 || score > best.Score+1e-12 {
			best = Candidate{Index: v, Score: score}
		}
	}
	return best, best.Index != -1
}

// ChooseLeavingRow scans basic rows for the best dual leaving
// candidate: argmax weighted squared primal infeasibility, ties
// broken by lowest basic-variable index.
func (w *Weights) ChooseLeavingRow(infeas []float64, basicIndex []int, tol float64) (Candidate, bool) {
	best := Candidate{Index: -1}
	for i, inf := range infeas {
		if inf <= tol {
			continue
		}
		score := inf * inf / w.W[i]
		if best.Index == -1 || score > best.Score+1e-12 ||
			(score == best.Score && basicIndex[i] < basicIndex[best.Index]) {
			best = Candidate{Index: i, Score: score}
		}
	}
	return best, best.Index != -1
}

// UpdateDevexAfterPivot advances Devex reference weights after a
// pivot on pivotCol (the FTRAN'd entering column, indexed by basic
// row) with entering variable weight wEnter, following the standard
// cheap Devex update: new weight for each basic row i is
// max(existing, (pivotCol[i]/pivotCol[leaveRow])^2 * wEnter), and the
// leaving variable inherits max(wEnter/alpha^2, 1).
func (w *Weights) UpdateDevexAfterPivot(pivotCol *vecspace.Vector, leaveRow int, enterWeight float64, leavingVarWeight *float64) {
	alpha := pivotCol.At(leaveRow)
	if alpha == 0 {
		return
	}
	ratio := enterWeight / (alpha * alpha)
	pivotCol.Iterate(func(i int, v float64) {
		if i == leaveRow {
			return
		}
		cand := v * v * ratio
		if cand > w.W[i] {
			w.W[i] = cand
		}
	})
	if leavingVarWeight != nil {
		if ratio > 1 {
			*leavingVarWeight = ratio
		} else {
			*leavingVarWeight = 1
		}
	}
}

// UpdateSteepestEdgeAfterPivot advances exact steepest-edge weights
// using the pivot column (FTRAN of the entering column) and
// tableauRowSquaredNorm, which supplies the cross term of the standard
// steepest-edge update formula for each index i. Both drivers compute
// it from the factor before Update applies the pivot (the extra solve
// the exact variant requires beyond Devex).
func (w *Weights) UpdateSteepestEdgeAfterPivot(pivotCol *vecspace.Vector, leaveRow int, gammaEnter float64, tableauRowSquaredNorm func(i int) float64) {
	alpha := pivotCol.At(leaveRow)
	if alpha == 0 {
		return
	}
	pivotCol.Iterate(func(i int, v float64) {
		if i == leaveRow {
			return
		}
		ratio := v / alpha
		w.W[i] = w.W[i] - 2*ratio*tableauRowSquaredNorm(i) + ratio*ratio*gammaEnter
		if w.W[i] < 1e-10 {
			w.W[i] = 1e-10
		}
	})
	w.W[leaveRow] = math.Max(gammaEnter/(alpha*alpha), 1e-10)
}
