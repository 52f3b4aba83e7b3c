// Package lp defines the canonical linear program the simplex core
// consumes: a sparse constraint matrix, objective, and row/column
// bounds, plus the augmented [A | I] view used internally by the
// solver.
package lp

import (
	"errors"
	"fmt"
	"math"
)

// Sense is the optimization direction.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// Inf and NegInf mark unbounded sides the same way bartolsthoorn-gohighs
// does for its Model.
func Inf() float64    { return math.Inf(1) }
func NegInf() float64 { return math.Inf(-1) }

// LP is a sparse linear program in column-wise (CSC) form:
//
//	minimize/maximize  c^T x + offset
//	subject to         RowLower <= A x <= RowUpper
//	                    ColLower <= x  <= ColUpper
type LP struct {
	NumRow int
	NumCol int

	// Column-wise constraint matrix, CSC: column j occupies
	// AIndex[AStart[j]:AStart[j+1]] / AValue[AStart[j]:AStart[j+1]].
	AStart []int
	AIndex []int
	AValue []float64

	ColCost  []float64
	ColLower []float64
	ColUpper []float64

	RowLower []float64
	RowUpper []float64

	Sense  Sense
	Offset float64
}

// New returns an LP with the given dimensions, no matrix entries and
// zero costs; every column is bounded to [0, +Inf) and every row to
// [0, 0]. Callers fill in ColCost/bounds and the matrix afterward.
func New(numRow, numCol int) *LP {
	lp := &LP{
		NumRow:   numRow,
		NumCol:   numCol,
		AStart:   make([]int, numCol+1),
		ColCost:  make([]float64, numCol),
		ColLower: make([]float64, numCol),
		ColUpper: make([]float64, numCol),
		RowLower: make([]float64, numRow),
		RowUpper: make([]float64, numRow),
	}
	for j := range lp.ColLower {
		lp.ColLower[j] = 0
		lp.ColUpper[j] = Inf()
	}
	return lp
}

// Validate checks internal consistency: dimensions agree, AStart is
// monotone, and every bound pair is non-inverted (l <= u, L <= U).
func (lp *LP) Validate() error {
	if lp.NumRow < 0 || lp.NumCol < 0 {
		return errors.New("lp: negative dimension")
	}
	if len(lp.AStart) != lp.NumCol+1 {
		return fmt.Errorf("lp: AStart length %d, want %d", len(lp.AStart), lp.NumCol+1)
	}
	for j := 0; j < lp.NumCol; j++ {
		if lp.AStart[j] > lp.AStart[j+1] {
			return fmt.Errorf("lp: AStart not monotone at column %d", j)
		}
	}
	if len(lp.AIndex) != len(lp.AValue) {
		return errors.New("lp: AIndex/AValue length mismatch")
	}
	for _, r := range lp.AIndex {
		if r < 0 || r >= lp.NumRow {
			return fmt.Errorf("lp: row index %d out of range [0,%d)", r, lp.NumRow)
		}
	}
	if len(lp.ColCost) != lp.NumCol || len(lp.ColLower) != lp.NumCol || len(lp.ColUpper) != lp.NumCol {
		return errors.New("lp: column array length mismatch")
	}
	if len(lp.RowLower) != lp.NumRow || len(lp.RowUpper) != lp.NumRow {
		return errors.New("lp: row array length mismatch")
	}
	for j := 0; j < lp.NumCol; j++ {
		if lp.ColLower[j] > lp.ColUpper[j] {
			return fmt.Errorf("lp: column %d has lower bound %g > upper bound %g", j, lp.ColLower[j], lp.ColUpper[j])
		}
	}
	for i := 0; i < lp.NumRow; i++ {
		if lp.RowLower[i] > lp.RowUpper[i] {
			return fmt.Errorf("lp: row %d has lower bound %g > upper bound %g", i, lp.RowLower[i], lp.RowUpper[i])
		}
	}
	return nil
}

// NumTotal is N = n + m, the number of variables in the augmented
// [A | I] view (structural columns plus one logical per row).
func (lp *LP) NumTotal() int { return lp.NumCol + lp.NumRow }

// IsLogical reports whether augmented variable j is a logical
// (row slack) rather than a structural column.
func (lp *LP) IsLogical(j int) bool { return j >= lp.NumCol }

// LogicalRow returns the row index a logical variable corresponds to.
// Only valid when IsLogical(j).
func (lp *LP) LogicalRow(j int) int { return j - lp.NumCol }

// AugmentedCost returns the cost of augmented variable j: the
// original column cost for structural columns, 0 for logicals.
func (lp *LP) AugmentedCost(j int) float64 {
	if lp.IsLogical(j) {
		return 0
	}
	return lp.ColCost[j]
}

// AugmentedBounds returns (lower, upper) for augmented variable j.
// Logical variable n+i introduced for row i carries bounds
// [-U_i, -L_i] so that the row's slack x_{n+i} = -(Ax)_i satisfies
// L_i <= (Ax)_i <= U_i.
func (lp *LP) AugmentedBounds(j int) (lower, upper float64) {
	if lp.IsLogical(j) {
		i := lp.LogicalRow(j)
		return -lp.RowUpper[i], -lp.RowLower[i]
	}
	return lp.ColLower[j], lp.ColUpper[j]
}

// ColumnRange returns the [start,end) slice bounds of structural
// column j within AIndex/AValue.
func (lp *LP) ColumnRange(j int) (start, end int) {
	return lp.AStart[j], lp.AStart[j+1]
}

// SignedOffset applies the sense to a raw (minimize-form) objective
// value: maximize problems are solved internally as minimize(-c) and
// must flip sign and offset back for reporting.
func (lp *LP) SignedOffset() float64 {
	if lp.Sense == Maximize {
		return -lp.Offset
	}
	return lp.Offset
}

// SenseSign is +1 for Minimize, -1 for Maximize; multiplying the
// internal (minimize-form) cost and dual values by this restores the
// user-facing sense.
func (lp *LP) SenseSign() float64 {
	if lp.Sense == Maximize {
		return -1
	}
	return 1
}
