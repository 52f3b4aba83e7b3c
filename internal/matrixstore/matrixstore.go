// Package matrixstore holds column-wise and row-wise views of the
// augmented constraint matrix [A | I] (C2) and implements the
// column-AXPY (collect_aj) and PRICE operations the drivers use to
// build pivot columns and tableau rows.
package matrixstore

import (
	"github.com/fbarros/revsimplex/internal/vecspace"
	"github.com/fbarros/revsimplex/lp"
)

// Store is a read-only (after Build) dual view of the augmented
// matrix: CSC for FTRAN-direction access (collect_aj, column PRICE)
// and CSR, restricted lazily to nonbasic columns, for row PRICE.
type Store struct {
	lp *lp.LP

	// Row-wise view of the structural columns only; logical columns
	// are unit vectors and are priced directly without a stored row.
	rowStart []int
	rowCol   []int
	rowVal   []float64

	// density tracks the running nonzero fraction of row_ap produced
	// by the last row-wise PRICE, used by PriceByRowSparseResultWithSwitch.
	lastRowApDensity float64
}

// Build constructs the row-wise view of lp's structural columns from
// its CSC representation.
func Build(model *lp.LP) *Store {
	s := &Store{lp: model}
	nnz := len(model.AIndex)
	count := make([]int, model.NumRow+1)
	for _, r := range model.AIndex {
		count[r+1]++
	}
	for i := 0; i < model.NumRow; i++ {
		count[i+1] += count[i]
	}
	s.rowStart = count
	s.rowCol = make([]int, nnz)
	s.rowVal = make([]float64, nnz)
	fill := make([]int, model.NumRow)
	copy(fill, s.rowStart[:model.NumRow])
	for j := 0; j < model.NumCol; j++ {
		start, end := model.ColumnRange(j)
		for k := start; k < end; k++ {
			r := model.AIndex[k]
			pos := fill[r]
			s.rowCol[pos] = j
			s.rowVal[pos] = model.AValue[k]
			fill[r]++
		}
	}
	return s
}

// CollectAj adds alpha*A[:,j] into dst. Logical column n+i is the
// unit vector e_i, so alpha is simply scattered at row i.
func (s *Store) CollectAj(dst *vecspace.Vector, j int, alpha float64) {
	if s.lp.IsLogical(j) {
		dst.Add(s.lp.LogicalRow(j), alpha)
		return
	}
	start, end := s.lp.ColumnRange(j)
	for k := start; k < end; k++ {
		dst.Add(s.lp.AIndex[k], alpha*s.lp.AValue[k])
	}
}

// ZeroBasicEntries clears row_ap at every augmented variable that
// basicRow reports as basic -- required after a column-wise PRICE
// pass because those components are meaningless (the column is inside
// B, not a candidate).
func ZeroBasicEntries(rowAp *vecspace.Vector, basicRow func(row int) bool) {
	for i := 0; i < rowAp.Dim; i++ {
		if basicRow(i) && rowAp.Array[i] != 0 {
			rowAp.Array[i] = 0
		}
	}
	rowAp.Compact()
}

// PriceByColumn computes row_ap <- A^T * row_ep by scanning every
// structural column and dotting it with row_ep, then appending the
// (trivial) logical contributions. This is the dense, always-correct
// fallback PRICE path.
func (s *Store) PriceByColumn(rowAp, rowEp *vecspace.Vector) {
	rowAp.Clear()
	for j := 0; j < s.lp.NumCol; j++ {
		start, end := s.lp.ColumnRange(j)
		var dot float64
		for k := start; k < end; k++ {
			dot += s.lp.AValue[k] * rowEp.At(s.lp.AIndex[k])
		}
		if dot != 0 {
			rowAp.Set(j, dot)
		}
	}
	for i := 0; i < s.lp.NumRow; i++ {
		if v := rowEp.At(i); v != 0 {
			rowAp.Set(s.lp.NumCol+i, v)
		}
	}
}

// PriceByRowSparseResult computes row_ap using the row-wise view,
// visiting only the rows where row_ep is nonzero -- the hyper-sparse
// PRICE path. isNonbasic filters which augmented columns are worth
// writing (nonbasic columns are the only useful PRICE candidates).
func (s *Store) PriceByRowSparseResult(rowAp, rowEp *vecspace.Vector, isNonbasic func(col int) bool) {
	rowAp.Clear()
	rowEp.Iterate(func(i int, pi float64) {
		start, end := s.rowStart[i], s.rowStart[i+1]
		for k := start; k < end; k++ {
			j := s.rowCol[k]
			if isNonbasic(j) {
				rowAp.Add(j, pi*s.rowVal[k])
			}
		}
		if isNonbasic(s.lp.NumCol + i) {
			rowAp.Add(s.lp.NumCol+i, pi)
		}
	})
	s.lastRowApDensity = rowAp.Density()
}

// PriceByRowSparseResultWithSwitch chooses between the two PRICE paths
// from the density of the row_ap the previous row-wise PRICE produced:
// above vecspace.DenseThreshold it takes the dense PriceByColumn path
// (keeping only nonbasic entries), otherwise PriceByRowSparseResult.
// The choice is made once, before accumulating; the density is not
// watched while the result builds up. Only the row-wise path records a
// new density, so once the dense path is taken every later call takes
// it too.
func (s *Store) PriceByRowSparseResultWithSwitch(rowAp, rowEp *vecspace.Vector, isNonbasic func(col int) bool) {
	if s.lastRowApDensity > vecspace.DenseThreshold {
		s.PriceByColumn(rowAp, rowEp)
		nonbasicOnly(rowAp, isNonbasic)
		return
	}
	s.PriceByRowSparseResult(rowAp, rowEp, isNonbasic)
}

func nonbasicOnly(rowAp *vecspace.Vector, isNonbasic func(col int) bool) {
	for j := 0; j < rowAp.Dim; j++ {
		if rowAp.Array[j] != 0 && !isNonbasic(j) {
			rowAp.Array[j] = 0
		}
	}
	rowAp.Compact()
}
