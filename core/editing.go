package core

import (
	"github.com/fbarros/revsimplex/lp"
	"github.com/fbarros/revsimplex/simplexerr"
)

// columnEntries is a column's sparse entries, detached from any CSC
// array so columns can be inserted, removed, or extended freely before
// being re-flattened.
type columnEntries struct {
	rows []int
	vals []float64
}

func (s *Solver) columnsOf(model *lp.LP) []columnEntries {
	cols := make([]columnEntries, model.NumCol)
	for j := 0; j < model.NumCol; j++ {
		start, end := model.ColumnRange(j)
		cols[j] = columnEntries{
			rows: append([]int(nil), model.AIndex[start:end]...),
			vals: append([]float64(nil), model.AValue[start:end]...),
		}
	}
	return cols
}

func rebuildCSC(cols []columnEntries, cost, colLower, colUpper, rowLower, rowUpper []float64, sense lp.Sense, offset float64) *lp.LP {
	model := lp.New(len(rowLower), len(cols))
	model.Sense = sense
	model.Offset = offset
	copy(model.ColCost, cost)
	copy(model.ColLower, colLower)
	copy(model.ColUpper, colUpper)
	copy(model.RowLower, rowLower)
	copy(model.RowUpper, rowUpper)
	model.AStart[0] = 0
	for j, col := range cols {
		model.AIndex = append(model.AIndex, col.rows...)
		model.AValue = append(model.AValue, col.vals...)
		model.AStart[j+1] = len(model.AIndex)
	}
	return model
}

// installEdited re-passes the edited LP and falls back to a fresh
// logical basis: a structural edit changes which rows and columns
// even exist, so the warm-started basis, factor, and work arrays it
// invalidates (§6) are rebuilt from scratch rather than patched.
func (s *Solver) installEdited(model *lp.LP) error {
	if err := s.PassLp(model); err != nil {
		return err
	}
	return s.SetBasis()
}

// AddCols appends newCol columns, given in the same CSC layout as LP
// itself (aStart has length newCol+1).
func (s *Solver) AddCols(cost, colLower, colUpper []float64, aStart, aIndex []int, aValue []float64) error {
	newCol := len(cost)
	if len(colLower) != newCol || len(colUpper) != newCol || len(aStart) != newCol+1 {
		return simplexerr.NewInvalidInput("addCols", "cost/bound/aStart length mismatch")
	}
	for _, r := range aIndex {
		if r < 0 || r >= s.lp.NumRow {
			return simplexerr.NewInvalidInput("addCols", "row index out of range")
		}
	}

	cols := s.columnsOf(s.lp)
	for j := 0; j < newCol; j++ {
		start, end := aStart[j], aStart[j+1]
		cols = append(cols, columnEntries{
			rows: append([]int(nil), aIndex[start:end]...),
			vals: append([]float64(nil), aValue[start:end]...),
		})
	}

	model := rebuildCSC(cols,
		append(append([]float64(nil), s.lp.ColCost...), cost...),
		append(append([]float64(nil), s.lp.ColLower...), colLower...),
		append(append([]float64(nil), s.lp.ColUpper...), colUpper...),
		s.lp.RowLower, s.lp.RowUpper, s.lp.Sense, s.lp.Offset)
	return s.installEdited(model)
}

// AddRows appends newRow rows, given row-wise (CSR: rStart has length
// newRow+1, indexing into colIndex/colValue) against the existing
// columns.
func (s *Solver) AddRows(rowLower, rowUpper []float64, rStart, colIndex []int, colValue []float64) error {
	newRow := len(rowLower)
	if len(rowUpper) != newRow || len(rStart) != newRow+1 {
		return simplexerr.NewInvalidInput("addRows", "bound/rStart length mismatch")
	}
	for _, c := range colIndex {
		if c < 0 || c >= s.lp.NumCol {
			return simplexerr.NewInvalidInput("addRows", "column index out of range")
		}
	}

	cols := s.columnsOf(s.lp)
	for r := 0; r < newRow; r++ {
		row := s.lp.NumRow + r
		start, end := rStart[r], rStart[r+1]
		for k := start; k < end; k++ {
			j := colIndex[k]
			cols[j].rows = append(cols[j].rows, row)
			cols[j].vals = append(cols[j].vals, colValue[k])
		}
	}

	model := rebuildCSC(cols, s.lp.ColCost, s.lp.ColLower, s.lp.ColUpper,
		append(append([]float64(nil), s.lp.RowLower...), rowLower...),
		append(append([]float64(nil), s.lp.RowUpper...), rowUpper...),
		s.lp.Sense, s.lp.Offset)
	return s.installEdited(model)
}

// DeleteCols removes the columns at idx (any order, duplicates
// tolerated).
func (s *Solver) DeleteCols(idx []int) error {
	drop, err := s.dropSet(idx, s.lp.NumCol, "deleteCols")
	if err != nil {
		return err
	}
	cols := s.columnsOf(s.lp)
	var keptCols []columnEntries
	var cost, lo, up []float64
	for j := 0; j < s.lp.NumCol; j++ {
		if drop[j] {
			continue
		}
		keptCols = append(keptCols, cols[j])
		cost = append(cost, s.lp.ColCost[j])
		lo = append(lo, s.lp.ColLower[j])
		up = append(up, s.lp.ColUpper[j])
	}
	model := rebuildCSC(keptCols, cost, lo, up, s.lp.RowLower, s.lp.RowUpper, s.lp.Sense, s.lp.Offset)
	return s.installEdited(model)
}

// DeleteRows removes the rows at idx (any order, duplicates
// tolerated), dropping every column entry that referenced a deleted
// row and remapping the survivors' row indices.
func (s *Solver) DeleteRows(idx []int) error {
	drop, err := s.dropSet(idx, s.lp.NumRow, "deleteRows")
	if err != nil {
		return err
	}
	remap := make([]int, s.lp.NumRow)
	next := 0
	var rowLower, rowUpper []float64
	for i := 0; i < s.lp.NumRow; i++ {
		if drop[i] {
			remap[i] = -1
			continue
		}
		remap[i] = next
		next++
		rowLower = append(rowLower, s.lp.RowLower[i])
		rowUpper = append(rowUpper, s.lp.RowUpper[i])
	}

	cols := s.columnsOf(s.lp)
	for j := range cols {
		var rows []int
		var vals []float64
		for k, r := range cols[j].rows {
			if nr := remap[r]; nr >= 0 {
				rows = append(rows, nr)
				vals = append(vals, cols[j].vals[k])
			}
		}
		cols[j] = columnEntries{rows: rows, vals: vals}
	}

	model := rebuildCSC(cols, s.lp.ColCost, s.lp.ColLower, s.lp.ColUpper, rowLower, rowUpper, s.lp.Sense, s.lp.Offset)
	return s.installEdited(model)
}

func (s *Solver) dropSet(idx []int, limit int, op string) ([]bool, error) {
	drop := make([]bool, limit)
	for _, i := range idx {
		if i < 0 || i >= limit {
			return nil, simplexerr.NewInvalidInput(op, "index out of range")
		}
		drop[i] = true
	}
	return drop, nil
}

// LpMutation names an out-of-band change the caller has already
// applied directly to the LP's cost, bounds, or basis, without
// touching its dimensions.
type LpMutation int

const (
	MutationNewCosts LpMutation = iota
	MutationNewBounds
	MutationNewBasis
)

// UpdateStatus resyncs the working arrays a dimension-preserving
// mutation invalidates (§6): a cost change resyncs workCost; a bound
// change resyncs workLower/workUpper/workRange and re-derives every
// nonbasic variable's move and value from the new bounds; a basis
// change marks the basis as unset, so the next Solve installs a
// logical basis and builds its factor through
// InitialiseSimplexLpBasisAndFactor.
func (s *Solver) UpdateStatus(action LpMutation) error {
	if s.lp == nil {
		return simplexerr.NewInvalidInput("updateStatus", "no LP installed")
	}
	switch action {
	case MutationNewCosts:
		sign := s.lp.SenseSign()
		for j := 0; j < s.lp.NumTotal(); j++ {
			s.work.WorkCost[j] = sign * s.lp.AugmentedCost(j)
		}
	case MutationNewBounds:
		for j := 0; j < s.lp.NumTotal(); j++ {
			lo, up := s.lp.AugmentedBounds(j)
			s.work.WorkLower[j] = lo
			s.work.WorkUpper[j] = up
		}
		s.work.RecomputeRange()
		s.bas.SetNonbasicMove(s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
		s.bas.InitialiseNonbasicValueAndMove(s.work.WorkLower, s.work.WorkUpper, s.work.WorkValue)
	case MutationNewBasis:
		s.basisIsSet = false
	default:
		return simplexerr.NewInvalidInput("updateStatus", "unknown mutation")
	}
	s.status = NotSet
	return nil
}
