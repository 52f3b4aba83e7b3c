package matrixstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fbarros/revsimplex/internal/vecspace"
	"github.com/fbarros/revsimplex/lp"
)

func diagonalLP() *lp.LP {
	model := lp.New(2, 2)
	model.AStart = []int{0, 1, 2}
	model.AIndex = []int{0, 1}
	model.AValue = []float64{2, 3}
	return model
}

func TestCollectAjStructuralColumn(t *testing.T) {
	model := diagonalLP()
	dst := vecspace.New(model.NumRow)
	store := Build(model)

	store.CollectAj(dst, 0, 1.0)
	assert.Equal(t, 2.0, dst.At(0))
	assert.Equal(t, 0.0, dst.At(1))
}

func TestCollectAjLogicalColumnIsUnit(t *testing.T) {
	model := diagonalLP()
	dst := vecspace.New(model.NumRow)
	store := Build(model)

	store.CollectAj(dst, model.NumCol, 2.0) // logical for row 0
	assert.Equal(t, 2.0, dst.At(0))
}

func allNonbasic(int) bool { return true }

func TestPriceByColumnAndByRowAgree(t *testing.T) {
	model := diagonalLP()
	store := Build(model)

	rowEp := vecspace.New(model.NumRow)
	rowEp.Set(0, 1.0)

	byCol := vecspace.New(model.NumTotal())
	store.PriceByColumn(byCol, rowEp)

	byRow := vecspace.New(model.NumTotal())
	store.PriceByRowSparseResult(byRow, rowEp, allNonbasic)

	assert.Equal(t, 2.0, byCol.At(0))
	assert.Equal(t, 1.0, byCol.At(2))
	assert.Equal(t, byCol.At(0), byRow.At(0))
	assert.Equal(t, byCol.At(2), byRow.At(2))
}

func TestZeroBasicEntriesClearsBasicRows(t *testing.T) {
	rowAp := vecspace.New(3)
	rowAp.Set(0, 5.0)
	rowAp.Set(1, 7.0)

	ZeroBasicEntries(rowAp, func(row int) bool { return row == 0 })
	assert.Equal(t, 0.0, rowAp.At(0))
	assert.Equal(t, 7.0, rowAp.At(1))
}
