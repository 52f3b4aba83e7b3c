package workspace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fbarros/revsimplex/lp"
)

func sampleLP() *lp.LP {
	model := lp.New(1, 2)
	model.ColCost[0] = 3
	model.ColCost[1] = -1
	model.ColLower[0] = 0
	model.ColUpper[0] = 5
	model.ColLower[1] = 0
	model.ColUpper[1] = lp.Inf()
	model.RowLower[0] = lp.NegInf()
	model.RowUpper[0] = 10
	model.AStart = []int{0, 1, 2}
	model.AIndex = []int{0, 0}
	model.AValue = []float64{1, 1}
	return model
}

func TestResetToLPPopulatesCostAndBounds(t *testing.T) {
	model := sampleLP()
	a := New(model.NumTotal(), model.NumRow)
	a.ResetToLP(model)

	assert.Equal(t, 3.0, a.WorkCost[0])
	assert.Equal(t, -1.0, a.WorkCost[1])
	assert.Equal(t, 0.0, a.WorkCost[2]) // logical has no cost
	assert.Equal(t, 0.0, a.WorkLower[0])
	assert.Equal(t, 5.0, a.WorkUpper[0])
	assert.Equal(t, 5.0, a.WorkRange[0])
	assert.Equal(t, -10.0, a.WorkLower[2]) // logical lower = -RowUpper
	assert.Equal(t, math.Inf(1), a.WorkUpper[2])
}

func TestResetToLPFlipsSignForMaximize(t *testing.T) {
	model := sampleLP()
	model.Sense = lp.Maximize
	a := New(model.NumTotal(), model.NumRow)
	a.ResetToLP(model)

	assert.Equal(t, -3.0, a.WorkCost[0])
	assert.Equal(t, 1.0, a.WorkCost[1])
}

func TestRecomputeRangeAfterBoundChange(t *testing.T) {
	model := sampleLP()
	a := New(model.NumTotal(), model.NumRow)
	a.ResetToLP(model)

	a.WorkLower[0] = 1
	a.WorkUpper[0] = 4
	a.RecomputeRange()
	assert.Equal(t, 3.0, a.WorkRange[0])
}

func TestSyncBaseBounds(t *testing.T) {
	model := sampleLP()
	a := New(model.NumTotal(), model.NumRow)
	a.ResetToLP(model)

	a.SyncBaseBounds([]int{2})
	assert.Equal(t, a.WorkLower[2], a.BaseLower[0])
	assert.Equal(t, a.WorkUpper[2], a.BaseUpper[0])
}
