package vecspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndAt(t *testing.T) {
	v := New(5)
	v.Set(2, 3.5)
	v.Set(4, -1.0)
	assert.Equal(t, 3.5, v.At(2))
	assert.Equal(t, -1.0, v.At(4))
	assert.Equal(t, 0.0, v.At(0))
	assert.Equal(t, 2, v.Count)
	assert.False(t, v.IsDense())
}

func TestSetSameIndexTwiceDoesNotDuplicate(t *testing.T) {
	v := New(4)
	v.Set(1, 1.0)
	v.Set(1, 2.0)
	assert.Equal(t, 1, v.Count)
	assert.Equal(t, 2.0, v.At(1))
}

func TestAddAccumulates(t *testing.T) {
	v := New(4)
	v.Add(0, 1.0)
	v.Add(0, 2.0)
	assert.Equal(t, 3.0, v.At(0))
	assert.Equal(t, 1, v.Count)
}

func TestClearResetsToEmpty(t *testing.T) {
	v := New(4)
	v.Set(0, 1.0)
	v.Set(2, 2.0)
	v.Clear()
	assert.Equal(t, 0, v.Count)
	assert.Equal(t, 0.0, v.At(0))
	assert.Equal(t, 0.0, v.At(2))
}

func TestForceDenseMarksDense(t *testing.T) {
	v := New(3)
	v.Set(0, 1.0)
	assert.False(t, v.IsDense())
	v.ForceDense()
	assert.True(t, v.IsDense())
	assert.Equal(t, 1.0, v.Density())
}

func TestCompactRebuildsFromArray(t *testing.T) {
	v := New(4)
	v.ForceDense()
	v.Array[1] = 5.0
	v.Array[3] = -2.0
	v.Compact()
	assert.False(t, v.IsDense())
	assert.Equal(t, 2, v.Count)
	seen := map[int]float64{}
	v.Iterate(func(j int, val float64) { seen[j] = val })
	assert.Equal(t, map[int]float64{1: 5.0, 3: -2.0}, seen)
}

func TestIterateVisitsOnlyNonzeros(t *testing.T) {
	v := New(5)
	v.Set(0, 1.0)
	v.Set(3, 4.0)
	got := map[int]float64{}
	v.Iterate(func(j int, val float64) { got[j] = val })
	assert.Equal(t, map[int]float64{0: 1.0, 3: 4.0}, got)
}

func TestCopyFromDense(t *testing.T) {
	v := New(4)
	v.Set(0, 9.0)
	v.CopyFromDense([]float64{0, 7, 0, 2})
	assert.Equal(t, 0.0, v.At(0))
	assert.Equal(t, 7.0, v.At(1))
	assert.Equal(t, 2.0, v.At(3))
	assert.Equal(t, 2, v.Count)
}

func TestDensityCrossesThreshold(t *testing.T) {
	v := New(10)
	for i := 0; i < 5; i++ {
		v.Set(i, 1.0)
	}
	assert.InDelta(t, 0.5, v.Density(), 1e-12)
	assert.Greater(t, v.Density(), DenseThreshold)
}
