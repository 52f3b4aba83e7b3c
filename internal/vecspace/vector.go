// Package vecspace implements the hyper-sparse vector workspace (C1):
// a vector that tracks its own nonzero indices so that FTRAN/BTRAN and
// PRICE can iterate over only the nonzeros when the vector is sparse,
// and fall back to dense iteration once it no longer pays off.
package vecspace

// DenseThreshold is the density above which a Vector is iterated
// densely rather than through its index list, mirroring the ~0.4
// hyper-sparse/dense crossover used throughout the engine.
const DenseThreshold = 0.4

// Vector is a hyper-sparse vector of fixed dimension Dim. Array holds
// dense values; Index lists the positions known to be (possibly)
// nonzero. Array[j] must be zero for every j not present in
// Index[0:Count] -- clear only ever has to touch previously listed
// entries.
//
// Count >= Dim is the dense sentinel: it means "ignore Index, iterate
// all of Array densely". See ForceDense.
type Vector struct {
	Dim   int
	Count int
	Index []int
	Array []float64

	present []bool // present[j] true iff j currently appears in Index[:Count]
}

// New allocates a zeroed vector of the given dimension.
func New(dim int) *Vector {
	return &Vector{
		Dim:     dim,
		Array:   make([]float64, dim),
		Index:   make([]int, 0, dim),
		present: make([]bool, dim),
	}
}

// IsDense reports whether the vector is in the dense-iteration state,
// either because it was forced or because Count reached the sentinel.
func (v *Vector) IsDense() bool { return v.Count >= v.Dim }

// Density returns Count/Dim, clamped to 1 when dense.
func (v *Vector) Density() float64 {
	if v.Dim == 0 {
		return 0
	}
	if v.IsDense() {
		return 1
	}
	return float64(v.Count) / float64(v.Dim)
}

// Clear zeroes every entry that was listed as nonzero and resets the
// vector to the empty hyper-sparse state. It never has to touch
// Array[j] for an index that was never Set, which is the whole point
// of tracking Index.
func (v *Vector) Clear() {
	if v.IsDense() {
		for i := range v.Array {
			v.Array[i] = 0
			v.present[i] = false
		}
	} else {
		for _, j := range v.Index[:v.Count] {
			v.Array[j] = 0
			v.present[j] = false
		}
	}
	v.Count = 0
	v.Index = v.Index[:0]
}

// Set assigns value to position j, registering j as nonzero if the
// vector is still in hyper-sparse mode and j was not already listed.
func (v *Vector) Set(j int, value float64) {
	v.Array[j] = value
	if !v.IsDense() && !v.present[j] {
		v.present[j] = true
		v.Index = append(v.Index, j)
		v.Count++
	}
}

// Add accumulates delta into position j, same bookkeeping as Set.
func (v *Vector) Add(j int, delta float64) {
	if delta == 0 && v.present[j] {
		return
	}
	v.Array[j] += delta
	if !v.IsDense() && !v.present[j] {
		v.present[j] = true
		v.Index = append(v.Index, j)
		v.Count++
	}
}

// At returns the value at position j without affecting sparsity
// bookkeeping.
func (v *Vector) At(j int) float64 { return v.Array[j] }

// ForceDense switches the vector into the dense-iteration state
// (Count set to the sentinel Dim) without touching Array; subsequent
// Set/Add calls no longer maintain Index.
func (v *Vector) ForceDense() {
	v.Count = v.Dim
}

// Compact rebuilds Index/present from a scan of Array, switching back
// to hyper-sparse mode. Used after an operation (e.g. a dense PRICE
// pass) populated Array directly without maintaining Index.
func (v *Vector) Compact() {
	v.Index = v.Index[:0]
	for j, val := range v.Array {
		if val != 0 {
			v.Index = append(v.Index, j)
			v.present[j] = true
		} else {
			v.present[j] = false
		}
	}
	v.Count = len(v.Index)
}

// Iterate calls f(j, value) for every nonzero entry, choosing dense or
// hyper-sparse traversal based on current density versus
// DenseThreshold -- the same choice downstream consumers (FTRAN,
// BTRAN, PRICE) make internally.
func (v *Vector) Iterate(f func(j int, value float64)) {
	if v.IsDense() || v.Density() > DenseThreshold {
		for j, val := range v.Array {
			if val != 0 {
				f(j, val)
			}
		}
		return
	}
	for _, j := range v.Index[:v.Count] {
		if val := v.Array[j]; val != 0 {
			f(j, val)
		}
	}
}

// CopyFromDense overwrites the vector with the contents of a plain
// slice, entering hyper-sparse mode if the resulting density allows.
func (v *Vector) CopyFromDense(src []float64) {
	v.Clear()
	for j, val := range src {
		if val != 0 {
			v.Set(j, val)
		}
	}
}
