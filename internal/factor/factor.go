// Package factor maintains B^-1 (C3): an LU decomposition of the
// basis matrix B built with Markowitz threshold pivoting, refreshed
// periodically, and advanced between refreshes by product-form
// (eta-vector) updates. FTRAN/BTRAN solve against the current
// factorization; Build recomputes it from scratch and reports rank
// deficiency the caller must repair by swapping in logical columns.
//
// The factorization itself is stored densely (an m*m working copy of
// B plus its LU), since m is the number of rows of the working LP and
// stays small enough for this to be the practical representation; the
// *pivot selection* still follows the sparse Markowitz count/threshold
// rule (grounded on edp1096-sparse's markowitz.go), with the row and
// column nonzero counts recounted from the dense working copy before
// every elimination step.
package factor

import (
	"fmt"

	"github.com/fbarros/revsimplex/internal/matrixstore"
	"github.com/fbarros/revsimplex/internal/vecspace"
	"github.com/fbarros/revsimplex/lp"
)

// Status is the factorization's age since the last rebuild.
type Status int

const (
	Fresh Status = iota
	Current
	Stale
)

// Hint is returned by Update to tell the driver whether a
// refactorization should be forced before the next pivot.
type Hint int

const (
	HintNone Hint = iota
	HintRefactor
)

// Deficiency reports the result of a Build call that found B
// singular: NoPvR lists the row positions (0-based, within the basis)
// for which no pivot could be found, and NoPvC lists the corresponding
// original basic-variable indices (augmented column numbers) whose
// columns the driver must swap out for the row's logical variable.
type Deficiency struct {
	Count int
	NoPvR []int
	NoPvC []int
}

func (d Deficiency) IsSingular() bool { return d.Count > 0 }

type eta struct {
	alpha    []float64 // B0^-1 * a_entering at the time of the update, length m
	pivotRow int
	pivotVal float64
}

// Factor holds the current factorization of B = A[:, basicIndex].
type Factor struct {
	m   int
	lp  *lp.LP
	mat *matrixstore.Store

	tau      float64 // Markowitz pivot threshold, 0 < tau <= 1
	pivotTol float64 // minimum acceptable |pivot|

	// Dense LU of B0 (the basis at the last Build), stored as
	// lower-unit L and upper U, plus the row/column permutation that
	// maps elimination order back to original basis-row / basis-column
	// position.
	l, u     [][]float64
	rowOrder []int // rowOrder[k] = original row eliminated at step k
	colOrder []int // colOrder[k] = original basis-column (i.e. position in basicIndex) eliminated at step k

	updates     []eta
	updateCount int
	updateLimit int
	syntheticClock float64
	clockBudget    float64

	status Status
}

// Setup allocates a Factor for an m x m basis drawn from model via
// store, with Markowitz threshold tau and minimum pivot magnitude
// pivotTol.
func Setup(m int, model *lp.LP, store *matrixstore.Store, tau, pivotTol float64, updateLimit int) *Factor {
	return &Factor{
		m:           m,
		lp:          model,
		mat:         store,
		tau:         tau,
		pivotTol:    pivotTol,
		updateLimit: updateLimit,
		clockBudget: float64(updateLimit) * 1.5,
		status:      Stale,
	}
}

// SetPivotThreshold raises or lowers the Markowitz threshold used by
// the next Build, the standard numerical-trouble recovery knob.
func (f *Factor) SetPivotThreshold(tau float64) { f.tau = tau }

// Status reports the factor's current freshness.
func (f *Factor) Status() Status { return f.status }

// UpdateCount is the number of product-form updates since the last Build.
func (f *Factor) UpdateCount() int { return f.updateCount }

// Build recomputes the LU decomposition of B = A[:, basicIndex] from
// scratch using Markowitz threshold pivoting. On a singular basis it
// returns a positive Deficiency; the caller must substitute the
// logical variable of each reported row into basicIndex and call
// Build again.
func (f *Factor) Build(basicIndex []int) (Deficiency, error) {
	m := f.m
	if len(basicIndex) != m {
		return Deficiency{}, fmt.Errorf("factor: basicIndex has %d entries, want %d", len(basicIndex), m)
	}

	// Dense working copy of B, columns in basicIndex order.
	b := make([][]float64, m)
	for i := range b {
		b[i] = make([]float64, m)
	}
	col := vecspace.New(m)
	for c, v := range basicIndex {
		col.Clear()
		f.mat.CollectAj(col, v, 1.0)
		for i := 0; i < m; i++ {
			b[i][c] = col.At(i)
		}
	}

	rowUsed := make([]bool, m)
	colUsed := make([]bool, m)
	rowOrder := make([]int, 0, m)
	colOrder := make([]int, 0, m)
	l := make([][]float64, m)
	for i := range l {
		l[i] = make([]float64, m)
	}

	var def Deficiency

	rowNnz := make([]int, m)
	colNnz := make([]int, m)
	recomputeCounts := func() {
		for i := 0; i < m; i++ {
			rowNnz[i] = 0
			colNnz[i] = 0
		}
		for i := 0; i < m; i++ {
			if rowUsed[i] {
				continue
			}
			for j := 0; j < m; j++ {
				if colUsed[j] {
					continue
				}
				if b[i][j] != 0 {
					rowNnz[i]++
					colNnz[j]++
				}
			}
		}
	}

	for step := 0; step < m; step++ {
		recomputeCounts()

		// Among remaining entries satisfying the threshold test against
		// the largest entry in their column, pick the one with the
		// smallest Markowitz product (rowNnz-1)*(colNnz-1), so singletons
		// (product 0) are always preferred; among equal products the
		// larger |entry| wins, and on a full tie the first one scanned
		// (earliest row, then column) is kept.
		bestRow, bestCol := -1, -1
		bestProd := int(^uint(0) >> 1) // max int
		bestAbs := 0.0
		colMax := make([]float64, m)
		for j := 0; j < m; j++ {
			if colUsed[j] {
				continue
			}
			max := 0.0
			for i := 0; i < m; i++ {
				if rowUsed[i] {
					continue
				}
				if a := abs(b[i][j]); a > max {
					max = a
				}
			}
			colMax[j] = max
		}
		for i := 0; i < m; i++ {
			if rowUsed[i] {
				continue
			}
			for j := 0; j < m; j++ {
				if colUsed[j] {
					continue
				}
				a := b[i][j]
				if a == 0 {
					continue
				}
				if abs(a) < f.tau*colMax[j] {
					continue
				}
				prod := (rowNnz[i] - 1) * (colNnz[j] - 1)
				if prod < bestProd || (prod == bestProd && abs(a) > bestAbs) {
					bestProd = prod
					bestRow, bestCol = i, j
					bestAbs = abs(a)
				}
			}
		}

		if bestRow == -1 || bestAbs < f.pivotTol {
			// No acceptable pivot for this step: every remaining row
			// is reported missing; map back to basis columns for the
			// caller to repair with logicals.
			for i := 0; i < m; i++ {
				if !rowUsed[i] {
					def.NoPvR = append(def.NoPvR, i)
				}
			}
			for j := 0; j < m; j++ {
				if !colUsed[j] {
					def.NoPvC = append(def.NoPvC, basicIndex[j])
				}
			}
			def.Count = len(def.NoPvR)
			break
		}

		rowUsed[bestRow] = true
		colUsed[bestCol] = true
		rowOrder = append(rowOrder, bestRow)
		colOrder = append(colOrder, bestCol)

		pivot := b[bestRow][bestCol]
		for i := 0; i < m; i++ {
			if i == bestRow {
				continue
			}
			if rowUsed[i] {
				continue
			}
			factor := b[i][bestCol] / pivot
			if factor == 0 {
				continue
			}
			l[i][len(rowOrder)-1] = factor
			for j := 0; j < m; j++ {
				if colUsed[j] {
					continue
				}
				b[i][j] -= factor * b[bestRow][j]
			}
		}
	}

	if def.Count > 0 {
		f.status = Stale
		return def, nil
	}

	u := make([][]float64, m)
	for k := 0; k < m; k++ {
		u[k] = make([]float64, m)
		for kk := 0; kk < m; kk++ {
			u[k][kk] = b[rowOrder[k]][colOrder[kk]]
		}
	}
	lCompact := make([][]float64, m)
	for k := 0; k < m; k++ {
		lCompact[k] = make([]float64, m)
		lCompact[k][k] = 1
		for kk := 0; kk < k; kk++ {
			lCompact[k][kk] = l[rowOrder[k]][kk]
		}
	}

	f.l = lCompact
	f.u = u
	f.rowOrder = rowOrder
	f.colOrder = colOrder
	f.updates = f.updates[:0]
	f.updateCount = 0
	f.syntheticClock = 0
	f.status = Fresh
	return Deficiency{}, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Ftran solves v <- B^-1 v in place: first against the base LU
// factorization (permuted forward/back substitution), then through
// the chain of product-form updates in chronological order.
//
// expectedDensity is advisory (mirrors the engine's hint for choosing
// a hyper-sparse vs dense solve); this implementation always solves
// densely since m is small, but keeps the parameter so call sites
// read the same as the specified contract.
func (f *Factor) Ftran(v *vecspace.Vector, expectedDensity float64) error {
	if f.status == Stale {
		return fmt.Errorf("factor: Ftran called on stale factorization")
	}
	x := f.solveBase(v.Array)
	for _, up := range f.updates {
		t := x[up.pivotRow] / up.pivotVal
		for i := 0; i < f.m; i++ {
			if i == up.pivotRow {
				continue
			}
			x[i] -= up.alpha[i] * t
		}
		x[up.pivotRow] = t
	}
	v.CopyFromDense(x)
	return nil
}

// Btran solves v <- B^-T v in place, applying the update chain in
// reverse chronological order before the base LU transpose solve.
func (f *Factor) Btran(v *vecspace.Vector, expectedDensity float64) error {
	if f.status == Stale {
		return fmt.Errorf("factor: Btran called on stale factorization")
	}
	x := make([]float64, f.m)
	copy(x, v.Array)
	for k := len(f.updates) - 1; k >= 0; k-- {
		up := f.updates[k]
		r := up.pivotRow
		s := x[r]
		for i := 0; i < f.m; i++ {
			if i == r {
				continue
			}
			s -= up.alpha[i] * x[i]
		}
		x[r] = s / up.pivotVal
	}
	y := f.solveBaseTranspose(x)
	v.CopyFromDense(y)
	return nil
}

// solveBase solves B0 x = rhs using the stored LU and permutation.
func (f *Factor) solveBase(rhs []float64) []float64 {
	m := f.m
	pr := make([]float64, m)
	for k := 0; k < m; k++ {
		pr[k] = rhs[f.rowOrder[k]]
	}
	y := make([]float64, m)
	for k := 0; k < m; k++ {
		sum := pr[k]
		for kk := 0; kk < k; kk++ {
			sum -= f.l[k][kk] * y[kk]
		}
		y[k] = sum
	}
	z := make([]float64, m)
	for k := m - 1; k >= 0; k-- {
		sum := y[k]
		for kk := k + 1; kk < m; kk++ {
			sum -= f.u[k][kk] * z[kk]
		}
		z[k] = sum / f.u[k][k]
	}
	x := make([]float64, m)
	for k := 0; k < m; k++ {
		x[f.colOrder[k]] = z[k]
	}
	return x
}

// solveBaseTranspose solves B0^T x = rhs.
func (f *Factor) solveBaseTranspose(rhs []float64) []float64 {
	m := f.m
	pr := make([]float64, m)
	for k := 0; k < m; k++ {
		pr[k] = rhs[f.colOrder[k]]
	}
	y := make([]float64, m)
	for k := 0; k < m; k++ {
		sum := pr[k]
		for kk := 0; kk < k; kk++ {
			sum -= f.u[kk][k] * y[kk]
		}
		y[k] = sum / f.u[k][k]
	}
	z := make([]float64, m)
	for k := m - 1; k >= 0; k-- {
		sum := y[k]
		for kk := k + 1; kk < m; kk++ {
			sum -= f.l[kk][k] * z[kk]
		}
		z[k] = sum
	}
	x := make([]float64, m)
	for k := 0; k < m; k++ {
		x[f.rowOrder[k]] = z[k]
	}
	return x
}

// Update applies a product-form update replacing basis position
// pivotRow with column (already FTRAN'd: column = B^-1 a_entering).
// rowEp is accepted for interface symmetry with a Forrest-Tomlin style
// update but unused by this plain product-form implementation.
func (f *Factor) Update(column *vecspace.Vector, rowEp *vecspace.Vector, pivotRow int) (Hint, error) {
	pivotVal := column.At(pivotRow)
	if pivotVal == 0 {
		return HintNone, fmt.Errorf("factor: zero pivot element at row %d", pivotRow)
	}
	alpha := make([]float64, f.m)
	copy(alpha, column.Array)
	f.updates = append(f.updates, eta{alpha: alpha, pivotRow: pivotRow, pivotVal: pivotVal})
	f.updateCount++
	f.status = Current

	// Synthetic clock: a cheap proxy for update cost versus rebuild
	// cost, grown by the density of the update column.
	f.syntheticClock += 1 + column.Density()*float64(f.m)
	if f.updateCount >= f.updateLimit || f.syntheticClock >= f.clockBudget {
		return HintRefactor, nil
	}
	return HintNone, nil
}
