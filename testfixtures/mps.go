// Package testfixtures loads MPS files into lp.LP values for use as
// test fixtures, via the same glpk bindings the original MPS reader
// used to build its dense tableau model.
package testfixtures

import (
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"

	"github.com/fbarros/revsimplex/lp"
)

// LoadMPS parses filename as a free-format MPS file and returns the
// equivalent canonical LP: column-wise constraint matrix, the
// objective, and row/column bounds carried as ranges rather than
// expanded into explicit slack or surplus columns.
func LoadMPS(filename string) (*lp.LP, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prob := glpk.New()
	defer prob.Delete()
	prob.ReadMPS(glpk.MPS_FILE, nil, filename)

	numRow, numCol := prob.NumRows(), prob.NumCols()
	model := lp.New(numRow, numCol)
	model.Offset = prob.ObjCoef(0)

	for j := 1; j <= numCol; j++ {
		model.ColCost[j-1] = prob.ObjCoef(j)
		model.ColLower[j-1] = glpkLower(prob.ColLB(j))
		model.ColUpper[j-1] = glpkUpper(prob.ColUB(j))
	}

	// glpk reports rows dense per call; transpose into CSC by
	// accumulating column entries as each row is visited.
	cols := make([][]int, numCol)
	vals := make([][]float64, numCol)
	for i := 1; i <= numRow; i++ {
		model.RowLower[i-1] = glpkLower(prob.RowLB(i))
		model.RowUpper[i-1] = glpkUpper(prob.RowUB(i))
		idx, row := prob.MatRow(i)
		for k, j := range idx {
			if j == 0 {
				continue
			}
			cols[j-1] = append(cols[j-1], i-1)
			vals[j-1] = append(vals[j-1], row[k])
		}
	}
	model.AStart[0] = 0
	for j := 0; j < numCol; j++ {
		model.AIndex = append(model.AIndex, cols[j]...)
		model.AValue = append(model.AValue, vals[j]...)
		model.AStart[j+1] = len(model.AIndex)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

func glpkLower(v float64) float64 {
	if v <= -math.MaxFloat64/2 {
		return lp.NegInf()
	}
	return v
}

func glpkUpper(v float64) float64 {
	if v >= math.MaxFloat64/2 {
		return lp.Inf()
	}
	return v
}
