// Package basis maintains the partition of augmented variables into
// basic and nonbasic (C4): which variables are basic and in what
// order, and which bound each nonbasic variable currently sits at.
package basis

import (
	"fmt"

	"github.com/fbarros/revsimplex/lp"
)

// Move records which bound a nonbasic variable sits at and, for basic
// variables, is always Fixed (0).
type Move int8

const (
	MoveDown Move = -1 // sits at upper bound
	Fixed    Move = 0  // basic, or nonbasic fixed/free-at-zero
	MoveUp   Move = 1  // sits at lower bound
)

// Flag is the basic/nonbasic partition bit for one variable.
type Flag int8

const (
	IsBasic    Flag = 0
	IsNonbasic Flag = 1
)

// State is the basis partition over N = n+m augmented variables.
type State struct {
	NumRow   int
	NumTotal int

	BasicIndex   []int   // length NumRow, ordered: BasicIndex[i] is the variable basic in row i
	NonbasicFlag []Flag  // length NumTotal
	NonbasicMove []Move  // length NumTotal; 0 for every basic variable
}

// New allocates an all-nonbasic state; call SetLogicalBasis or
// SetBasis to populate BasicIndex.
func New(numTotal, numRow int) *State {
	return &State{
		NumRow:       numRow,
		NumTotal:     numTotal,
		BasicIndex:   make([]int, numRow),
		NonbasicFlag: make([]Flag, numTotal),
		NonbasicMove: make([]Move, numTotal),
	}
}

// IsBasic reports whether augmented variable v is currently basic.
func (s *State) IsBasic(v int) bool { return s.NonbasicFlag[v] == IsBasic }

// SetLogicalBasis installs the trivial basis: every logical variable
// basic (one per row, in row order), every structural variable
// nonbasic at the finite bound nearer to zero (the lower one on a tie,
// the only finite one for a one-sided variable, free-at-zero when
// neither is finite).
func (s *State) SetLogicalBasis(model *lp.LP) {
	for v := 0; v < s.NumTotal; v++ {
		s.NonbasicFlag[v] = IsNonbasic
	}
	for i := 0; i < model.NumRow; i++ {
		v := model.NumCol + i
		s.BasicIndex[i] = v
		s.NonbasicFlag[v] = IsBasic
		s.NonbasicMove[v] = Fixed
	}
	for j := 0; j < model.NumCol; j++ {
		lower, upper := model.AugmentedBounds(j)
		pref := lower
		if abs(upper) < abs(lower) {
			pref = upper
		}
		s.NonbasicMove[j] = moveForBounds(lower, upper, pref)
	}
}

// SetBasis installs an externally supplied basis: external must list
// exactly NumRow distinct variable indices in [0,NumTotal).
func (s *State) SetBasis(model *lp.LP, external []int) error {
	if len(external) != s.NumRow {
		return fmt.Errorf("basis: external basis has %d entries, want %d", len(external), s.NumRow)
	}
	seen := make(map[int]bool, len(external))
	for _, v := range external {
		if v < 0 || v >= s.NumTotal {
			return fmt.Errorf("basis: variable %d out of range [0,%d)", v, s.NumTotal)
		}
		if seen[v] {
			return fmt.Errorf("basis: variable %d listed twice", v)
		}
		seen[v] = true
	}
	for v := 0; v < s.NumTotal; v++ {
		s.NonbasicFlag[v] = IsNonbasic
	}
	copy(s.BasicIndex, external)
	for i, v := range external {
		_ = i
		s.NonbasicFlag[v] = IsBasic
		s.NonbasicMove[v] = Fixed
	}
	for j := 0; j < s.NumTotal; j++ {
		if s.NonbasicFlag[j] == IsNonbasic {
			lower, upper := model.AugmentedBounds(j)
			s.NonbasicMove[j] = moveForBounds(lower, upper, lower)
		}
	}
	return nil
}

// SetNonbasicMove derives move values for every nonbasic variable from
// its working bounds; when workValue is supplied (non-nil) a boxed
// variable keeps the move implied by whichever bound workValue is
// currently closest to, otherwise it defaults to the lower bound.
func (s *State) SetNonbasicMove(workLower, workUpper, workValue []float64) {
	for v := 0; v < s.NumTotal; v++ {
		if s.NonbasicFlag[v] == IsBasic {
			s.NonbasicMove[v] = Fixed
			continue
		}
		lo, up := workLower[v], workUpper[v]
		pref := lo
		if workValue != nil {
			if abs(workValue[v]-up) < abs(workValue[v]-lo) {
				pref = up
			}
		}
		s.NonbasicMove[v] = moveForBounds(lo, up, pref)
	}
}

func moveForBounds(lower, upper, preferLower float64) Move {
	loFinite := !isInf(lower)
	upFinite := !isInf(upper)
	switch {
	case lower == upper:
		return Fixed
	case loFinite && upFinite:
		if preferLower == upper {
			return MoveDown
		}
		return MoveUp
	case loFinite:
		return MoveUp
	case upFinite:
		return MoveDown
	default:
		return Fixed // free
	}
}

func isInf(x float64) bool { return x > 1e300 || x < -1e300 }
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// InitialiseNonbasicValueAndMove sets workValue[v] for every nonbasic
// v to the bound indicated by its move (0 when free).
func (s *State) InitialiseNonbasicValueAndMove(workLower, workUpper, workValue []float64) {
	for v := 0; v < s.NumTotal; v++ {
		if s.NonbasicFlag[v] == IsBasic {
			continue
		}
		switch s.NonbasicMove[v] {
		case MoveUp:
			workValue[v] = workLower[v]
		case MoveDown:
			workValue[v] = workUpper[v]
		default:
			if !isInf(workLower[v]) {
				workValue[v] = workLower[v]
			} else {
				workValue[v] = 0
			}
		}
	}
}

// FlipBound toggles the move of a boxed nonbasic variable and moves
// its working value to the opposite bound, without changing the basis.
func (s *State) FlipBound(v int, workLower, workUpper, workValue []float64) {
	if s.NonbasicMove[v] == MoveUp {
		s.NonbasicMove[v] = MoveDown
		workValue[v] = workUpper[v]
	} else {
		s.NonbasicMove[v] = MoveUp
		workValue[v] = workLower[v]
	}
}

// UpdatePivots makes vIn basic at row rowOut and the previous
// occupant of that row nonbasic, settling its value to the bound
// indicated by moveOut (or the single bound if fixed).
func (s *State) UpdatePivots(vIn, rowOut int, moveOut Move, workLower, workUpper, workValue []float64) (vOut int) {
	vOut = s.BasicIndex[rowOut]
	s.NonbasicFlag[vOut] = IsNonbasic
	s.NonbasicMove[vOut] = moveOut
	switch moveOut {
	case MoveUp:
		workValue[vOut] = workLower[vOut]
	case MoveDown:
		workValue[vOut] = workUpper[vOut]
	default:
		workValue[vOut] = workLower[vOut]
	}

	s.BasicIndex[rowOut] = vIn
	s.NonbasicFlag[vIn] = IsBasic
	s.NonbasicMove[vIn] = Fixed
	return vOut
}
