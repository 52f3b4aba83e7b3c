// Command lpsolve reads an MPS file and solves it with the revised
// simplex core, printing the chosen driver's outcome and the
// objective value.
package main

import (
	"fmt"
	"os"

	"github.com/fbarros/revsimplex/core"
	"github.com/fbarros/revsimplex/testfixtures"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: lpsolve <file.mps>")
		os.Exit(1)
	}
	filename := os.Args[1]

	model, err := testfixtures.LoadMPS(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lpsolve: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("rows=%d cols=%d nnz=%d\n", model.NumRow, model.NumCol, len(model.AValue))

	s := core.New(core.DefaultOptions())
	if err := s.PassLp(model); err != nil {
		fmt.Fprintf(os.Stderr, "lpsolve: %v\n", err)
		os.Exit(1)
	}

	solveStatus, err := s.Solve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lpsolve: %v\n", err)
		os.Exit(1)
	}

	analysis := s.Analysis()
	fmt.Printf("status=%s model=%s iterations=%d rebuilds=%d\n",
		solveStatus, s.Status(), analysis.Iterations, analysis.Rebuilds)

	sol := s.GetSolution()
	fmt.Printf("objective=%v\n", sol.ObjectiveValue)
	fmt.Printf("x = %v\n", &sol)

	if solveStatus == core.SolveError {
		os.Exit(1)
	}
}
