package core

import "math"

// SimplexStrategy selects which driver Solve runs.
type SimplexStrategy int

const (
	StrategyChoose SimplexStrategy = iota
	StrategyDual
	StrategyPrimal
	StrategyDualTasks
	StrategyDualMulti
)

// EdgeWeightStrategy selects C6's pricing weight scheme.
type EdgeWeightStrategy int

const (
	WeightChoose EdgeWeightStrategy = iota
	WeightDantzig
	WeightDevex
	WeightSteepestEdge
	WeightSteepestEdgeToDevex
)

// PriceStrategy selects C2's PRICE implementation.
type PriceStrategy int

const (
	PriceCol PriceStrategy = iota
	PriceRow
	PriceRowSwitch
	PriceRowSwitchColSwitch
)

// Options bundles every tunable named in the external interface (§6).
// Zero-valued fields do not mean "off"; construct with DefaultOptions
// and apply Option functions on top.
type Options struct {
	SimplexStrategy    SimplexStrategy
	DualEdgeWeight     EdgeWeightStrategy
	PriceStrategy      PriceStrategy

	PrimalFeasibilityTolerance float64
	DualFeasibilityTolerance   float64

	CostPerturbationMultiplier  float64 // dual driver phase-1/2 cost perturbation; 0 disables
	BoundPerturbationMultiplier float64 // primal driver bound perturbation, applied before phase 1 and kept through phase 2; 0 disables

	FactorPivotThreshold float64
	FactorPivotTolerance float64
	SimplexUpdateLimit   int

	SimplexIterationLimit int
	TimeLimit             float64 // seconds; <=0 means unlimited

	// ObjectiveBound is a cutoff on the dual driver's phase-2 dual
	// objective (internal minimize sense): weak duality makes the dual
	// objective a valid lower bound on the optimum throughout phase 2,
	// so once it reaches ObjectiveBound the LP is provably unable to
	// beat a bound a caller already has from elsewhere (e.g. an
	// incumbent in a branch-and-bound search). +Inf disables the check.
	ObjectiveBound float64

	HighsRandomSeed uint64

	ParallelWorkers int // stored only; the solver does not read it and PRICE always runs on the calling goroutine
}

// DefaultOptions returns the engine's default tuning, in the same
// ballpark as the values the original implementation ships with.
func DefaultOptions() Options {
	return Options{
		SimplexStrategy:             StrategyChoose,
		DualEdgeWeight:              WeightChoose,
		PriceStrategy:               PriceRowSwitchColSwitch,
		PrimalFeasibilityTolerance:  1e-7,
		DualFeasibilityTolerance:    1e-7,
		CostPerturbationMultiplier:  1,
		BoundPerturbationMultiplier: 1,
		FactorPivotThreshold:        0.1,
		FactorPivotTolerance:        1e-9,
		SimplexUpdateLimit:          5000,
		SimplexIterationLimit:       1 << 30,
		TimeLimit:                   0,
		ObjectiveBound:              math.Inf(1),
		HighsRandomSeed:             1,
		ParallelWorkers:             1,
	}
}

// Option mutates an Options value; apply with ApplyOptions.
type Option func(*Options)

func ApplyOptions(o *Options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func WithSimplexStrategy(s SimplexStrategy) Option {
	return func(o *Options) { o.SimplexStrategy = s }
}
func WithDualEdgeWeightStrategy(s EdgeWeightStrategy) Option {
	return func(o *Options) { o.DualEdgeWeight = s }
}
func WithPriceStrategy(s PriceStrategy) Option {
	return func(o *Options) { o.PriceStrategy = s }
}
func WithPrimalFeasibilityTolerance(tol float64) Option {
	return func(o *Options) { o.PrimalFeasibilityTolerance = tol }
}
func WithDualFeasibilityTolerance(tol float64) Option {
	return func(o *Options) { o.DualFeasibilityTolerance = tol }
}
func WithCostPerturbationMultiplier(mult float64) Option {
	return func(o *Options) { o.CostPerturbationMultiplier = mult }
}
func WithBoundPerturbationMultiplier(mult float64) Option {
	return func(o *Options) { o.BoundPerturbationMultiplier = mult }
}
func WithFactorPivotThreshold(tau float64) Option {
	return func(o *Options) { o.FactorPivotThreshold = tau }
}
func WithFactorPivotTolerance(tol float64) Option {
	return func(o *Options) { o.FactorPivotTolerance = tol }
}
func WithSimplexUpdateLimit(n int) Option {
	return func(o *Options) { o.SimplexUpdateLimit = n }
}
func WithSimplexIterationLimit(n int) Option {
	return func(o *Options) { o.SimplexIterationLimit = n }
}
func WithTimeLimit(seconds float64) Option {
	return func(o *Options) { o.TimeLimit = seconds }
}
func WithObjectiveBound(bound float64) Option {
	return func(o *Options) { o.ObjectiveBound = bound }
}
func WithRandomSeed(seed uint64) Option {
	return func(o *Options) { o.HighsRandomSeed = seed }
}
func WithParallelWorkers(n int) Option {
	return func(o *Options) { o.ParallelWorkers = n }
}
