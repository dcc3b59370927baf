package belief

import (
	"context"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
	"github.com/katalvlaran/lvlath-diamond/probability"
)

// BeliefMap is the engine's output: marginal reachability probability per
// node (spec.md §3). Keys are exactly the nodes of the graph it was
// computed over.
type BeliefMap map[graphindex.Node]probability.Value

// EngineOptions configures Run, in the flow.FlowOptions normalize() idiom:
// a zero-value EngineOptions is valid.
type EngineOptions struct {
	// Ctx is checked at iteration-set boundaries and at conditioning-state
	// boundaries (spec.md §5). Nil means context.Background().
	Ctx context.Context

	// Parallel evaluates independent nodes within a layer, and independent
	// conditioning-state assignments within a diamond, concurrently via
	// runAll (spec.md §5).
	Parallel bool

	// Tolerance is the numerical slack ε outside [0,1] a probability
	// result may land within before the engine signals NumericalError
	// (spec.md §4.6, default 1e-9).
	Tolerance float64
}

const defaultTolerance = 1e-9

// layerConcurrencyLimit bounds runAll's errgroup fan-out: layers and
// conditioning-state sets are usually small, so a modest fixed cap avoids
// goroutine overhead outweighing the arithmetic it parallelizes.
const layerConcurrencyLimit = 8

func (o *EngineOptions) normalize() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
}
