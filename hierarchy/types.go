package hierarchy

import (
	"github.com/katalvlaran/lvlath-diamond/diamond"
	"github.com/katalvlaran/lvlath-diamond/graphindex"
	"github.com/katalvlaran/lvlath-diamond/probability"
	"github.com/katalvlaran/lvlath-diamond/structural"
)

// DiamondComputationData is everything belief.Engine needs to recursively
// resolve one diamond without re-deriving its sub-structure (spec.md §3
// "UniqueDiamondStore"): an induced mirror of structural.StructuralData
// restricted to the diamond's relevant nodes, the synthesized priors for
// that sub-problem, and the diamond's own inner diamonds.
type DiamondComputationData struct {
	Diamond diamond.Diamond

	SubOutgoing   map[graphindex.Node][]graphindex.Node
	SubIncoming   map[graphindex.Node][]graphindex.Node
	SubSources    []graphindex.Node
	SubForkNodes  []graphindex.Node
	SubJoinNodes  []graphindex.Node
	SubAncestors  map[graphindex.Node][]graphindex.Node
	SubDescendants map[graphindex.Node][]graphindex.Node
	SubIterationSets [][]graphindex.Node

	SubNodePriors map[graphindex.Node]probability.Value

	SubDiamondStructures map[graphindex.Node]*diamond.DiamondsAtNode

	// SubGraphIndex and SubStructuralData are the GraphIndex/StructuralData
	// pair built over Diamond.Edgelist, kept so belief.Engine can recurse
	// into this diamond's sub-problem without rebuilding them.
	SubGraphIndex    *graphindex.GraphIndex
	SubStructuralData *structural.StructuralData
}

// UniqueDiamondStore maps a diamond key (diamond.Diamond.Key()) to its
// computation data. Every genuinely distinct diamond reachable by recursive
// decomposition appears exactly once (spec.md §4.5).
type UniqueDiamondStore map[string]*DiamondComputationData

// BuilderOptions configures Build, in the flow.FlowOptions normalize()
// idiom: a zero-value BuilderOptions is valid and gets sane defaults filled
// in by normalize().
type BuilderOptions struct {
	// MaxDepth bounds recursive expansion depth; exceeding it signals
	// DiamondRecursionError (spec.md §7), which can only happen if the
	// structure/alternating-cycle caches failed to break a cycle. Zero
	// means "use the default" (256, spec.md §7).
	MaxDepth int

	// Parallel runs sibling diamond expansions within one recursion level
	// concurrently via errgroup.Group, bounded by a small goroutine limit
	// (spec.md §5: "optional worker pool for C5 across sibling diamonds").
	Parallel bool
}

const defaultMaxDepth = 256

// siblingConcurrencyLimit bounds errgroup fan-out across sibling diamonds:
// diamond counts per level are usually modest, so a small fixed cap avoids
// thrashing the shared cache mutex for no benefit.
const siblingConcurrencyLimit = 8

func (o *BuilderOptions) normalize() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
}
