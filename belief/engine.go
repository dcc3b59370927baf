package belief

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvlath-diamond/diamond"
	"github.com/katalvlaran/lvlath-diamond/graphindex"
	"github.com/katalvlaran/lvlath-diamond/hierarchy"
	"github.com/katalvlaran/lvlath-diamond/probability"
	"github.com/katalvlaran/lvlath-diamond/structural"
)

// Run executes spec.md §4.6 over g: a forward sweep in iteration-set order
// that multiplies independent-parent contributions and, at join nodes fed
// by a diamond, enumerates the diamond's conditioning states and
// recursively resolves the diamond's induced sub-problem (looked up from
// store by diamond key). nodePriors and edgeProbs must cover every node and
// every edge of g respectively.
//
// On cancellation, Run returns the BeliefMap computed so far (every
// fully-finished iteration set) together with ErrCancelled.
func Run(
	g *graphindex.GraphIndex,
	sd *structural.StructuralData,
	rootDiamonds map[graphindex.Node]*diamond.DiamondsAtNode,
	store hierarchy.UniqueDiamondStore,
	nodePriors map[graphindex.Node]probability.Value,
	edgeProbs map[graphindex.Edge]probability.Value,
	opts EngineOptions,
) (BeliefMap, error) {
	opts.normalize()
	kind := inferKind(nodePriors)
	return sweep(opts.Ctx, g, sd, rootDiamonds, store, nodePriors, edgeProbs, kind, opts)
}

func inferKind(priors map[graphindex.Node]probability.Value) probability.Kind {
	for _, v := range priors {
		return v.Kind
	}
	return probability.KindScalar
}

// sweep is Run's recursion-capable core: the same logic is re-entered, on a
// diamond's induced sub-graph, from diamondContribution.
func sweep(
	ctx context.Context,
	g *graphindex.GraphIndex,
	sd *structural.StructuralData,
	rootDiamonds map[graphindex.Node]*diamond.DiamondsAtNode,
	store hierarchy.UniqueDiamondStore,
	nodePriors map[graphindex.Node]probability.Value,
	edgeProbs map[graphindex.Edge]probability.Value,
	kind probability.Kind,
	opts EngineOptions,
) (BeliefMap, error) {
	belief := make(BeliefMap, len(g.Nodes()))

	for _, layer := range sd.IterationSets {
		select {
		case <-ctx.Done():
			return belief, ErrCancelled
		default:
		}

		results := make([]probability.Value, len(layer))
		err := runAll(ctx, len(layer), opts.Parallel, func(ictx context.Context, i int) error {
			v := layer[i]
			val, err := valueAt(ictx, g, rootDiamonds, store, nodePriors, edgeProbs, belief, kind, opts, v)
			if err != nil {
				return err
			}
			results[i] = val
			return nil
		})
		if err != nil {
			return belief, err
		}
		for i, v := range layer {
			belief[v] = results[i]
		}
	}

	return belief, nil
}

// valueAt computes belief[v] given that every predecessor of v already has
// a final entry in belief (guaranteed by iteration-set order).
func valueAt(
	ctx context.Context,
	g *graphindex.GraphIndex,
	rootDiamonds map[graphindex.Node]*diamond.DiamondsAtNode,
	store hierarchy.UniqueDiamondStore,
	nodePriors map[graphindex.Node]probability.Value,
	edgeProbs map[graphindex.Edge]probability.Value,
	belief BeliefMap,
	kind probability.Kind,
	opts EngineOptions,
	v graphindex.Node,
) (probability.Value, error) {
	parents := g.Incoming(v)
	if len(parents) == 0 {
		return nodePriors[v], nil
	}

	dn, hasDiamond := rootDiamonds[v]
	nonDiamondParents := parents
	if hasDiamond {
		nonDiamondParents = dn.NonDiamondParents
	}

	pN, err := independentContribution(nonDiamondParents, v, edgeProbs, belief, kind)
	if err != nil {
		return probability.Value{}, err
	}

	pD := probability.Zero(kind)
	if hasDiamond {
		dcd, ok := store[dn.Diamond.Key()]
		if !ok {
			return probability.Value{}, fmt.Errorf("belief: diamond %s not found in store (join node %d)", dn.Diamond.Key(), v)
		}
		pD, err = diamondContribution(ctx, dcd, store, belief, edgeProbs, kind, opts)
		if err != nil {
			return probability.Value{}, err
		}
	}

	// Unified combination: hierarchy's sub_node_priors synthesis forces the
	// diamond's own join node to `one`, so pD already represents the pure
	// arrival signal through the diamond, with no remaining v-prior factor
	// to divide out (spec.md §4.6's N=∅/D=∅/both-present cases all reduce
	// to this one formula once that's accounted for).
	miss, err := pN.Complement().Mul(pD.Complement())
	if err != nil {
		return probability.Value{}, err
	}
	result, err := nodePriors[v].Mul(miss.Complement())
	if err != nil {
		return probability.Value{}, err
	}
	if err := checkValue(v, "combine", result, opts.Tolerance); err != nil {
		return probability.Value{}, err
	}
	return result, nil
}

// independentContribution computes p_N = 1 - prod_{u in parents} (1 -
// belief[u] * edge_prob[(u,v)]) (spec.md §4.6). An empty parents list
// yields Zero(kind) (the "no signal" identity).
func independentContribution(
	parents []graphindex.Node,
	v graphindex.Node,
	edgeProbs map[graphindex.Edge]probability.Value,
	belief BeliefMap,
	kind probability.Kind,
) (probability.Value, error) {
	acc := probability.One(kind)
	for _, u := range parents {
		edge := edgeProbs[graphindex.Edge{From: u, To: v}]
		term, err := belief[u].Mul(edge)
		if err != nil {
			return probability.Value{}, err
		}
		acc, err = acc.Mul(term.Complement())
		if err != nil {
			return probability.Value{}, err
		}
	}
	return acc.Complement(), nil
}

// diamondContribution enumerates every 2^k up/down assignment of the
// diamond's conditioning nodes, little-endian over the sorted conditioning
// list (spec.md §5), recursively resolving dcd's induced sub-problem under
// each assignment and aggregating the probability-weighted expectation.
func diamondContribution(
	ctx context.Context,
	dcd *hierarchy.DiamondComputationData,
	store hierarchy.UniqueDiamondStore,
	belief BeliefMap,
	edgeProbs map[graphindex.Edge]probability.Value,
	kind probability.Kind,
	opts EngineOptions,
) (probability.Value, error) {
	cond := dcd.Diamond.ConditioningNodes
	k := len(cond)
	n := 1 << uint(k)

	subEdgeProbs := make(map[graphindex.Edge]probability.Value, len(dcd.Diamond.Edgelist))
	for _, e := range dcd.Diamond.Edgelist {
		subEdgeProbs[e] = edgeProbs[e]
	}

	terms := make([]probability.Value, n)
	err := runAll(ctx, n, opts.Parallel, func(ictx context.Context, mask int) error {
		select {
		case <-ictx.Done():
			return ErrCancelled
		default:
		}

		subPriors := make(map[graphindex.Node]probability.Value, len(dcd.SubNodePriors))
		for node, p := range dcd.SubNodePriors {
			subPriors[node] = p
		}

		priorA := probability.One(kind)
		for i, c := range cond {
			up := mask&(1<<uint(i)) != 0
			bc := belief[c]
			var factor probability.Value
			if up {
				subPriors[c] = probability.One(kind)
				factor = bc
			} else {
				subPriors[c] = probability.Zero(kind)
				factor = bc.Complement()
			}
			var err error
			priorA, err = priorA.Mul(factor)
			if err != nil {
				return err
			}
		}

		// Non-conditioning sub-sources re-derive their prior from the
		// outer belief map computed so far: hierarchy's non_fixed sentinel
		// is a structural-only placeholder, never consumed here.
		for _, s := range dcd.SubSources {
			if conditioningContains(cond, s) {
				continue
			}
			subPriors[s] = belief[s]
		}

		subBelief, err := sweep(ictx, dcd.SubGraphIndex, dcd.SubStructuralData, dcd.SubDiamondStructures, store, subPriors, subEdgeProbs, kind, opts)
		if err != nil {
			return err
		}
		ba := subBelief[dcd.Diamond.JoinNode]

		term, err := priorA.Mul(ba)
		if err != nil {
			return err
		}
		terms[mask] = term
		return nil
	})
	if err != nil {
		return probability.Value{}, err
	}

	total := probability.Zero(kind)
	for _, t := range terms {
		var err error
		total, err = total.Add(t)
		if err != nil {
			return probability.Value{}, err
		}
	}
	return total, nil
}

func conditioningContains(sortedNodes []graphindex.Node, v graphindex.Node) bool {
	i := sort.Search(len(sortedNodes), func(i int) bool { return sortedNodes[i] >= v })
	return i < len(sortedNodes) && sortedNodes[i] == v
}

// checkValue validates that val lies within [0,1] up to tol, the engine's
// failure-semantics boundary (spec.md §4.6, §7).
func checkValue(v graphindex.Node, op string, val probability.Value, tol float64) error {
	switch val.Kind {
	case probability.KindScalar:
		s, _ := val.Scalar()
		if s < -tol || s > 1+tol {
			return &NumericalError{Node: v, Op: op, Value: s}
		}
	case probability.KindInterval:
		lo, hi, _ := val.Bounds()
		if lo < -tol || hi > 1+tol || lo > hi+tol {
			return &NumericalError{Node: v, Op: op, Value: hi}
		}
	case probability.KindPBox:
		box, _ := val.Box()
		for i := 0; i <= box.Steps(); i++ {
			lo, hi := box.Lower(i), box.Upper(i)
			if lo < -tol || hi > 1+tol || lo > hi+tol {
				return &NumericalError{Node: v, Op: op, Value: hi}
			}
		}
	}
	return nil
}

// runAll runs fn(ctx, i) for i in [0,n), sequentially unless parallel is
// set, in which case it fans out through a bounded errgroup.Group. Shared
// by the per-layer sweep and the per-conditioning-assignment enumeration
// (spec.md §5 and §9). Callers write results into index-addressed slices so
// the final, sequential fold stays order-independent-safe and deterministic
// regardless of goroutine completion order.
func runAll(ctx context.Context, n int, parallel bool, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	if !parallel || n == 1 {
		for i := 0; i < n; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(layerConcurrencyLimit)
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error { return fn(gctx, i) })
	}
	return eg.Wait()
}
