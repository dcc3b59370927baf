package hierarchy

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvlath-diamond/diamond"
	"github.com/katalvlaran/lvlath-diamond/graphindex"
	"github.com/katalvlaran/lvlath-diamond/probability"
	"github.com/katalvlaran/lvlath-diamond/structural"
)

// Build runs spec.md §4.5 over rootDiamonds, returning a UniqueDiamondStore
// that holds every diamond reachable by recursive decomposition, each
// stored exactly once. nodePriors must cover every node of the outer graph;
// its Values' Kind determines the Kind used for every synthesized
// sub_node_priors entry. ctx is checked at each expansion step and at
// errgroup boundaries when opts.Parallel is set.
func Build(
	ctx context.Context,
	g *graphindex.GraphIndex,
	sd *structural.StructuralData,
	rootDiamonds map[graphindex.Node]*diamond.DiamondsAtNode,
	nodePriors map[graphindex.Node]probability.Value,
	opts BuilderOptions,
) (UniqueDiamondStore, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.normalize()

	b := &builder{
		g:          g,
		sd:         sd,
		kind:       inferKind(nodePriors),
		nodePriors: nodePriors,
		opts:       opts,
		cache:      newCache(),
		store:      make(UniqueDiamondStore),
	}

	joins := make([]graphindex.Node, 0, len(rootDiamonds))
	for j := range rootDiamonds {
		joins = append(joins, j)
	}
	sort.Slice(joins, func(i, k int) bool { return joins[i] < joins[k] })

	roots := make([]diamond.Diamond, 0, len(joins))
	for _, j := range joins {
		roots = append(roots, rootDiamonds[j].Diamond)
	}

	if err := b.expandAll(ctx, roots, 1); err != nil {
		return b.store, err
	}
	return b.store, nil
}

type builder struct {
	g          *graphindex.GraphIndex
	sd         *structural.StructuralData
	kind       probability.Kind
	nodePriors map[graphindex.Node]probability.Value
	opts       BuilderOptions
	cache      *cache

	storeMu sync.Mutex
	store   UniqueDiamondStore
}

func inferKind(priors map[graphindex.Node]probability.Value) probability.Kind {
	for _, v := range priors {
		return v.Kind
	}
	return probability.KindScalar
}

// expandAll runs expand over diamonds, either sequentially or, when
// opts.Parallel is set, fanned out across a bounded errgroup.Group (spec.md
// §5: "optional worker pool for C5 across sibling diamonds").
func (b *builder) expandAll(ctx context.Context, diamonds []diamond.Diamond, depth int) error {
	if !b.opts.Parallel {
		for _, d := range diamonds {
			if err := b.expand(ctx, d, depth); err != nil {
				return err
			}
		}
		return nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(siblingConcurrencyLimit)
	for _, d := range diamonds {
		d := d
		eg.Go(func() error { return b.expand(gctx, d, depth) })
	}
	return eg.Wait()
}

// expand resolves d's alternating-cycle and structure-cache status and, if
// genuinely new, builds its sub-structure and recurses into its inner
// diamonds (spec.md §4.5).
func (b *builder) expand(ctx context.Context, d diamond.Diamond, depth int) error {
	if depth > b.opts.MaxDepth {
		return &DiamondRecursionError{JoinNode: d.JoinNode, Depth: depth, MaxDepth: b.opts.MaxDepth}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	resolved, merged := b.cache.resolveAlternation(d)

	if data, ok := b.cache.lookup(resolved); ok {
		b.storeSet(resolved.Key(), data)
		return nil
	}

	data, subG, subSD := b.buildSubStructure(resolved)
	// Inserted before recursion: a genuine self-referential recurrence of
	// this exact signature during its own expansion will hit this entry
	// via lookup instead of recursing forever.
	b.cache.insert(resolved, data)
	b.storeSet(resolved.Key(), data)

	if merged {
		// Alternating-cycle resolution: over-conditioning already made
		// this diamond's remainder a polytree, so no inner diamonds are
		// discovered for it (spec.md §4.5: "emit an empty inner
		// structure").
		return nil
	}

	inner := diamond.IdentifyAll(subG, subSD)
	data.SubDiamondStructures = inner

	var children []diamond.Diamond
	for _, jn := range sortedKeys(inner) {
		dn := inner[jn]
		if sameRelevantAndEdges(dn.Diamond, resolved) {
			continue // trivial self-reference (spec.md §4.5)
		}
		children = append(children, dn.Diamond)
	}
	if len(children) == 0 {
		return nil
	}
	return b.expandAll(ctx, children, depth+1)
}

func (b *builder) storeSet(key string, data *DiamondComputationData) {
	b.storeMu.Lock()
	defer b.storeMu.Unlock()
	b.store[key] = data
}

// buildSubStructure realizes spec.md §4.5 steps (a)-(f) for d: the induced
// sub-indices, the ancestor/descendant intersections with d.RelevantNodes,
// the outer iteration sets restricted to d.RelevantNodes, and the
// synthesized sub_node_priors. It returns the data plus a GraphIndex/
// StructuralData pair suitable for running diamond.IdentifyAll over (step
// g).
func (b *builder) buildSubStructure(d diamond.Diamond) (*DiamondComputationData, *graphindex.GraphIndex, *structural.StructuralData) {
	subG, _ := graphindex.Build(d.Edgelist)

	relevant := make(map[graphindex.Node]struct{}, len(d.RelevantNodes))
	for _, v := range d.RelevantNodes {
		relevant[v] = struct{}{}
	}

	outgoing := make(map[graphindex.Node][]graphindex.Node, len(d.RelevantNodes))
	incoming := make(map[graphindex.Node][]graphindex.Node, len(d.RelevantNodes))
	var sources, forks, joins []graphindex.Node
	for _, v := range d.RelevantNodes {
		outgoing[v] = subG.Outgoing(v)
		incoming[v] = subG.Incoming(v)
		if len(incoming[v]) == 0 {
			sources = append(sources, v)
		}
		if len(outgoing[v]) >= 2 {
			forks = append(forks, v)
		}
		if len(incoming[v]) >= 2 {
			joins = append(joins, v)
		}
	}

	ancestors := make(map[graphindex.Node][]graphindex.Node, len(d.RelevantNodes))
	descendants := make(map[graphindex.Node][]graphindex.Node, len(d.RelevantNodes))
	for _, v := range d.RelevantNodes {
		ancestors[v] = intersectSorted(b.sd.Ancestors(v), relevant)
		descendants[v] = intersectSorted(b.sd.Descendants(v), relevant)
	}

	var iterationSets [][]graphindex.Node
	for _, layer := range b.sd.IterationSets {
		filtered := intersectSorted(layer, relevant)
		if len(filtered) > 0 {
			iterationSets = append(iterationSets, filtered)
		}
	}

	conditioning := make(map[graphindex.Node]struct{}, len(d.ConditioningNodes))
	for _, c := range d.ConditioningNodes {
		conditioning[c] = struct{}{}
	}
	isSource := make(map[graphindex.Node]struct{}, len(sources))
	for _, s := range sources {
		isSource[s] = struct{}{}
	}

	priors := make(map[graphindex.Node]probability.Value, len(d.RelevantNodes))
	for _, v := range d.RelevantNodes {
		switch {
		case v == d.JoinNode:
			priors[v] = probability.One(b.kind)
		case isInSet(v, isSource) && isInSet(v, conditioning):
			priors[v] = probability.One(b.kind)
		case isInSet(v, isSource):
			priors[v] = probability.NonFixed(b.kind)
		default:
			priors[v] = b.nodePriors[v]
		}
	}

	subSD := structural.FromComponents(iterationSets, ancestors, descendants, forks, joins)

	data := &DiamondComputationData{
		Diamond:           d,
		SubOutgoing:       outgoing,
		SubIncoming:       incoming,
		SubSources:        sources,
		SubForkNodes:      forks,
		SubJoinNodes:      joins,
		SubAncestors:      ancestors,
		SubDescendants:    descendants,
		SubIterationSets:  iterationSets,
		SubNodePriors:     priors,
		SubGraphIndex:     subG,
		SubStructuralData: subSD,
	}
	return data, subG, subSD
}

func isInSet(v graphindex.Node, set map[graphindex.Node]struct{}) bool {
	_, ok := set[v]
	return ok
}

// intersectSorted returns the subset of sorted that also appears in set,
// preserving sorted's order (and therefore remaining sorted itself).
func intersectSorted(sorted []graphindex.Node, set map[graphindex.Node]struct{}) []graphindex.Node {
	var out []graphindex.Node
	for _, v := range sorted {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func sameRelevantAndEdges(a, b diamond.Diamond) bool {
	if len(a.RelevantNodes) != len(b.RelevantNodes) || len(a.Edgelist) != len(b.Edgelist) {
		return false
	}
	for i := range a.RelevantNodes {
		if a.RelevantNodes[i] != b.RelevantNodes[i] {
			return false
		}
	}
	for i := range a.Edgelist {
		if a.Edgelist[i] != b.Edgelist[i] {
			return false
		}
	}
	return true
}

func sortedKeys(m map[graphindex.Node]*diamond.DiamondsAtNode) []graphindex.Node {
	out := make([]graphindex.Node, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
