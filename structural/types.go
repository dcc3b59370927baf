package structural

import (
	"context"
	"errors"
	"sort"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// ErrCyclicGraph is returned when Compute cannot assign every node to an
// iteration set: some back edge makes forward layering impossible.
var ErrCyclicGraph = errors.New("structural: cyclic graph")

// StructuralData is the immutable output of Compute (spec.md §3 C3).
type StructuralData struct {
	IterationSets [][]graphindex.Node // S0 (sources) .. SL, disjoint, ordered

	ancestors   map[graphindex.Node][]graphindex.Node
	descendants map[graphindex.Node][]graphindex.Node
	level       map[graphindex.Node]int

	ForkNodes []graphindex.Node // sorted, out-degree >= 2
	JoinNodes []graphindex.Node // sorted, in-degree >= 2
}

// Level returns v's iteration-set index.
func (s *StructuralData) Level(v graphindex.Node) int { return s.level[v] }

// Ancestors returns the sorted set of nodes with a directed path to v,
// excluding v itself.
func (s *StructuralData) Ancestors(v graphindex.Node) []graphindex.Node { return s.ancestors[v] }

// Descendants returns the sorted set of nodes reachable from v, excluding
// v itself.
func (s *StructuralData) Descendants(v graphindex.Node) []graphindex.Node { return s.descendants[v] }

// IsFork reports whether v has out-degree >= 2.
func (s *StructuralData) IsFork(v graphindex.Node) bool {
	return sortedContains(s.ForkNodes, v)
}

// IsJoin reports whether v has in-degree >= 2.
func (s *StructuralData) IsJoin(v graphindex.Node) bool {
	return sortedContains(s.JoinNodes, v)
}

func sortedContains(xs []graphindex.Node, v graphindex.Node) bool {
	i := sort.Search(len(xs), func(i int) bool { return xs[i] >= v })
	return i < len(xs) && xs[i] == v
}

// FromComponents builds a StructuralData directly from already-derived
// components, without running Compute's Kahn layering. hierarchy.Builder
// uses this to assemble a diamond's sub-structure: spec.md §4.5 defines
// sub_ancestors/sub_descendants/sub_iteration_sets as intersections of the
// *outer* graph's structural data with the diamond's relevant_nodes, not as
// a fresh computation over the induced subgraph alone — the two can differ
// whenever an outer ancestor of v reaches v through a node outside the
// diamond. level is derived from each node's iteration-set index.
func FromComponents(
	iterationSets [][]graphindex.Node,
	ancestors, descendants map[graphindex.Node][]graphindex.Node,
	forkNodes, joinNodes []graphindex.Node,
) *StructuralData {
	sd := &StructuralData{
		IterationSets: iterationSets,
		ancestors:     ancestors,
		descendants:   descendants,
		level:         make(map[graphindex.Node]int, len(ancestors)),
		ForkNodes:     forkNodes,
		JoinNodes:     joinNodes,
	}
	for i, layer := range iterationSets {
		for _, v := range layer {
			sd.level[v] = i
		}
	}
	return sd
}

// Compute builds StructuralData from g (spec.md §4.3). ctx is checked at
// each iteration-set boundary; a nil ctx is treated as context.Background().
func Compute(ctx context.Context, g *graphindex.GraphIndex) (*StructuralData, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	sd := &StructuralData{
		ancestors:   make(map[graphindex.Node][]graphindex.Node),
		descendants: make(map[graphindex.Node][]graphindex.Node),
		level:       make(map[graphindex.Node]int),
	}

	if err := computeIterationSets(ctx, g, sd); err != nil {
		return nil, err
	}
	computeAncestors(g, sd)
	computeDescendants(g, sd)
	computeForkJoin(g, sd)

	return sd, nil
}

// computeIterationSets runs a Kahn-style layered topological sort: S0 is
// g.Sources(); each subsequent layer is every node whose predecessors are
// all already assigned and who is not yet assigned itself. If a full pass
// produces no new layer while nodes remain unassigned, the graph has a
// cycle.
func computeIterationSets(ctx context.Context, g *graphindex.GraphIndex, sd *StructuralData) error {
	remaining := make(map[graphindex.Node]int, len(g.Nodes()))
	for _, n := range g.Nodes() {
		remaining[n] = g.InDegree(n)
	}

	assigned := make(map[graphindex.Node]bool, len(g.Nodes()))
	layer := append([]graphindex.Node(nil), g.Sources()...)

	level := 0
	for len(layer) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sort.Slice(layer, func(i, j int) bool { return layer[i] < layer[j] })
		sd.IterationSets = append(sd.IterationSets, layer)
		for _, n := range layer {
			assigned[n] = true
			sd.level[n] = level
		}

		var next []graphindex.Node
		seenNext := make(map[graphindex.Node]struct{})
		for _, u := range layer {
			for _, v := range g.Outgoing(u) {
				if assigned[v] {
					continue
				}
				remaining[v]--
				if remaining[v] == 0 {
					if _, dup := seenNext[v]; !dup {
						seenNext[v] = struct{}{}
						next = append(next, v)
					}
				}
			}
		}
		layer = next
		level++
	}

	if len(assigned) != len(g.Nodes()) {
		return ErrCyclicGraph
	}
	return nil
}

// computeAncestors derives ancestors[v] in iteration-set order, reusing
// already-computed predecessor ancestor sets: ancestors[v] = preds(v) U
// (U ancestors[p] for p in preds(v)). Because iteration sets are processed
// low-to-high, every predecessor's ancestor set is final by the time v is
// visited.
func computeAncestors(g *graphindex.GraphIndex, sd *StructuralData) {
	for _, layer := range sd.IterationSets {
		for _, v := range layer {
			preds := g.Incoming(v)
			if len(preds) == 0 {
				sd.ancestors[v] = nil
				continue
			}
			set := make(map[graphindex.Node]struct{})
			for _, p := range preds {
				set[p] = struct{}{}
				for _, a := range sd.ancestors[p] {
					set[a] = struct{}{}
				}
			}
			sd.ancestors[v] = sortedKeys(set)
		}
	}
}

// computeDescendants mirrors computeAncestors over iteration sets in
// reverse order, reusing already-computed successor descendant sets.
func computeDescendants(g *graphindex.GraphIndex, sd *StructuralData) {
	for i := len(sd.IterationSets) - 1; i >= 0; i-- {
		for _, v := range sd.IterationSets[i] {
			succs := g.Outgoing(v)
			if len(succs) == 0 {
				sd.descendants[v] = nil
				continue
			}
			set := make(map[graphindex.Node]struct{})
			for _, s := range succs {
				set[s] = struct{}{}
				for _, d := range sd.descendants[s] {
					set[d] = struct{}{}
				}
			}
			sd.descendants[v] = sortedKeys(set)
		}
	}
}

func computeForkJoin(g *graphindex.GraphIndex, sd *StructuralData) {
	for _, n := range g.Nodes() {
		if g.OutDegree(n) >= 2 {
			sd.ForkNodes = append(sd.ForkNodes, n)
		}
		if g.InDegree(n) >= 2 {
			sd.JoinNodes = append(sd.JoinNodes, n)
		}
	}
}

func sortedKeys(set map[graphindex.Node]struct{}) []graphindex.Node {
	out := make([]graphindex.Node, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
