package diamond

import (
	"math"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath-diamond/core"
	"github.com/katalvlaran/lvlath-diamond/flow"
	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// splitGraph is a node-split unit-capacity flow network built over a
// candidate universe of graphindex.Nodes, used to answer two questions via
// Menger's theorem: the maximum number of internally vertex-disjoint paths
// between a source set and a sink, and a minimum vertex cut realizing that
// bound. Every cuttable node v becomes two half-nodes vIn->vOut joined by a
// unit-capacity edge; original edges become infinite-capacity uOut->vIn
// edges. The network is a *core.Graph and the max flow across it is
// computed by flow.Dinic, not by a private reimplementation of it.
type splitGraph struct {
	g          *core.Graph
	uncuttable map[graphindex.Node]bool
	residual   *core.Graph // populated by maxFlow; nil until then
}

const (
	infCap      = 1 << 30
	superSource = "super"
)

// idStr names a split-graph vertex from the packed int64 id produced by
// inNode/outNode.
func idStr(id int64) string { return strconv.FormatInt(id, 10) }

func inNode(v graphindex.Node) int64  { return int64(v)*2 + 1 }
func outNode(v graphindex.Node) int64 { return int64(v) * 2 }

// newSplitGraph builds the node-split graph over universe, restricted to
// edges of g whose endpoints are both in universe. uncuttable marks nodes
// (typically the join itself) whose internal vIn->vOut edge gets infinite
// capacity instead of 1, because they are observation points, not
// candidate conditioning nodes.
func newSplitGraph(g *graphindex.GraphIndex, universe map[graphindex.Node]struct{}, uncuttable map[graphindex.Node]bool) *splitGraph {
	network := core.NewGraph(core.WithDirected(true), core.WithWeighted())

	// Sorted iteration is required, not cosmetic: Dinic's blocking-flow DFS
	// picks whichever min cut its adjacency order reaches first among ties,
	// so building the network from an unordered map range would make
	// Identify's output depend on Go's randomized map iteration (breaking
	// spec.md's determinism invariant).
	ordered := make([]graphindex.Node, 0, len(universe))
	for v := range universe {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	for _, v := range ordered {
		in, out := idStr(inNode(v)), idStr(outNode(v))
		mustAddVertex(network, in)
		mustAddVertex(network, out)
		c := int64(1)
		if uncuttable[v] {
			c = infCap
		}
		mustAddEdge(network, in, out, c)
	}
	for _, u := range ordered {
		for _, w := range g.Outgoing(u) {
			if _, ok := universe[w]; !ok {
				continue
			}
			mustAddEdge(network, idStr(outNode(u)), idStr(inNode(w)), infCap)
		}
	}

	return &splitGraph{g: network, uncuttable: uncuttable}
}

// mustAddVertex adds id to g, tolerating the case where it is already
// present (every half-node is reachable from more than one caller site).
func mustAddVertex(g *core.Graph, id string) {
	if g.HasVertex(id) {
		return
	}
	if err := g.AddVertex(id); err != nil {
		panic(err)
	}
}

// mustAddEdge skips an edge whose from→to arc already exists (the first
// capacity is kept) instead of inserting a second one, since the network is
// built without core.WithMultiEdges().
func mustAddEdge(g *core.Graph, from, to string, weight int64) {
	if neighbors, err := g.Neighbors(from); err == nil {
		for _, e := range neighbors {
			if e.To == to {
				return
			}
		}
	}
	if _, err := g.AddEdge(from, to, weight); err != nil {
		panic(err)
	}
}

// maxFlow runs flow.Dinic from a virtual super-source — wired with
// infinite capacity to every entry in sources — to sink, returning the
// max-flow value. Routing multiple sources through one super-source lets a
// single Dinic call test joint separation of several forks from the join.
func (sg *splitGraph) maxFlow(sources []int64, sink int64) int {
	mustAddVertex(sg.g, superSource)
	for _, s := range sources {
		mustAddEdge(sg.g, superSource, idStr(s), infCap)
	}

	value, residual, err := flow.Dinic(sg.g, superSource, idStr(sink), flow.DefaultOptions())
	if err != nil {
		panic(err)
	}
	sg.residual = residual

	return int(math.Round(value))
}

// minCutNodes returns, after maxFlow has saturated the network from
// superSource to sink, the set of universe nodes whose split edge
// (vIn->vOut) is part of a minimum vertex cut: nodes reachable from
// superSource in the residual graph via vIn but not via vOut. This is the
// standard max-flow/min-cut residual-reachability construction, which
// deterministically favors cuts close to the source side (spec.md §4.4
// step 5: "choose the highest (closest to sources) nodes").
func (sg *splitGraph) minCutNodes(universe map[graphindex.Node]struct{}) []graphindex.Node {
	reachable := map[string]bool{superSource: true}
	queue := []string{superSource}
	for i := 0; i < len(queue); i++ {
		u := queue[i]
		neighbors, err := sg.residual.Neighbors(u)
		if err != nil {
			continue
		}
		for _, e := range neighbors {
			if e.Weight > 0 && !reachable[e.To] {
				reachable[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	ordered := make([]graphindex.Node, 0, len(universe))
	for v := range universe {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	var cut []graphindex.Node
	for _, v := range ordered {
		if sg.uncuttable[v] {
			continue
		}
		if reachable[idStr(inNode(v))] && !reachable[idStr(outNode(v))] {
			cut = append(cut, v)
		}
	}
	return cut
}
