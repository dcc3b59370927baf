package graphindex

import (
	"errors"
	"sort"
)

// ErrCyclicGraph is returned lazily by components built atop a GraphIndex
// once a back edge is detected; GraphIndex.Build itself is lenient
// (spec.md §4.2: "detection is a byproduct of C3; C2 itself is lenient").
var ErrCyclicGraph = errors.New("graphindex: cyclic graph")

// Node is a non-negative integer node identifier.
type Node uint64

// Edge is an ordered (From, To) pair of Nodes.
type Edge struct {
	From, To Node
}

// GraphIndex is the immutable adjacency index built once per input
// (spec.md §3 C2): an ordered edge list (duplicates preserved) and
// outgoing/incoming adjacency (duplicates collapsed), plus the derived
// source-node set.
type GraphIndex struct {
	edgelist []Edge // all edges, in input order, duplicates preserved

	outgoing *idIndex[[]Node] // u -> successors, insertion order, deduplicated
	incoming *idIndex[[]Node] // v -> predecessors, insertion order, deduplicated

	sources []Node // nodes with no predecessor, sorted

	nodes  []Node // every node seen, sorted
	maxID  Node
	hasAny bool
}

// Edgelist returns the input edge list verbatim, duplicates included.
func (g *GraphIndex) Edgelist() []Edge { return g.edgelist }

// Outgoing returns the deduplicated successor list of u, in first-seen
// order. The returned slice must not be mutated by the caller.
func (g *GraphIndex) Outgoing(u Node) []Node {
	v, _ := g.outgoing.Get(u)
	return v
}

// Incoming returns the deduplicated predecessor list of v, in first-seen
// order. The returned slice must not be mutated by the caller.
func (g *GraphIndex) Incoming(v Node) []Node {
	p, _ := g.incoming.Get(v)
	return p
}

// Sources returns the sorted set of nodes with no predecessor.
func (g *GraphIndex) Sources() []Node { return g.sources }

// Nodes returns every node appearing in the input, sorted ascending.
func (g *GraphIndex) Nodes() []Node { return g.nodes }

// InDegree returns len(Incoming(v)) without allocating.
func (g *GraphIndex) InDegree(v Node) int { return len(g.Incoming(v)) }

// OutDegree returns len(Outgoing(u)) without allocating.
func (g *GraphIndex) OutDegree(u Node) int { return len(g.Outgoing(u)) }

// HasNode reports whether n appears anywhere in the input.
func (g *GraphIndex) HasNode(n Node) bool {
	i := sort.Search(len(g.nodes), func(i int) bool { return g.nodes[i] >= n })
	return i < len(g.nodes) && g.nodes[i] == n
}

// Build constructs a GraphIndex from edges, preserving edgelist order and
// multiplicity while collapsing outgoing/incoming to sets (spec.md §6:
// "duplicate edges are treated as duplicates ... the reference behavior is
// to preserve multiplicity in edgelist while collapsing in
// outgoing/incoming"). Build never fails on a cycle — that detection is
// structural.Compute's job — but validates that node ids are well-formed
// Nodes, which by construction (Node = uint64) they always are.
func Build(edges []Edge) (*GraphIndex, error) {
	g := &GraphIndex{
		edgelist: append([]Edge(nil), edges...),
	}

	// Adjacency is accumulated into plain maps first, since neither maxID
	// nor the final node count is known until every edge has been seen;
	// newIDIndex needs both to decide a dense-array vs sparse-map backing
	// (spec.md §9's arena-vs-map note).
	outTmp := make(map[Node][]Node)
	inTmp := make(map[Node][]Node)
	outSeen := make(map[Node]map[Node]struct{})
	inSeen := make(map[Node]map[Node]struct{})
	nodeSeen := make(map[Node]struct{})

	see := func(n Node) {
		if _, ok := nodeSeen[n]; !ok {
			nodeSeen[n] = struct{}{}
			g.nodes = append(g.nodes, n)
			if n > g.maxID || !g.hasAny {
				g.maxID = n
			}
			g.hasAny = true
		}
	}

	for _, e := range edges {
		see(e.From)
		see(e.To)

		if outSeen[e.From] == nil {
			outSeen[e.From] = make(map[Node]struct{})
		}
		if _, dup := outSeen[e.From][e.To]; !dup {
			outSeen[e.From][e.To] = struct{}{}
			outTmp[e.From] = append(outTmp[e.From], e.To)
		}

		if inSeen[e.To] == nil {
			inSeen[e.To] = make(map[Node]struct{})
		}
		if _, dup := inSeen[e.To][e.From]; !dup {
			inSeen[e.To][e.From] = struct{}{}
			inTmp[e.To] = append(inTmp[e.To], e.From)
		}
	}

	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i] < g.nodes[j] })

	g.outgoing = newIDIndex[[]Node](g.maxID, len(g.nodes))
	g.incoming = newIDIndex[[]Node](g.maxID, len(g.nodes))
	for _, n := range g.nodes {
		if lst, ok := outTmp[n]; ok {
			g.outgoing.Set(n, lst)
		}
		if lst, ok := inTmp[n]; ok {
			g.incoming.Set(n, lst)
		}
	}

	for _, n := range g.nodes {
		if len(g.Incoming(n)) == 0 {
			g.sources = append(g.sources, n)
		}
	}
	sort.Slice(g.sources, func(i, j int) bool { return g.sources[i] < g.sources[j] })

	return g, nil
}
