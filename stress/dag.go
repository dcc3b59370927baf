// Package stress generates randomized acyclic graphs for exercising the
// belief-propagation pipeline (structural, diamond, hierarchy, belief) at
// sizes too large to hand-write as edge literals. It reuses builder's
// randomized topology generators rather than rolling a new RNG-driven
// generator from scratch.
package stress

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvlath-diamond/builder"
	"github.com/katalvlaran/lvlath-diamond/core"
	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// RandomDAG builds an n-vertex Erdős-Rényi-like directed graph via
// builder.RandomSparse(n, p) under the given seed, then keeps only the
// edges that go from a lower-numbered vertex to a higher-numbered one.
// builder.RandomSparse samples every ordered pair (i,j) independently, so
// the surviving i<j edges are still a uniform independent sample, and
// discarding the rest is exactly what turns the sampled digraph into a
// DAG: every edge advances a fixed vertex order, so no cycle can form.
func RandomDAG(n int, p float64, seed int64) ([]graphindex.Edge, error) {
	g, err := builder.BuildGraph(
		[]core.GraphOption{core.WithDirected(true)},
		[]builder.BuilderOption{builder.WithSeed(seed)},
		builder.RandomSparse(n, p),
	)
	if err != nil {
		return nil, fmt.Errorf("stress.RandomDAG: %w", err)
	}

	edges := make([]graphindex.Edge, 0, len(g.Edges()))
	for _, e := range g.Edges() {
		from, err := strconv.ParseUint(e.From, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stress.RandomDAG: vertex id %q: %w", e.From, err)
		}
		to, err := strconv.ParseUint(e.To, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stress.RandomDAG: vertex id %q: %w", e.To, err)
		}
		if from >= to {
			continue
		}
		edges = append(edges, graphindex.Edge{From: graphindex.Node(from), To: graphindex.Node(to)})
	}
	return edges, nil
}
