package flow

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/lvlath-diamond/core"
)

// EdmondsKarp computes the maximum flow from source→sink
// using the Edmonds–Karp algorithm (BFS for shortest augmenting paths).
//
// It returns:
//   - maxFlow: total flow value
//   - residual: residual-capacity graph after flow
//   - err: non-nil on missing vertices, negative capacities, or when
//     opts.Ctx is cancelled (the context's error is returned).
//
// Options (zero Ctx/Epsilon are filled with defaults):
//   - Epsilon: capacities ≤ Epsilon treated as zero (default 1e-9)
//   - Verbose:  print each augmentation via fmt.Printf
//
// Complexity: O(V · E²)
// Memory:     O(V + E)
func EdmondsKarp(
	g *core.Graph,
	source, sink string,
	opts FlowOptions,
) (maxFlow float64, residual *core.Graph, err error) {
	// 1) Normalize options
	opts.normalize()
	ctx := opts.Ctx
	eps := opts.Epsilon

	// 2) Validate presence of source/sink
	if !g.HasVertex(source) {
		return 0, nil, ErrSourceNotFound
	}
	if !g.HasVertex(sink) {
		return 0, nil, ErrSinkNotFound
	}

	// 3) Build residual graph (copy vertices, sum parallel edges)
	residual = core.NewGraph(core.WithDirected(g.Directed()), core.WithWeighted())
	for id, v := range g.VerticesMap() {
		_ = residual.AddVertex(id)
		if rv, ok := residual.VerticesMap()[id]; ok {
			rv.Metadata = v.Metadata // share Metadata shallowly
		}
	}
	for u := range g.VerticesMap() {
		neighbors, nerr := g.Neighbors(u)
		if nerr != nil {
			return 0, nil, nerr
		}
		capByTarget := make(map[string]float64, len(neighbors))
		for _, e := range neighbors {
			v := e.To
			if e.From == u {
				v = e.To
			} else {
				v = e.From
			}
			if v == u {
				continue // ignore self-loops
			}
			if float64(e.Weight) < -eps {
				return 0, nil, EdgeError{From: u, To: v, Cap: float64(e.Weight)}
			}
			capByTarget[v] += float64(e.Weight)
		}
		for v, capSum := range capByTarget {
			if capSum > eps {
				if _, aerr := residual.AddEdge(u, v, int64(capSum)); aerr != nil {
					return 0, nil, aerr
				}
			}
		}
	}

	// 4) Main loop: find BFS augmenting paths until none remain
	for {
		path, bottle := bfsAugmentingPath(ctx, residual, source, sink, eps)
		if cerr := ctx.Err(); cerr != nil {
			return maxFlow, nil, cerr
		}
		if len(path) == 0 || bottle <= eps {
			break
		}
		if opts.Verbose {
			fmt.Printf("augmenting path %v with flow %.3g\n", path, bottle)
		}
		maxFlow += bottle

		// 5) Augment along the path
		for i := 0; i < len(path)-1; i++ {
			u, v := path[i], path[i+1]
			// decrease forward capacity
			for _, e := range edgesBetween(residual, u, v) {
				e.Weight = int64(math.Max(0, float64(e.Weight)-bottle))
			}
			// increase reverse capacity
			found := false
			for _, re := range edgesBetween(residual, v, u) {
				re.Weight = int64(float64(re.Weight) + bottle)
				found = true
			}
			if !found {
				// create reverse edge if missing
				_, _ = residual.AddEdge(v, u, int64(bottle))
			}
		}
	}

	// Drop saturated arcs so the residual holds only capacity > Epsilon.
	residual.FilterEdges(func(e *core.Edge) bool { return float64(e.Weight) > eps })

	return maxFlow, residual, nil
}

// edgesBetween returns every edge touching u whose other endpoint is v,
// oriented so a directed edge only counts when it runs u→v.
func edgesBetween(g *core.Graph, u, v string) []*core.Edge {
	neighbors, err := g.Neighbors(u)
	if err != nil {
		return nil
	}
	var out []*core.Edge
	for _, e := range neighbors {
		if (e.From == u && e.To == v) || (e.From == v && e.To == u) {
			out = append(out, e)
		}
	}
	return out
}

// bfsAugmentingPath finds the shortest (fewest-edges) path in residual
// from source→sink with positive capacity > eps, and returns that path
// plus its bottleneck capacity. Returns nil if no path found.
func bfsAugmentingPath(
	ctx context.Context,
	g *core.Graph,
	source, sink string,
	eps float64,
) ([]string, float64) {
	// parent[v] = predecessor of v on the path
	parent := make(map[string]string, len(g.Vertices()))
	// capMap[v] = bottleneck capacity from source→v
	capMap := map[string]float64{source: math.Inf(1)}
	visited := map[string]bool{source: true}

	queue := []string{source}
	for len(queue) > 0 {
		// context cancellation check
		select {
		case <-ctx.Done():
			return nil, 0
		default:
		}
		u := queue[0]
		queue = queue[1:]
		neighborIDs, err := g.NeighborIDs(u)
		if err != nil {
			continue
		}
		for _, v := range neighborIDs {
			if visited[v] {
				continue
			}
			// sum capacity of all parallel edges u→v
			var capSum float64
			for _, e := range edgesBetween(g, u, v) {
				capSum += float64(e.Weight)
			}
			if capSum <= eps {
				continue
			}
			visited[v] = true
			parent[v] = u
			capMap[v] = math.Min(capMap[u], capSum)
			if v == sink {
				// reconstruct path
				path := []string{sink}
				for cur := sink; cur != source; {
					p := parent[cur]
					path = append([]string{p}, path...)
					cur = p
				}
				return path, capMap[sink]
			}
			queue = append(queue, v)
		}
	}
	return nil, 0
}
