package diamond

import (
	"sort"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
	"github.com/katalvlaran/lvlath-diamond/structural"
)

// minReconvergentPaths is the threshold at which a shared ancestor fork is
// considered a genuine diamond source: fewer than two internally-disjoint
// paths from the fork to the join means the fork doesn't actually
// reconverge and contributes nothing (spec.md §4.4 step 5: "if the minimal
// valid set would be empty, the diamond is spurious").
const minReconvergentPaths = 2

// Identify runs spec.md §4.4 for a single join node j, returning nil if j
// has no diamond (either j isn't a join, or no fork reconverges on it at
// least twice).
func Identify(g *graphindex.GraphIndex, sd *structural.StructuralData, j graphindex.Node) *DiamondsAtNode {
	parents := g.Incoming(j)
	if len(parents) < 2 {
		return nil
	}

	forks := sharedAncestorForks(sd, parents)
	if len(forks) == 0 {
		return nil
	}

	relevant := map[graphindex.Node]struct{}{j: {}}
	var qualifyingForks []graphindex.Node

	for _, f := range forks {
		universe := candidateUniverse(sd, f, j)
		if len(universe) == 0 {
			continue
		}
		uncuttable := map[graphindex.Node]bool{j: true}
		sg := newSplitGraph(g, universe, uncuttable)
		flow := sg.maxFlow([]int64{outNode(f)}, inNode(j))
		if flow < minReconvergentPaths {
			continue
		}
		qualifyingForks = append(qualifyingForks, f)
		for v := range universe {
			relevant[v] = struct{}{}
		}
	}

	if len(qualifyingForks) == 0 {
		return nil
	}

	relevantNodes := sortedNodeSet(relevant)
	conditioning := selectConditioningSet(g, sd, qualifyingForks, j, relevant)
	if len(conditioning) == 0 {
		// Step 5: a minimal valid conditioning set could not be found —
		// the apparent diamond is spurious.
		return nil
	}

	edges := inducedEdgelist(g, relevant)

	_, nonDiamondParents := partitionParents(parents, relevant)

	return &DiamondsAtNode{
		JoinNode: j,
		Diamond: Diamond{
			JoinNode:          j,
			RelevantNodes:     relevantNodes,
			ConditioningNodes: conditioning,
			Edgelist:          edges,
		},
		NonDiamondParents: nonDiamondParents,
	}
}

// IdentifyAll runs Identify over every join node in sd, returning a map
// keyed by join node for every node that does have a diamond.
func IdentifyAll(g *graphindex.GraphIndex, sd *structural.StructuralData) map[graphindex.Node]*DiamondsAtNode {
	out := make(map[graphindex.Node]*DiamondsAtNode)
	for _, j := range sd.JoinNodes {
		if d := Identify(g, sd, j); d != nil {
			out[j] = d
		}
	}
	return out
}

// sharedAncestorForks computes F = { f in ForkNodes : exists distinct
// p1,p2 in parents with f in ancestors[p1] ∩ ancestors[p2] } (spec.md §4.4
// step 2), returned sorted.
func sharedAncestorForks(sd *structural.StructuralData, parents []graphindex.Node) []graphindex.Node {
	count := make(map[graphindex.Node]int)
	for _, p := range parents {
		seen := make(map[graphindex.Node]struct{}, len(sd.Ancestors(p))+1)
		for _, a := range sd.Ancestors(p) {
			seen[a] = struct{}{}
		}
		for a := range seen {
			count[a]++
		}
	}
	var forks []graphindex.Node
	forkSet := make(map[graphindex.Node]struct{}, len(sd.ForkNodes))
	for _, f := range sd.ForkNodes {
		forkSet[f] = struct{}{}
	}
	for node, c := range count {
		if c < 2 {
			continue
		}
		if _, isFork := forkSet[node]; !isFork {
			continue
		}
		forks = append(forks, node)
	}
	sort.Slice(forks, func(i, j int) bool { return forks[i] < forks[j] })
	return forks
}

// candidateUniverse returns {f} ∪ (descendants[f] ∩ ancestors[j]) ∪ {j}:
// the only nodes that can possibly lie on an f->j path (spec.md §4.4 step
// 3, with f folded in — see DESIGN.md's Open Question resolution on why f
// itself must belong to relevant_nodes).
func candidateUniverse(sd *structural.StructuralData, f, j graphindex.Node) map[graphindex.Node]struct{} {
	if f == j {
		return nil
	}
	descF := make(map[graphindex.Node]struct{}, len(sd.Descendants(f)))
	for _, d := range sd.Descendants(f) {
		descF[d] = struct{}{}
	}
	universe := map[graphindex.Node]struct{}{f: {}, j: {}}
	for _, a := range sd.Ancestors(j) {
		if _, ok := descF[a]; ok {
			universe[a] = struct{}{}
		}
	}
	return universe
}

// selectConditioningSet computes a minimum vertex cut separating every
// qualifying fork from j, over the union of their candidate universes
// (spec.md §4.4 step 5). j is never itself a candidate (it is the
// observation point, marked uncuttable); forks themselves ARE candidates,
// which is what lets a single-fork diamond condition on the fork node
// directly (see scenarios S2/S3 in spec.md §8).
func selectConditioningSet(g *graphindex.GraphIndex, sd *structural.StructuralData, forks []graphindex.Node, j graphindex.Node, universe map[graphindex.Node]struct{}) []graphindex.Node {
	uncuttable := map[graphindex.Node]bool{j: true}
	sg := newSplitGraph(g, universe, uncuttable)

	sources := make([]int64, 0, len(forks))
	for _, f := range forks {
		sources = append(sources, inNode(f))
	}
	sg.maxFlow(sources, inNode(j))
	cut := sg.minCutNodes(universe)
	sort.Slice(cut, func(i, k int) bool { return cut[i] < cut[k] })
	return cut
}

func sortedNodeSet(set map[graphindex.Node]struct{}) []graphindex.Node {
	out := make([]graphindex.Node, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// inducedEdgelist returns the sorted, deduplicated edges of g with both
// endpoints in relevant.
func inducedEdgelist(g *graphindex.GraphIndex, relevant map[graphindex.Node]struct{}) []graphindex.Edge {
	var edges []graphindex.Edge
	for u := range relevant {
		for _, v := range g.Outgoing(u) {
			if _, ok := relevant[v]; ok {
				edges = append(edges, graphindex.Edge{From: u, To: v})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

func partitionParents(parents []graphindex.Node, relevant map[graphindex.Node]struct{}) (diamondParents, nonDiamondParents []graphindex.Node) {
	for _, p := range parents {
		if _, ok := relevant[p]; ok {
			diamondParents = append(diamondParents, p)
		} else {
			nonDiamondParents = append(nonDiamondParents, p)
		}
	}
	sort.Slice(diamondParents, func(i, j int) bool { return diamondParents[i] < diamondParents[j] })
	sort.Slice(nonDiamondParents, func(i, j int) bool { return nonDiamondParents[i] < nonDiamondParents[j] })
	return diamondParents, nonDiamondParents
}
