// Package diamond implements per-join-node diamond discovery and
// conditioning-set selection (C4 in SPEC_FULL.md).
//
// What
//
//   - Diamond: an induced subgraph at a join node j, created by two or more
//     internally-disjoint paths from a common fork, together with a
//     conditioning set of nodes whose fixed assignment reduces the
//     remainder to a polytree w.r.t. j.
//   - DiamondsAtNode: a join node's Diamond plus the non-diamond parents
//     whose contribution multiplies independently of it.
//   - Identify: runs the spec.md §4.4 algorithm for a single join node.
//
// Why
//
//	Belief propagation over a DAG reduces to simple independent products
//	everywhere except at a join fed by multiple internally-disjoint paths
//	from a shared ancestor — that reconvergence breaks the independence
//	assumption, and conditioning on a small "cut" of ancestor nodes is the
//	standard device for restoring it (spec.md §4.4 rationale).
//
// Algorithm
//
//	Internally-disjoint path counting and conditioning-set selection are
//	both phrased as vertex-connectivity problems (Menger's theorem: the
//	maximum number of internally vertex-disjoint f->j paths equals the
//	minimum vertex cut separating f from j), solved by building a
//	node-split unit-capacity network as a core.Graph and handing it to
//	flow.Dinic — see flowcut.go.
//
// Complexity
//
//   - Per join node: O(k * VC) where k = |sharedAncestorForks(j)| and VC is
//     the node-split max-flow cost (O(E*sqrt(V)) per Dinic's bound,
//     restricted to the candidate ancestral slice, which is typically far
//     smaller than the whole graph).
package diamond
