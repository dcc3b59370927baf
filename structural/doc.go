// Package structural computes the preprocessing data every later component
// relies on (C3 in SPEC_FULL.md): iteration sets (a layered topological
// sort), ancestor/descendant closures, and fork/join classification.
//
// What
//
//   - IterationSets: S0, S1, ..., SL — disjoint node sets such that every
//     edge (u,v) satisfies level(u) < level(v), S0 = sources, and every
//     non-source v sits at 1 + max(level(pred)) over its predecessors.
//   - Ancestors/Descendants: full reachability closures (excluding self).
//   - ForkNodes/JoinNodes: nodes with out-degree/in-degree >= 2.
//
// Why
//
//   - The belief engine (C6) processes nodes in iteration-set order because
//     a node's belief depends on every predecessor's belief already being
//     known; the diamond identifier (C4) needs ancestor/descendant sets to
//     find shared-ancestor forks and relevant ancestral slices.
//
// Cycle detection
//
//	Compute uses a Kahn-style in-degree countdown (layered, not a single
//	DFS post-order) because it needs whole layers, not just a total order.
//	A cycle surfaces as a byproduct (spec.md §4.2): ErrCyclicGraph is
//	returned when any node remains unassigned after no new layer can be
//	produced (spec.md §4.3).
//
// Complexity
//
//   - Compute: O(V + E) time and memory for iteration sets and fork/join;
//     O(V*(V+E)) worst case for ancestors/descendants (reachability closure
//     per node, amortized by reusing predecessors' already-computed sets).
package structural
