// Package graphindex builds the deterministic adjacency index (C2 in
// SPEC_FULL.md) that every later component reads: an ordered edge list plus
// outgoing/incoming adjacency sets and the derived source-node set.
//
// What
//
//   - Node: a non-negative integer node identifier.
//   - Edge: an ordered (From, To) pair of Nodes.
//   - GraphIndex: edgelist (duplicates preserved), outgoing/incoming
//     adjacency (duplicates collapsed), and sources (nodes with no
//     predecessor).
//
// Why
//
//   - Every downstream component (structural, diamond, hierarchy, belief)
//     needs the same adjacency view; building it once and sharing it by
//     reference (spec.md §5: "the outer GraphIndex ... [is] shared
//     immutably across all recursive engine invocations") avoids recomputing
//     predecessor/successor sets at every layer.
//
// Determinism
//
//	Build never iterates a Go map to produce output: outgoing[u] and
//	incoming[v] are insertion-ordered slices, and sources is a sorted slice,
//	mirroring core.Graph's documented "Vertices() returns sorted IDs"
//	determinism contract.
//
// Complexity
//
//   - Build: O(V + E) time, O(V + E) memory.
package graphindex
