// Package hierarchy recursively decomposes the diamonds C4 finds at the
// outer graph into every inner diamond reachable by decomposing their
// induced subgraphs in turn, deduplicating by structural key (C5 in
// SPEC_FULL.md).
//
// What
//
//   - DiamondComputationData: one diamond's induced sub-structure (mirroring
//     structural.StructuralData, restricted to the diamond's relevant
//     nodes), its synthesized sub_node_priors, and its own inner
//     DiamondsAtNode map.
//   - Build: runs diamond.IdentifyAll recursively over each diamond's induced
//     subgraph, populating a UniqueDiamondStore keyed by diamond key.
//
// Why
//
//	Diamonds nest: an inner join node of one diamond can itself be fed by a
//	smaller diamond. Recomputing a diamond's sub-structure every time it is
//	reached down different recursive paths would be wasteful and, for
//	alternating/repeating decomposition patterns, would never terminate —
//	hence the structure cache and the alternating-cycle cache (spec.md §4.5,
//	§9).
//
// Concurrency
//
//	BuilderOptions.Parallel selects an errgroup.Group-based fan-out across
//	sibling diamonds at the same recursion level, bounded by a fixed
//	goroutine limit (spec.md §5: "optional worker pool for C5 across sibling
//	diamonds"); both code paths share the same cache, which is protected by
//	a sync.RWMutex in the core.Graph "read-mostly, occasional insert" style.
package hierarchy
