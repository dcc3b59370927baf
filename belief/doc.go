// Package belief implements the forward belief sweep that turns a graph's
// priors and edge probabilities into exact marginal reachability
// probabilities, resolving diamonds by conditioning-state enumeration and
// recursive sub-invocation (C6 in SPEC_FULL.md).
//
// What
//
//   - BeliefMap: the output, node -> ProbabilityValue.
//   - Run: the entry point, processing structural.StructuralData's
//     iteration sets layer by layer.
//
// Why
//
//	A node with only independent parents combines them with a simple
//	noisy-OR product. A node fed by a diamond cannot: its parents'
//	contributions are correlated through the shared fork, so the engine
//	enumerates every up/down assignment of the diamond's conditioning nodes,
//	recursively resolves the diamond's induced sub-problem under each
//	assignment, and takes the probability-weighted expectation (spec.md
//	§4.6).
//
// Composing with hierarchy
//
//	hierarchy.Builder synthesizes each diamond's join-node sub-prior as
//	`one`, specifically so the recursive sub-belief already represents the
//	pure arrival signal through the diamond, with no need to divide out the
//	join's own prior afterward — see engine.go's valueAt for the resulting,
//	single unified combination formula.
//
// Concurrency
//
//	Parallel layer evaluation and parallel conditioning-state enumeration
//	both go through runAll, an errgroup.Group-based fan-out shared by both
//	call sites (spec.md §5): independent nodes within a layer, or
//	independent conditioning assignments within a diamond, may be computed
//	concurrently, but results are always folded back in a fixed, sorted
//	order so EngineOptions.Parallel never changes the output (spec.md §8
//	universal invariant 5: determinism).
package belief
