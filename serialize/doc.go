// Package serialize implements the JSON and text wire formats of
// SPEC_FULL.md §6: the edge-list input format, the node-priors and
// edge-probabilities JSON documents, and the BeliefMap output document
// (which mirrors the node-priors schema).
//
// What
//
//   - ParseEdgeList: the "source,destination" text format into
//     []graphindex.Edge.
//   - NodePriors / EdgeProbabilities: JSON documents tagged with a
//     data_type discriminator ("Float64" | "Interval" | "pbox"),
//     decoding into map[graphindex.Node]probability.Value /
//     map[graphindex.Edge]probability.Value.
//   - MarshalBeliefMap / UnmarshalBeliefMap: BeliefMap <-> the same
//     node-keyed JSON schema as NodePriors.
//
// Why
//
//	The engine's core packages never import encoding/json: the wire format
//	is an external collaborator's concern (spec.md §1 non-goal list), kept
//	in its own package so probability/graphindex/structural/diamond/
//	hierarchy/belief stay pure compute. No third-party JSON library is
//	wired anywhere in the retrieval pack to a component this shape could
//	plausibly share (see DESIGN.md) — stdlib encoding/json is used
//	directly.
package serialize
