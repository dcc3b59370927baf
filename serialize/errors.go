package serialize

import "fmt"

// InputError reports a malformed edge list or JSON document (spec.md §7).
type InputError struct {
	Source string // "edgelist", "node_priors", "edge_probabilities", "belief_map"
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("serialize: %s: %s", e.Source, e.Reason)
}
