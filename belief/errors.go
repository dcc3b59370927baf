package belief

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// ErrCancelled is returned when ctx is cancelled mid-sweep. The
// BeliefMap returned alongside it still holds every fully-computed layer up
// to the point of cancellation (spec.md §7: "returned with a partial
// BeliefMap").
var ErrCancelled = errors.New("belief: cancelled")

// NumericalError reports a probability value landing outside [0,1] beyond
// EngineOptions.Tolerance at a specific node (spec.md §7).
type NumericalError struct {
	Node  graphindex.Node
	Op    string
	Value float64
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("belief: numerical error at node %d (%s): %g outside [0,1]", e.Node, e.Op, e.Value)
}
