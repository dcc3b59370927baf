package hierarchy

import (
	"fmt"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// DiamondRecursionError signals that recursive decomposition exceeded
// BuilderOptions.MaxDepth without converging (spec.md §7): "C5 exceeded a
// configurable depth (default 256) without convergence; indicates a bug or
// an unhandled cycle pattern." Reaching this should only be possible if the
// structure cache and alternating-cycle cache both failed to catch a
// repeating pattern.
type DiamondRecursionError struct {
	JoinNode graphindex.Node
	Depth    int
	MaxDepth int
}

func (e *DiamondRecursionError) Error() string {
	return fmt.Sprintf("hierarchy: recursion depth %d exceeded MaxDepth %d at join node %d", e.Depth, e.MaxDepth, e.JoinNode)
}
