// Package engine executes a graph's nodes sequentially in topological order.
package engine

import (
	"fmt"
	"strings"

	"github.com/dukex/reelflow/pkg/graph"
)

// ValidationError aborts a run before any node executes. It aggregates every
// problem found so callers can display the full list.
type ValidationError struct {
	Issues []graph.ValidationIssue
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		messages = append(messages, issue.String())
	}

	return fmt.Sprintf("graph is not runnable: %s", strings.Join(messages, "; "))
}

// NodeExecutionError is the terminal outcome of a run in which a node's
// Execute failed. Outputs recorded before the failure are retained on the
// run result.
type NodeExecutionError struct {
	NodeID string
	Err    error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s failed: %v", e.NodeID, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}
