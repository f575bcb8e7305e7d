package graph

import (
	"github.com/dukex/reelflow/pkg/models"
)

type visitColor int

const (
	colorWhite visitColor = iota // unvisited
	colorGrey                    // in progress
	colorBlack                   // done
)

// TopologicalOrder returns a total order over node ids such that for every
// connection (A -> B), A precedes B. Roots are visited in node insertion
// order, so equal graphs always produce equal orders. A cycle yields a
// *CycleError and no partial order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	successors := g.successorIndex()

	colors := make(map[string]visitColor, len(g.members))
	order := make([]string, 0, len(g.members))
	stack := make([]string, 0, len(g.members))

	var visit func(id string) error

	visit = func(id string) error {
		colors[id] = colorGrey
		stack = append(stack, id)

		for _, succ := range successors[id] {
			switch colors[succ] {
			case colorGrey:
				return &CycleError{Path: cyclePath(stack, succ)}
			case colorWhite:
				if err := visit(succ); err != nil {
					return err
				}
			case colorBlack:
			}
		}

		colors[id] = colorBlack
		stack = stack[:len(stack)-1]
		order = append(order, id)

		return nil
	}

	for _, m := range g.members {
		if colors[m.stored.ID] != colorWhite {
			continue
		}

		if err := visit(m.stored.ID); err != nil {
			return nil, err
		}
	}

	// visit finishes a node only after all its successors, so the
	// post-order is reversed to obtain the dependency order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	return order, nil
}

// successorIndex derives the node dependency relation from connections:
// connection (A -> B) means A must be ordered before B.
func (g *Graph) successorIndex() map[string][]string {
	successors := make(map[string][]string, len(g.members))
	seen := make(map[string]map[string]bool, len(g.members))

	for _, conn := range g.connections {
		srcNode, _, ok := models.ParsePortID(conn.SourcePort)
		if !ok {
			continue
		}

		dstNode, _, ok := models.ParsePortID(conn.TargetPort)
		if !ok {
			continue
		}

		if seen[srcNode] == nil {
			seen[srcNode] = make(map[string]bool)
		}

		if seen[srcNode][dstNode] {
			continue
		}

		seen[srcNode][dstNode] = true
		successors[srcNode] = append(successors[srcNode], dstNode)
	}

	return successors
}

// cyclePath extracts the part of the visit stack that forms the cycle,
// closed back on the revisited node.
func cyclePath(stack []string, revisited string) []string {
	start := 0

	for i, id := range stack {
		if id == revisited {
			start = i

			break
		}
	}

	path := append([]string(nil), stack[start:]...)

	return append(path, revisited)
}
