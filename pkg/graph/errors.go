// Package graph implements the node graph aggregate: structural invariants,
// validated mutations, topological scheduling and the portable form.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Structural errors returned as values by graph mutations. A failed mutation
// never leaves a partial change behind.
var (
	// ErrNodeNotFound indicates a node was not found by the given identifier.
	ErrNodeNotFound = errors.New("node not found")

	// ErrPortNotFound indicates a port name does not exist on the node.
	ErrPortNotFound = errors.New("port not found")

	// ErrInvalidDirection indicates a connection from an input port or into
	// an output port.
	ErrInvalidDirection = errors.New("invalid connection direction")

	// ErrInputOccupied indicates the target input port already has an
	// incoming connection.
	ErrInputOccupied = errors.New("input port already connected")

	// ErrDuplicateConnection indicates an identical connection already exists.
	ErrDuplicateConnection = errors.New("connection already exists")

	// ErrConnectionNotFound indicates a connection was not found by id.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrCycleDetected indicates the dependency graph contains a cycle and
	// no topological order exists.
	ErrCycleDetected = errors.New("cycle detected")
)

// CycleError names at least one node on a dependency cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycleDetected.Error()
	}

	return fmt.Sprintf("%s: %s", ErrCycleDetected.Error(), strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// IsCycleError reports whether err is a cycle detection failure.
func IsCycleError(err error) bool {
	return errors.Is(err, ErrCycleDetected)
}
