package models

import "time"

// RunStatus represents the lifecycle state of a graph run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunResult records one execution of a graph: the outputs every finished
// node produced, plus the terminal state. Outputs recorded before a failure
// are retained.
type RunResult struct {
	ID           string                `json:"id"`
	GraphID      string                `json:"graph_id"`
	Status       RunStatus             `json:"status"`
	Results      map[string]NodeResult `json:"results"`
	FailedNodeID string                `json:"failed_node_id,omitempty"`
	Error        string                `json:"error,omitempty"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   time.Time             `json:"finished_at"`
}
