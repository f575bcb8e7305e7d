// Package web provides HTTP request and response types for the graph API.
package web

import "github.com/dukex/reelflow/pkg/models"

// CreateGraphRequest represents the request body for creating a new graph.
type CreateGraphRequest struct {
	Name        string               `json:"name"                  validate:"required,min=3"`
	Description string               `json:"description"`
	Nodes       []*models.GraphNode  `json:"nodes"`
	Connections []*models.Connection `json:"connections"`
	Metadata    map[string]any       `json:"metadata,omitempty"`
}

// UpdateGraphRequest represents the request body for updating an existing graph.
// All fields are optional to support partial updates.
type UpdateGraphRequest struct {
	Name        *string              `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string              `json:"description,omitempty"`
	Nodes       []*models.GraphNode  `json:"nodes,omitempty"`
	Connections []*models.Connection `json:"connections,omitempty"`
	Metadata    map[string]any       `json:"metadata,omitempty"`
}

// ValidationResponse represents the result of aggregate graph validation.
type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues"`
}

// ValidationIssue is the wire form of a single validation finding.
type ValidationIssue struct {
	NodeID  string `json:"node_id,omitempty"`
	Port    string `json:"port,omitempty"`
	Message string `json:"message"`
}
