package models

import "time"

// GraphDocument is the portable representation of a graph used for storage
// and transmission. Node ports never appear here; they are derived from each
// node's config on load.
type GraphDocument struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=1"`
	Description string         `json:"description,omitempty"`
	Nodes       []*GraphNode   `json:"nodes"`
	Connections []*Connection  `json:"connections"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
