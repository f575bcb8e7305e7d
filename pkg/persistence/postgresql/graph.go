package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
)

// GraphRepository handles graph document database operations.
type GraphRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewGraphRepository creates a new graph repository.
func NewGraphRepository(db *sql.DB, logger *slog.Logger) *GraphRepository {
	return &GraphRepository{
		db:     db,
		logger: logger.With("module", "postgresql"),
	}
}

// Graphs returns all stored graph documents, newest first.
func (gr *GraphRepository) Graphs(ctx context.Context) ([]*models.GraphDocument, error) {
	rows, err := gr.db.QueryContext(ctx, "SELECT document FROM graphs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query graphs: %w", err)
	}
	defer rows.Close()

	graphs := make([]*models.GraphDocument, 0)

	for rows.Next() {
		var raw []byte

		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan graph row: %w", err)
		}

		var doc models.GraphDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal graph document: %w", err)
		}

		graphs = append(graphs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate graph rows: %w", err)
	}

	return graphs, nil
}

// GraphByID retrieves a graph document by its ID.
func (gr *GraphRepository) GraphByID(ctx context.Context, id string) (*models.GraphDocument, error) {
	var raw []byte

	err := gr.db.QueryRowContext(ctx, "SELECT document FROM graphs WHERE id = $1", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewGraphError("GraphByID", id, persistence.ErrGraphNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch graph %s: %w", id, err)
	}

	var doc models.GraphDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph %s: %w", id, err)
	}

	return &doc, nil
}

// SaveGraph upserts a graph document.
func (gr *GraphRepository) SaveGraph(ctx context.Context, doc *models.GraphDocument) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	doc.UpdatedAt = now

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal graph %s: %w", doc.ID, err)
	}

	_, err = gr.db.ExecContext(ctx, `
		INSERT INTO graphs (id, name, description, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, doc.ID, doc.Name, doc.Description, raw, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save graph %s: %w", doc.ID, err)
	}

	return nil
}

// DeleteGraph removes a graph document by its ID. Deleting a missing graph
// is not an error.
func (gr *GraphRepository) DeleteGraph(ctx context.Context, id string) error {
	_, err := gr.db.ExecContext(ctx, "DELETE FROM graphs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}

	return nil
}
