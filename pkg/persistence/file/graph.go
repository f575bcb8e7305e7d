package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
)

// GraphRepository handles graph document file operations.
type GraphRepository struct {
	root string // File system root for storing graphs
}

// NewGraphRepository creates a new graph repository.
func NewGraphRepository(root string) *GraphRepository {
	return &GraphRepository{root: root}
}

// Graphs returns all stored graph documents, newest first.
func (gr *GraphRepository) Graphs(ctx context.Context) ([]*models.GraphDocument, error) {
	root := os.DirFS(gr.root + "/graphs")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list graph files: %w", err)
	}

	graphs := make([]*models.GraphDocument, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		graphID := file[:len(file)-5] // Remove .json extension

		doc, err := gr.GraphByID(ctx, graphID)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph %s: %w", graphID, err)
		}

		graphs = append(graphs, doc)
	}

	sort.Slice(graphs, func(i, j int) bool {
		return graphs[i].CreatedAt.After(graphs[j].CreatedAt)
	})

	return graphs, nil
}

// GraphByID retrieves a graph document by its ID from the file system.
func (gr *GraphRepository) GraphByID(_ context.Context, id string) (*models.GraphDocument, error) {
	filePath := filepath.Clean(path.Join(gr.root, "graphs", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewGraphError("GraphByID", id, persistence.ErrGraphNotFound)
		}

		return nil, fmt.Errorf("failed to fetch graph %s: %w", id, err)
	}

	var doc models.GraphDocument

	err = json.Unmarshal(body, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph %s: %w", id, err)
	}

	return &doc, nil
}

// SaveGraph saves a graph document to the file system.
func (gr *GraphRepository) SaveGraph(_ context.Context, doc *models.GraphDocument) error {
	err := os.MkdirAll(gr.root+"/graphs", 0750)
	if err != nil {
		return fmt.Errorf("failed to create graphs directory: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	doc.UpdatedAt = now

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph %s: %w", doc.ID, err)
	}

	filePath := path.Join(gr.root+"/graphs", doc.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// DeleteGraph removes a graph document by its ID. Deleting a missing graph
// is not an error.
func (gr *GraphRepository) DeleteGraph(_ context.Context, id string) error {
	filePath := path.Join(gr.root+"/graphs", id+".json")

	err := os.Remove(filePath)

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}

	return nil
}
