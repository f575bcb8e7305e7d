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

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
)

// RunRepository handles run result file operations.
type RunRepository struct {
	root string
}

// NewRunRepository creates a new run repository.
func NewRunRepository(root string) *RunRepository {
	return &RunRepository{root: root}
}

// SaveRun saves a run result to the file system.
func (rr *RunRepository) SaveRun(_ context.Context, run *models.RunResult) error {
	err := os.MkdirAll(rr.root+"/runs", 0750)
	if err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}

	filePath := path.Join(rr.root+"/runs", run.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// RunByID retrieves a run result by its ID from the file system.
func (rr *RunRepository) RunByID(_ context.Context, id string) (*models.RunResult, error) {
	filePath := filepath.Clean(path.Join(rr.root, "runs", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
		}

		return nil, fmt.Errorf("failed to fetch run %s: %w", id, err)
	}

	var run models.RunResult

	err = json.Unmarshal(body, &run)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", id, err)
	}

	return &run, nil
}

// RunsByGraph returns all runs recorded for a graph, newest first.
func (rr *RunRepository) RunsByGraph(ctx context.Context, graphID string) ([]*models.RunResult, error) {
	root := os.DirFS(rr.root + "/runs")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}

	runs := make([]*models.RunResult, 0)

	for _, file := range jsonFiles {
		runID := file[:len(file)-5]

		run, err := rr.RunByID(ctx, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
		}

		if run.GraphID == graphID {
			runs = append(runs, run)
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}
