package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
	"github.com/dukex/reelflow/pkg/persistence/file"
)

func testDoc(id string) *models.GraphDocument {
	return &models.GraphDocument{
		ID:   id,
		Name: "pipeline " + id,
		Nodes: []*models.GraphNode{
			{ID: "n1", Type: "textinput", Name: "Topic", Config: map[string]any{"text": "sunsets"}},
		},
	}
}

func TestGraphRepository_SaveAndFetch(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.GraphRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveGraph(ctx, testDoc("graph-1")))

	doc, err := repo.GraphByID(ctx, "graph-1")
	require.NoError(t, err)
	assert.Equal(t, "pipeline graph-1", doc.Name)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "textinput", doc.Nodes[0].Type)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestGraphRepository_NotFound(t *testing.T) {
	p := file.NewPersistence(t.TempDir())

	_, err := p.GraphRepository().GraphByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, persistence.IsGraphNotFound(err))
}

func TestGraphRepository_Graphs_NewestFirst(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.GraphRepository()
	ctx := context.Background()

	older := testDoc("graph-old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.SaveGraph(ctx, older))

	newer := testDoc("graph-new")
	newer.CreatedAt = time.Now().UTC()
	require.NoError(t, repo.SaveGraph(ctx, newer))

	graphs, err := repo.Graphs(ctx)
	require.NoError(t, err)
	require.Len(t, graphs, 2)
	assert.Equal(t, "graph-new", graphs[0].ID)
	assert.Equal(t, "graph-old", graphs[1].ID)
}

func TestGraphRepository_Delete(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.GraphRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveGraph(ctx, testDoc("graph-1")))
	require.NoError(t, repo.DeleteGraph(ctx, "graph-1"))

	_, err := repo.GraphByID(ctx, "graph-1")
	assert.True(t, persistence.IsGraphNotFound(err))

	// Deleting a missing graph is a no-op.
	require.NoError(t, repo.DeleteGraph(ctx, "graph-1"))
}

func TestRunRepository_SaveAndFetch(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.RunRepository()
	ctx := context.Background()

	run := &models.RunResult{
		ID:        "run-1",
		GraphID:   "graph-1",
		Status:    models.RunStatusCompleted,
		Results:   map[string]models.NodeResult{"n1": {NodeID: "n1", Data: map[string]any{"text": "hi"}}},
		StartedAt: time.Now().UTC(),
	}

	require.NoError(t, repo.SaveRun(ctx, run))

	stored, err := repo.RunByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, stored.Status)
	assert.Equal(t, "hi", stored.Results["n1"].Data["text"])
}

func TestRunRepository_NotFound(t *testing.T) {
	p := file.NewPersistence(t.TempDir())

	_, err := p.RunRepository().RunByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestRunRepository_RunsByGraph(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.RunRepository()
	ctx := context.Background()

	now := time.Now().UTC()

	for _, run := range []*models.RunResult{
		{ID: "run-old", GraphID: "graph-1", Status: models.RunStatusCompleted, StartedAt: now.Add(-time.Hour)},
		{ID: "run-new", GraphID: "graph-1", Status: models.RunStatusFailed, StartedAt: now},
		{ID: "run-other", GraphID: "graph-2", Status: models.RunStatusCompleted, StartedAt: now},
	} {
		require.NoError(t, repo.SaveRun(ctx, run))
	}

	runs, err := repo.RunsByGraph(ctx, "graph-1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
}

func TestPersistence_HealthCheck(t *testing.T) {
	dir := t.TempDir()

	p := file.NewPersistence(dir)
	require.NoError(t, p.HealthCheck(context.Background()))

	missing := file.NewPersistence(dir + "/does-not-exist")
	require.Error(t, missing.HealthCheck(context.Background()))
}
