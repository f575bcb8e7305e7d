package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dukex/reelflow/pkg/protocol"
)

// ManifestStitcher writes a JSON manifest describing the clips in order
// instead of invoking ffmpeg. Useful when a downstream system performs the
// actual concatenation, and in tests.
type ManifestStitcher struct {
	workDir string
}

func NewManifestStitcher(workDir string) *ManifestStitcher {
	return &ManifestStitcher{workDir: workDir}
}

type manifest struct {
	Clips      []string  `json:"clips"`
	Resolution string    `json:"resolution,omitempty"`
	Normalize  bool      `json:"normalize"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stitch writes the manifest file and returns its path.
func (s *ManifestStitcher) Stitch(_ context.Context, clips []string, opts protocol.StitchOptions) (string, error) {
	if len(clips) == 0 {
		return "", fmt.Errorf("no clips to stitch")
	}

	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}

	outputName := opts.OutputName
	if outputName == "" {
		outputName = fmt.Sprintf("stitched_%d.json", time.Now().UnixMilli())
	}

	payload, err := json.MarshalIndent(manifest{
		Clips:      clips,
		Resolution: opts.Resolution,
		Normalize:  opts.Normalize,
		CreatedAt:  time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}

	outputPath := filepath.Join(s.workDir, outputName)

	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return outputPath, nil
}
