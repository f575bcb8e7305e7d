package media

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/reelflow/pkg/protocol"
)

func TestManifestStitcher_Stitch(t *testing.T) {
	workDir := t.TempDir()
	stitcher := NewManifestStitcher(workDir)

	output, err := stitcher.Stitch(context.Background(), []string{"/videos/a.mp4", "/videos/b.mp4"}, protocol.StitchOptions{
		OutputName: "final.json",
		Normalize:  true,
		Resolution: "1080x1920",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != filepath.Join(workDir, "final.json") {
		t.Errorf("unexpected output path: %s", output)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}

	if len(m.Clips) != 2 || m.Clips[0] != "/videos/a.mp4" || m.Clips[1] != "/videos/b.mp4" {
		t.Errorf("clips out of order: %v", m.Clips)
	}

	if !m.Normalize || m.Resolution != "1080x1920" {
		t.Errorf("options not recorded: %+v", m)
	}
}

func TestManifestStitcher_Stitch_GeneratedName(t *testing.T) {
	stitcher := NewManifestStitcher(t.TempDir())

	output, err := stitcher.Stitch(context.Background(), []string{"/videos/a.mp4"}, protocol.StitchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Ext(output) != ".json" {
		t.Errorf("unexpected output name: %s", output)
	}
}

func TestManifestStitcher_Stitch_NoClips(t *testing.T) {
	stitcher := NewManifestStitcher(t.TempDir())

	if _, err := stitcher.Stitch(context.Background(), nil, protocol.StitchOptions{}); err == nil {
		t.Error("expected error for empty clip list")
	}
}
