package stitch

import (
	"context"

	"github.com/dukex/reelflow/pkg/protocol"
)

// StitchNodeFactory creates StitchNode instances bound to a stitcher.
type StitchNodeFactory struct {
	stitcher protocol.Stitcher
}

func NewStitchNodeFactory(stitcher protocol.Stitcher) protocol.NodeFactory {
	return &StitchNodeFactory{stitcher: stitcher}
}

func (f *StitchNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewStitchNode(id, config, f.stitcher)
}

func (f *StitchNodeFactory) ID() string {
	return "stitch"
}

func (f *StitchNodeFactory) Name() string {
	return "Video Stitcher"
}

func (f *StitchNodeFactory) Description() string {
	return "Concatenates ordered clips into one video; the input port count follows the count config field"
}

func (f *StitchNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"count": map[string]any{
				"type":        "number",
				"description": "Number of clips to concatenate",
				"default":     2,
				"minimum":     2,
				"maximum":     maxClipCount,
			},
			"output_name": map[string]any{
				"type":        "string",
				"description": "Output file name (auto-generated when omitted)",
			},
			"normalize": map[string]any{
				"type":        "boolean",
				"description": "Normalize resolution, frame rate and codecs before concatenating",
				"default":     true,
			},
			"resolution": map[string]any{
				"type":        "string",
				"description": "Target resolution such as 1920x1080 (source resolution when omitted)",
			},
		},
	}
}
