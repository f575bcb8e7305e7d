package protocol

import "context"

// StitchOptions control how clips are concatenated.
type StitchOptions struct {
	OutputName string `json:"output_name,omitempty"`
	Normalize  bool   `json:"normalize"`
	Resolution string `json:"resolution,omitempty"`
}

// Stitcher concatenates an ordered list of clip locations into a single
// output and returns its location.
type Stitcher interface {
	Stitch(ctx context.Context, clips []string, opts StitchOptions) (string, error)
}
