// Package stitch provides the clip concatenation node. Its input port count
// is a pure function of the count config field.
package stitch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/protocol"
)

const (
	OutputPortVideo = "video"

	maxClipCount = 24
)

// InputPortName returns the name of the i-th (1-based) clip input port.
func InputPortName(i int) string {
	return fmt.Sprintf("clip_%d", i)
}

// StitchNode concatenates its ordered clip inputs into a single video
// through a Stitcher collaborator.
type StitchNode struct {
	id         string
	count      int
	outputName string
	normalize  bool
	resolution string
	stitcher   protocol.Stitcher
}

func NewStitchNode(id string, config map[string]any, stitcher protocol.Stitcher) (*StitchNode, error) {
	if stitcher == nil {
		return nil, errors.New("stitcher is required")
	}

	count := 2
	if raw, ok := config["count"].(float64); ok {
		count = int(raw)
	} else if raw, ok := config["count"].(int); ok {
		count = raw
	}

	node := &StitchNode{
		id:        id,
		count:     count,
		normalize: true,
		stitcher:  stitcher,
	}

	if outputName, ok := config["output_name"].(string); ok {
		node.outputName = outputName
	}

	if normalize, ok := config["normalize"].(bool); ok {
		node.normalize = normalize
	}

	if resolution, ok := config["resolution"].(string); ok {
		node.resolution = resolution
	}

	return node, nil
}

// ID returns the node ID.
func (n *StitchNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *StitchNode) Type() string {
	return "stitch"
}

// Validate checks the clip count bounds.
func (n *StitchNode) Validate() []error {
	if n.count < 2 || n.count > maxClipCount {
		return []error{fmt.Errorf("count must be between 2 and %d", maxClipCount)}
	}

	return nil
}

// Execute collects clips in port order and hands them to the stitcher.
func (n *StitchNode) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	clips := make([]string, 0, n.count)

	for i := 1; i <= n.count; i++ {
		clip, ok := inputs[InputPortName(i)].(string)
		if !ok || clip == "" {
			return nil, fmt.Errorf("missing clip on input %s", InputPortName(i))
		}

		clips = append(clips, clip)
	}

	output, err := n.stitcher.Stitch(ctx, clips, protocol.StitchOptions{
		OutputName: n.outputName,
		Normalize:  n.normalize,
		Resolution: n.resolution,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stitch %d clips: %w", len(clips), err)
	}

	return map[string]any{
		OutputPortVideo: output,
	}, nil
}

// InputPorts returns one clip port per configured input.
func (n *StitchNode) InputPorts() []models.InputPort {
	ports := make([]models.InputPort, 0, n.count)

	for i := 1; i <= n.count; i++ {
		name := InputPortName(i)
		ports = append(ports, models.InputPort{
			Port: models.Port{
				ID:          models.MakePortID(n.id, name),
				NodeID:      n.id,
				Name:        name,
				Kind:        models.PortKindVideo,
				Description: fmt.Sprintf("Clip %d in concatenation order", i),
			},
			Required: true,
		})
	}

	return ports
}

// OutputPorts returns the output ports for the node.
func (n *StitchNode) OutputPorts() []models.OutputPort {
	return []models.OutputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortVideo),
				NodeID:      n.id,
				Name:        OutputPortVideo,
				Kind:        models.PortKindVideo,
				Description: "Location of the stitched video",
			},
		},
	}
}
