// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/dukex/reelflow/pkg/genclient"
	"github.com/dukex/reelflow/pkg/media"
	"github.com/dukex/reelflow/pkg/nodes/fetch"
	"github.com/dukex/reelflow/pkg/nodes/generate"
	"github.com/dukex/reelflow/pkg/nodes/lognode"
	"github.com/dukex/reelflow/pkg/nodes/prompt"
	"github.com/dukex/reelflow/pkg/nodes/stitch"
	"github.com/dukex/reelflow/pkg/nodes/textinput"
	"github.com/dukex/reelflow/pkg/protocol"
	"github.com/dukex/reelflow/pkg/registry"
)

// RegistryConfig carries the external collaborators node factories depend on.
type RegistryConfig struct {
	PluginsPath  string
	GeneratorURL string
	WorkDir      string
	Stitcher     string // "ffmpeg" or "manifest"
}

func registerNodePlugins(reg *registry.Registry, pluginsPath string) {
	nodePlugins, err := reg.LoadNodePlugins(pluginsPath)
	if err != nil {
		panic(err)
	}

	for _, plugin := range nodePlugins {
		reg.RegisterNode(plugin)
	}
}

func registerNativeNodes(reg *registry.Registry, logger *slog.Logger, cfg RegistryConfig) {
	client := genclient.New(cfg.GeneratorURL, logger)

	var stitcher protocol.Stitcher
	switch cfg.Stitcher {
	case "manifest":
		stitcher = media.NewManifestStitcher(cfg.WorkDir)
	default:
		stitcher = media.NewFFmpegStitcher(cfg.WorkDir, logger)
	}

	reg.RegisterNode(textinput.NewTextInputNodeFactory())
	reg.RegisterNode(prompt.NewPromptNodeFactory())
	reg.RegisterNode(generate.NewGenerateNodeFactory(client))
	reg.RegisterNode(stitch.NewStitchNodeFactory(stitcher))
	reg.RegisterNode(fetch.NewFetchNodeFactory())
	reg.RegisterNode(lognode.NewLogNodeFactory(logger))
}

func NewRegistry(logger *slog.Logger, cfg RegistryConfig) *registry.Registry {
	reg := registry.NewRegistry(logger)

	registerNativeNodes(reg, logger, cfg)

	if cfg.PluginsPath != "" {
		registerNodePlugins(reg, cfg.PluginsPath)
	}

	return reg
}
