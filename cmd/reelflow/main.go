package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/reelflow/pkg/log"
)

func main() {
	sharedFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "generator-url",
			Usage:   "Base URL of the video generation backend",
			Value:   "http://localhost:5000",
			Sources: cli.EnvVars("GENERATOR_URL"),
		},
		&cli.StringFlag{
			Name:    "work-dir",
			Usage:   "Directory for stitched video output",
			Value:   "./data/videos",
			Sources: cli.EnvVars("WORK_DIR"),
		},
		&cli.StringFlag{
			Name:    "stitcher",
			Usage:   "Stitcher implementation (ffmpeg, manifest)",
			Value:   "ffmpeg",
			Sources: cli.EnvVars("STITCHER"),
		},
		&cli.StringFlag{
			Name:    "plugins-path",
			Usage:   "Path to the directory containing node plugins",
			Value:   "",
			Sources: cli.EnvVars("PLUGINS_PATH"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}

	command := &cli.Command{
		Name:                  "reelflow",
		Usage:                 "Build and run video generation graphs",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Execute a graph from a document file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the graph document (JSON)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "tracing",
						Usage: "Enable OpenTelemetry tracing for this run",
					},
				}, sharedFlags...),
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return runGraph(ctx, command)
				},
			},
			{
				Name:    "validate",
				Aliases: []string{"v"},
				Usage:   "Validate a graph document without running it",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the graph document (JSON)",
						Required: true,
					},
				}, sharedFlags...),
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return validateGraph(ctx, command)
				},
			},
			{
				Name:  "nodes",
				Usage: "List registered node types",
				Flags: sharedFlags,
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return listNodeTypes(command)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger := log.WithModule("cli")
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
