package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/reelflow/pkg/cmd"
	"github.com/dukex/reelflow/pkg/engine"
	"github.com/dukex/reelflow/pkg/graph"
	"github.com/dukex/reelflow/pkg/log"
	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/otelhelper"
	"github.com/dukex/reelflow/pkg/registry"
)

func newRegistry(command *cli.Command) *registry.Registry {
	logger := log.WithModule("cli")

	return cmd.NewRegistry(logger, cmd.RegistryConfig{
		PluginsPath:  command.String("plugins-path"),
		GeneratorURL: command.String("generator-url"),
		WorkDir:      command.String("work-dir"),
		Stitcher:     command.String("stitcher"),
	})
}

func loadDocument(path string) (*models.GraphDocument, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph document %s: %w", path, err)
	}

	var doc models.GraphDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse graph document %s: %w", path, err)
	}

	return &doc, nil
}

func runGraph(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("cli")

	doc, err := loadDocument(command.String("file"))
	if err != nil {
		return err
	}

	reg := newRegistry(command)

	g, err := graph.FromDocument(ctx, doc, reg, logger)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	opts := []engine.Option{}

	if command.Bool("tracing") {
		tracer, err := otelhelper.NewTracer(ctx, "reelflow")
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}

		opts = append(opts, engine.WithTracer(tracer))
	}

	runEngine := engine.New(logger, opts...)

	run, runErr := runEngine.Run(ctx, g, nil)
	if run != nil {
		output, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode run result: %w", err)
		}

		fmt.Fprintln(os.Stdout, string(output))
	}

	return runErr
}

func validateGraph(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("cli")

	doc, err := loadDocument(command.String("file"))
	if err != nil {
		return err
	}

	reg := newRegistry(command)

	g, err := graph.FromDocument(ctx, doc, reg, logger)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	issues := g.Validate()
	if len(issues) == 0 {
		fmt.Fprintln(os.Stdout, "graph is runnable")

		return nil
	}

	for _, issue := range issues {
		fmt.Fprintln(os.Stdout, issue.String())
	}

	return fmt.Errorf("graph has %d validation issues", len(issues))
}

func listNodeTypes(command *cli.Command) error {
	reg := newRegistry(command)

	output, err := json.MarshalIndent(reg.NodeTypes(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode node types: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(output))

	return nil
}
