package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/dukex/reelflow/pkg/cmd"
	"github.com/dukex/reelflow/pkg/log"
)

func main() {
	command := &cli.Command{
		Name:                  "reelflow-events",
		Usage:                 "Consume and log run lifecycle events",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listener-id",
				Aliases: []string{"id"},
				Usage:   "Custom listener ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("LISTENER_ID"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus provider (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			listenerID := command.String("listener-id")
			if listenerID == "" {
				listenerID = fmt.Sprintf("listener-%s", uuid.New().String()[:8])
			}

			logger := log.WithModule("reelflow-events").With("listener_id", listenerID)

			logger.InfoContext(ctx, "Initializing Reelflow event listener")

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			return NewListener(eventBus, logger).Start(ctx)
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
