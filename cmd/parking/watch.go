package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/config"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/events"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

var ErrEventsDisabled = errors.New("session events are disabled, set PARKING_EVENTS_ENABLED=true")

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print session events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			var cfg events.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			return withApp(cmd, appOptions{events: true}, func(ctx context.Context, a *app) error {
				if a.redis == nil {
					return ErrEventsDisabled
				}
				out := cmd.OutOrStdout()
				return events.Listen(ctx, a.redis, cfg.Channel, func(_ context.Context, ev parking.SessionEvent) error {
					return printJSON(out, ev)
				}, a.log)
			})
		},
	}
}
