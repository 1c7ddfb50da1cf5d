package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/seed"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, appOptions{migrate: true}, func(ctx context.Context, a *app) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s store\n", a.cfg.Store)
				return err
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <facility.yaml>",
		Short: "Load spaces and rates from a facility file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fac, err := seed.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				res, err := seed.Apply(ctx, a.store, fac, seed.WithLogger(a.log))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}
