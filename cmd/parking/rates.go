package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
)

func newRatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect and edit the rate card",
	}
	cmd.AddCommand(newRatesListCmd(), newRatesAddCmd(), newRatesExpireCmd(), newRatesQuoteCmd())
	return cmd
}

func newRatesListCmd() *cobra.Command {
	var class string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rate rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var vc *parking.VehicleClass
			if class != "" {
				c, err := parking.ParseVehicleClass(class)
				if err != nil {
					return err
				}
				vc = &c
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				rules, err := a.rateEngine().ListRates(ctx, vc)
				if err != nil {
					return err
				}
				if rules == nil {
					rules = []parking.RateRule{}
				}
				return printJSON(cmd.OutOrStdout(), rules)
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "only rules for this vehicle class")
	return cmd
}

func newRatesAddCmd() *cobra.Command {
	var (
		class, kind, from, until string
		amount                   int64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a rate rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vc, err := parking.ParseVehicleClass(class)
			if err != nil {
				return err
			}
			rk, err := parking.ParseRateKind(kind)
			if err != nil {
				return err
			}
			in := rates.NewRate{VehicleClass: vc, RateKind: rk, Amount: amount}
			start, err := parseTime("from", from)
			if err != nil {
				return err
			}
			if start == nil {
				now := time.Now()
				start = &now
			}
			in.EffectiveFrom = *start
			if in.EffectiveUntil, err = parseTime("until", until); err != nil {
				return err
			}

			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				rule, err := a.rateEngine().CreateRate(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rule)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&class, "class", "", "vehicle class")
	f.StringVar(&kind, "kind", "", "rate kind (HOURLY, DAILY, FLAT)")
	f.Int64Var(&amount, "amount", 0, "amount per unit in minor currency units")
	f.StringVar(&from, "from", "", "start of validity (RFC 3339), defaults to now")
	f.StringVar(&until, "until", "", "end of validity (RFC 3339), open-ended when empty")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newRatesExpireCmd() *cobra.Command {
	var until string
	cmd := &cobra.Command{
		Use:   "expire <rate-id>",
		Short: "Close the validity window of a rate rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid rate id %q: %w", args[0], err)
			}
			at := time.Now()
			if t, err := parseTime("until", until); err != nil {
				return err
			} else if t != nil {
				at = *t
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				rule, err := a.rateEngine().ExpireRate(ctx, id, at)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rule)
			})
		},
	}
	cmd.Flags().StringVar(&until, "until", "", "end of validity (RFC 3339), defaults to now")
	return cmd
}

func newRatesQuoteCmd() *cobra.Command {
	var class, entry, exit string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a stay without recording it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vc, err := parking.ParseVehicleClass(class)
			if err != nil {
				return err
			}
			start, err := parseTime("entry", entry)
			if err != nil {
				return err
			}
			if start == nil {
				return fmt.Errorf("--entry is required")
			}
			end := time.Now()
			if t, err := parseTime("exit", exit); err != nil {
				return err
			} else if t != nil {
				end = *t
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				q, err := a.rateEngine().Quote(ctx, vc, *start, end)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), q)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&class, "class", "", "vehicle class")
	f.StringVar(&entry, "entry", "", "entry time (RFC 3339)")
	f.StringVar(&exit, "exit", "", "exit time (RFC 3339), defaults to now")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}
