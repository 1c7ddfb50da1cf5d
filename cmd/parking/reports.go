package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

func newAvailabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "Show occupancy by class and zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				report, err := a.orchestrator(nil).Availability(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Cross-check space occupancy against active sessions",
		Long:  "Prints the audit report and exits non-zero when any mismatch is found.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				report, err := a.orchestrator(nil).Audit(ctx)
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
				if !report.Consistent() {
					return fmt.Errorf("audit found %d mismatches", len(report.Mismatches))
				}
				return nil
			})
		},
	}
}

func newReportCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Revenue report over completed sessions",
		Long:  "Without --from and --to the report covers every completed session. The range is matched against exit time, --to exclusive.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTime("from", from)
			if err != nil {
				return err
			}
			end, err := parseTime("to", to)
			if err != nil {
				return err
			}
			if (start == nil) != (end == nil) {
				return fmt.Errorf("--from and --to must be given together")
			}

			var dr *parking.DateRange
			if start != nil {
				dr = &parking.DateRange{From: *start, To: *end}
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				report, err := a.orchestrator(nil).RevenueReport(ctx, dr)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "earliest exit time (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "exit time upper bound, exclusive (RFC 3339)")
	return cmd
}
