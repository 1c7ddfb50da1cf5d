package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sessions"
)

func newEnterCmd() *cobra.Command {
	var plate, class string
	cmd := &cobra.Command{
		Use:   "enter",
		Short: "Register a vehicle entering the facility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vc, err := parking.ParseVehicleClass(class)
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{events: true}, func(ctx context.Context, a *app) error {
				sess, err := a.orchestrator(nil).Enter(ctx, plate, vc)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sess)
			})
		},
	}
	cmd.Flags().StringVar(&plate, "plate", "", "license plate")
	cmd.Flags().StringVar(&class, "class", "", "vehicle class (CAR, MOTORCYCLE, TRUCK, VAN)")
	_ = cmd.MarkFlagRequired("plate")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func newExitCmd() *cobra.Command {
	var plate string
	cmd := &cobra.Command{
		Use:   "exit",
		Short: "Close the active session of a vehicle and charge it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, appOptions{events: true}, func(ctx context.Context, a *app) error {
				sess, err := a.orchestrator(nil).Exit(ctx, plate)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sess)
			})
		},
	}
	cmd.Flags().StringVar(&plate, "plate", "", "license plate")
	_ = cmd.MarkFlagRequired("plate")
	return cmd
}

// sessionIDCmd builds a command that acts on one session by id.
func sessionIDCmd(use, short string, act func(*sessions.Orchestrator) func(context.Context, uuid.UUID) (parking.Session, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <session-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id %q: %w", args[0], err)
			}
			return withApp(cmd, appOptions{events: true}, func(ctx context.Context, a *app) error {
				sess, err := act(a.orchestrator(nil))(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sess)
			})
		},
	}
}

func newCompleteCmd() *cobra.Command {
	return sessionIDCmd("complete", "Complete an active session by id", func(o *sessions.Orchestrator) func(context.Context, uuid.UUID) (parking.Session, error) {
		return o.CompleteSession
	})
}

func newCancelCmd() *cobra.Command {
	return sessionIDCmd("cancel", "Cancel an active session without charge", func(o *sessions.Orchestrator) func(context.Context, uuid.UUID) (parking.Session, error) {
		return o.Cancel
	})
}

func newSessionsCmd() *cobra.Command {
	var (
		plate, class, status string
		entryFrom, entryTo   string
		limit                int
	)
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Search parking sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := sessions.SearchCriteria{
				Plate:       plate,
				MinFee:      int64Flag(cmd, "min-fee"),
				MaxFee:      int64Flag(cmd, "max-fee"),
				MinDuration: int64Flag(cmd, "min-duration"),
				MaxDuration: int64Flag(cmd, "max-duration"),
				Limit:       limit,
			}
			if class != "" {
				vc, err := parking.ParseVehicleClass(class)
				if err != nil {
					return err
				}
				c.VehicleClass = &vc
			}
			if status != "" {
				st, err := parking.ParseSessionStatus(status)
				if err != nil {
					return err
				}
				c.Status = &st
			}
			var err error
			if c.EntryFrom, err = parseTime("entry-from", entryFrom); err != nil {
				return err
			}
			if c.EntryTo, err = parseTime("entry-to", entryTo); err != nil {
				return err
			}

			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				found, err := a.orchestrator(nil).SearchSessions(ctx, c)
				if err != nil {
					return err
				}
				if found == nil {
					found = []parking.Session{}
				}
				return printJSON(cmd.OutOrStdout(), found)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&plate, "plate", "", "plate substring")
	f.StringVar(&class, "class", "", "vehicle class")
	f.StringVar(&status, "status", "", "session status (ACTIVE, COMPLETED, CANCELLED)")
	f.StringVar(&entryFrom, "entry-from", "", "earliest entry time (RFC 3339)")
	f.StringVar(&entryTo, "entry-to", "", "latest entry time (RFC 3339)")
	f.Int64("min-fee", 0, "minimum fee")
	f.Int64("max-fee", 0, "maximum fee")
	f.Int64("min-duration", 0, "minimum duration in minutes")
	f.Int64("max-duration", 0, "maximum duration in minutes")
	f.IntVar(&limit, "limit", 0, "maximum number of sessions, 0 for all")
	return cmd
}
