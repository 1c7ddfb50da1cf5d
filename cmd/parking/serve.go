package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	parkingapi "github.com/suyashk-afk/vehicle-parking-database-system/modules/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/config"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/httpserver"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/metrics"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sessions"
)

const readinessTimeout = 2 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return withApp(cmd, appOptions{events: true}, serve)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return err
	}

	orch := a.orchestrator(rec)
	go refreshOccupancy(ctx, orch, rec, a.cfg.OccupancyInterval, a.log)

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(a.log, readinessTimeout, a.checks...))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Mount("/api/v1", parkingapi.Router(parkingapi.RouterOptions{
		Sessions: orch,
		Rates:    a.rateEngine(),
		Logger:   a.log.With(logger.Component("http")),
	}))

	srv := httpserver.New(httpCfg, httpserver.WithLogger(a.log))
	return srv.Run(ctx, r)
}

// refreshOccupancy keeps the space gauges current until ctx is done.
func refreshOccupancy(ctx context.Context, orch *sessions.Orchestrator, rec *metrics.Recorder, every time.Duration, log *slog.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		report, err := orch.Availability(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WarnContext(ctx, "occupancy refresh failed", logger.Error(err))
		} else {
			rec.SetOccupancy(report)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
