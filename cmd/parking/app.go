package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/config"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/events"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/httpserver"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/pg"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/redis"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/requestid"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sessions"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/spaces"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sqlite"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/migrations"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/pgstore"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/sqlitestore"
)

const (
	storeSQLite   = "sqlite"
	storePostgres = "postgres"
)

var (
	ErrUnknownStore    = errors.New("unknown store backend")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

type appConfig struct {
	Env         string `env:"PARKING_ENV" envDefault:"development"`
	ServiceName string `env:"PARKING_SERVICE_NAME" envDefault:"parking"`
	Store       string `env:"PARKING_STORE" envDefault:"sqlite"`
	Timezone    string `env:"PARKING_TIMEZONE" envDefault:"UTC"`
	AutoMigrate bool   `env:"PARKING_AUTO_MIGRATE" envDefault:"true"`
	// OccupancyInterval is how often serve refreshes the space gauges.
	OccupancyInterval time.Duration `env:"PARKING_OCCUPANCY_INTERVAL" envDefault:"15s"`
}

// app holds the process-wide dependencies of one command run.
type app struct {
	cfg    appConfig
	log    *slog.Logger
	loc    *time.Location
	store  parking.Store
	checks []httpserver.Check
	pub    sessions.Publisher
	redis  events.Subscriber

	closers []func() error
}

type appOptions struct {
	// migrate forces migrations regardless of PARKING_AUTO_MIGRATE.
	migrate bool
	// events connects to Redis when PARKING_EVENTS_ENABLED is set.
	events bool
}

func loadAppConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return appConfig{}, err
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return cfg, nil
}

func newLogger(cfg appConfig) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, cfg.Timezone, err)
	}

	a := &app{cfg: cfg, log: newLogger(cfg), loc: loc}
	if err := a.openStore(ctx, opts.migrate || cfg.AutoMigrate); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	if opts.events {
		if err := a.openEvents(ctx); err != nil {
			return nil, errors.Join(err, a.Close())
		}
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context, migrate bool) error {
	switch a.cfg.Store {
	case storeSQLite:
		var cfg sqlite.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}
		db, err := sqlite.Open(ctx, cfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		if migrate {
			if err := sqlite.Migrate(ctx, db, migrations.SQLite(), cfg, a.log); err != nil {
				return err
			}
		}
		a.store = sqlitestore.New(db)
		a.checks = append(a.checks, httpserver.Check{Name: "sqlite", Probe: sqlite.Healthcheck(db)})

	case storePostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		if migrate {
			if err := pg.Migrate(ctx, pool, migrations.Postgres(), cfg, a.log); err != nil {
				return err
			}
		}
		a.store = pgstore.New(pool)
		a.checks = append(a.checks, httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool)})

	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownStore, a.cfg.Store, storeSQLite, storePostgres)
	}
	return nil
}

func (a *app) openEvents(ctx context.Context) error {
	var cfg events.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if !cfg.Enabled {
		return nil
	}

	var rcfg redis.Config
	if err := config.Load(&rcfg); err != nil {
		return err
	}
	client, err := redis.Connect(ctx, rcfg)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, client.Close)
	a.checks = append(a.checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
	a.pub = events.NewRedisPublisher(client,
		events.WithChannel(cfg.Channel),
		events.WithLogger(a.log.With(logger.Component("events"))),
	)
	a.redis = client
	return nil
}

func (a *app) rateEngine() *rates.Engine {
	return rates.New(a.store, rates.WithLogger(a.log.With(logger.Component("rates"))))
}

func (a *app) orchestrator(rec sessions.Recorder) *sessions.Orchestrator {
	return sessions.New(a.store, a.rateEngine(),
		spaces.New(a.store, spaces.WithLogger(a.log.With(logger.Component("spaces")))),
		sessions.WithLogger(a.log.With(logger.Component("sessions"))),
		sessions.WithLocation(a.loc),
		sessions.WithRecorder(rec),
		sessions.WithPublisher(a.pub),
	)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
