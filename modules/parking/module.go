package parking

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	domain "github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/requestid"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sessions"
)

// Sessions is the orchestrator surface the module exposes.
type Sessions interface {
	Enter(ctx context.Context, plate string, class domain.VehicleClass) (domain.Session, error)
	Exit(ctx context.Context, plate string) (domain.Session, error)
	CompleteSession(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Cancel(ctx context.Context, id uuid.UUID) (domain.Session, error)
	SearchSessions(ctx context.Context, c sessions.SearchCriteria) ([]domain.Session, error)
	Availability(ctx context.Context) (domain.AvailabilityReport, error)
	Audit(ctx context.Context) (domain.AuditReport, error)
	RevenueReport(ctx context.Context, r *domain.DateRange) (domain.RevenueReport, error)
}

// Rates is the rate card surface the module exposes.
type Rates interface {
	ListRates(ctx context.Context, class *domain.VehicleClass) ([]domain.RateRule, error)
	CreateRate(ctx context.Context, in rates.NewRate) (domain.RateRule, error)
	ExpireRate(ctx context.Context, id uuid.UUID, until time.Time) (domain.RateRule, error)
	Quote(ctx context.Context, class domain.VehicleClass, entry, exit time.Time) (rates.Quote, error)
}

// RouterOptions wires the module. Sessions and Rates are required.
type RouterOptions struct {
	Sessions Sessions
	Rates    Rates
	Logger   *slog.Logger
	// Clock supplies the default exit time of price quotes.
	Clock func() time.Time
}

type module struct {
	sessions Sessions
	rates    Rates
	log      *slog.Logger
	now      func() time.Time
}

// Router returns the JSON API of the parking service.
//
//	r := chi.NewRouter()
//	r.Mount("/api", parking.Router(parking.RouterOptions{
//		Sessions: orchestrator,
//		Rates:    engine,
//		Logger:   log,
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Sessions == nil || opts.Rates == nil {
		panic("parking: Sessions and Rates are required")
	}
	m := &module{
		sessions: opts.Sessions,
		rates:    opts.Rates,
		log:      opts.Logger,
		now:      opts.Clock,
	}
	if m.log == nil {
		m.log = logger.Discard()
	}
	if m.now == nil {
		m.now = time.Now
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, m.accessLog, m.recoverer)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", handle(m, m.searchSessions, queryBinder))
		r.Post("/enter", handle(m, m.enter, jsonBinder))
		r.Post("/exit", handle(m, m.exit, jsonBinder))
		r.Post("/{id}/complete", handle(m, m.complete, pathBinder))
		r.Post("/{id}/cancel", handle(m, m.cancel, pathBinder))
	})
	r.Get("/availability", handle(m, m.availability))
	r.Get("/audit", handle(m, m.audit))
	r.Get("/reports/revenue", handle(m, m.revenue, queryBinder))
	r.Route("/rates", func(r chi.Router) {
		r.Get("/", handle(m, m.listRates, queryBinder))
		r.Post("/", handle(m, m.createRate, jsonBinder))
		r.Get("/quote", handle(m, m.quote, queryBinder))
		r.Post("/{id}/expire", handle(m, m.expireRate, pathBinder, jsonBinder))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = fail(errRouteNotFound).render(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = fail(errMethodNotAllowed).render(w)
	})
	return r
}
