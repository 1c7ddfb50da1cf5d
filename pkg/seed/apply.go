package seed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
)

// Result counts what Apply changed.
type Result struct {
	Spaces       int `json:"spaces"`
	RatesAdded   int `json:"rates_added"`
	RatesSkipped int `json:"rates_skipped"`
}

type Option func(*options)

type options struct {
	now func() time.Time
	log *slog.Logger
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Apply writes the facility in one transaction. Spaces are upserted, so an
// existing space keeps its occupancy. A rate identical to a stored rule
// (class, kind, amount and window) is skipped, which makes re-running the
// same file a no-op.
func Apply(ctx context.Context, store parking.Store, fac Facility, opts ...Option) (Result, error) {
	o := options{now: time.Now, log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	spaces, err := fac.ExpandSpaces()
	if err != nil {
		return Result{}, err
	}

	var res Result
	err = store.InTx(ctx, func(tx parking.Queries) error {
		for _, sp := range spaces {
			if err := tx.SaveSpace(ctx, sp); err != nil {
				return err
			}
		}
		res.Spaces = len(spaces)

		existing, err := tx.ListRates(ctx, nil)
		if err != nil {
			return err
		}
		engine := rates.New(tx, rates.WithClock(o.now), rates.WithLogger(o.log))
		for _, entry := range fac.Rates {
			in := entry.newRate()
			if containsRate(existing, in) {
				res.RatesSkipped++
				continue
			}
			rule, err := engine.CreateRate(ctx, in)
			if err != nil {
				return err
			}
			existing = append(existing, rule)
			res.RatesAdded++
		}
		return nil
	})
	if err != nil {
		return Result{}, errors.Join(ErrApplyFacility, err)
	}

	o.log.InfoContext(ctx, "facility seeded",
		slog.Int("spaces", res.Spaces),
		slog.Int("rates_added", res.RatesAdded),
		slog.Int("rates_skipped", res.RatesSkipped),
	)
	return res, nil
}

func (s RateEntry) newRate() rates.NewRate {
	return rates.NewRate{
		VehicleClass:   s.VehicleClass,
		RateKind:       s.RateKind,
		Amount:         s.Amount,
		EffectiveFrom:  s.EffectiveFrom,
		EffectiveUntil: s.EffectiveUntil,
	}
}

func containsRate(rules []parking.RateRule, in rates.NewRate) bool {
	from := in.EffectiveFrom.UTC().Truncate(time.Microsecond)
	for _, r := range rules {
		if r.VehicleClass != in.VehicleClass || r.RateKind != in.RateKind || r.Amount != in.Amount {
			continue
		}
		if !r.EffectiveFrom.Equal(from) || !sameUntil(r.EffectiveUntil, in.EffectiveUntil) {
			continue
		}
		return true
	}
	return false
}

func sameUntil(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b.UTC().Truncate(time.Microsecond))
}
