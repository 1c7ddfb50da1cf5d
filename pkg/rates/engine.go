package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * 60

	// MaxAmount caps a rule's price per unit in minor currency units.
	MaxAmount int64 = 1_000_000_000_000
)

// Engine prices parking sessions from the rate card in the store.
type Engine struct {
	q   parking.RateQueries
	now func() time.Time
	log *slog.Logger
}

// New panics when q is nil.
func New(q parking.RateQueries, opts ...Option) *Engine {
	if q == nil {
		panic("rates: RateQueries is required")
	}
	e := &Engine{
		q:   q,
		now: time.Now,
		log: logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of the engine reading through q, typically a
// transaction handle.
func (e *Engine) With(q parking.RateQueries) *Engine {
	cp := *e
	cp.q = q
	return &cp
}

// Cost prices minutes of parking under rule. Partial hours and days are
// charged as whole units. A charge that does not fit in int64 is an
// ErrFeeOverflow.
func Cost(rule parking.RateRule, minutes int64) (int64, error) {
	if minutes < 0 {
		minutes = 0
	}
	switch rule.RateKind {
	case parking.RateFlat:
		return rule.Amount, nil
	case parking.RateHourly:
		return multiply(rule, ceilDiv(minutes, minutesPerHour))
	case parking.RateDaily:
		return multiply(rule, ceilDiv(minutes, minutesPerDay))
	default:
		return 0, fmt.Errorf("%w: %q", parking.ErrUnsupportedRateKind, rule.RateKind)
	}
}

func multiply(rule parking.RateRule, units int64) (int64, error) {
	if units > 0 && rule.Amount > math.MaxInt64/units {
		return 0, fmt.Errorf("%w: %d x %d %s", parking.ErrFeeOverflow, units, rule.Amount, rule.RateKind)
	}
	return units * rule.Amount, nil
}

// ceilDiv assumes n >= 0 and d > 0.
func ceilDiv(n, d int64) int64 {
	return n/d + min(n%d, 1)
}

// BestRate returns the cheapest rule effective at asOf for the class and its
// cost for the given minutes. Ties go to the rule listed first. A rule whose
// charge overflows is never the cheapest and is skipped; the overflow is
// returned only when every effective rule overflows.
func (e *Engine) BestRate(ctx context.Context, class parking.VehicleClass, minutes int64, asOf time.Time) (parking.RateRule, int64, error) {
	rules, err := e.q.ListRates(ctx, &class)
	if err != nil {
		return parking.RateRule{}, 0, err
	}

	var (
		best     parking.RateRule
		bestCost int64
		found    bool
		overflow error
	)
	for _, rule := range rules {
		if !rule.EffectiveAt(asOf) {
			continue
		}
		cost, err := Cost(rule, minutes)
		if errors.Is(err, parking.ErrFeeOverflow) {
			e.log.WarnContext(ctx, "rate charge overflows",
				slog.String("rate_id", rule.RateID.String()),
				slog.Int64("minutes", minutes),
			)
			overflow = err
			continue
		}
		if err != nil {
			return parking.RateRule{}, 0, err
		}
		if !found || cost < bestCost {
			best, bestCost, found = rule, cost, true
		}
	}
	if !found && overflow != nil {
		return parking.RateRule{}, 0, overflow
	}
	if !found {
		return parking.RateRule{}, 0, fmt.Errorf("%w: %s at %s", parking.ErrNoRateFound, class, asOf.UTC().Format(time.RFC3339))
	}
	return best, bestCost, nil
}

// Fee computes the charge for a stay. The rate card is read as of entry so
// a price change during the stay does not affect it. A stay that rounds to
// zero minutes is free and needs no rule.
func (e *Engine) Fee(ctx context.Context, entry, exit time.Time, class parking.VehicleClass) (int64, error) {
	q, err := e.Quote(ctx, class, entry, exit)
	if err != nil {
		return 0, err
	}
	return q.Fee, nil
}

// Quote is a priced stay.
type Quote struct {
	VehicleClass parking.VehicleClass `json:"vehicle_class"`
	Minutes      int64                `json:"minutes"`
	Fee          int64                `json:"fee"`
	Rule         *parking.RateRule    `json:"rule,omitempty"`
}

// Quote prices a hypothetical or finished stay and reports the winning rule.
func (e *Engine) Quote(ctx context.Context, class parking.VehicleClass, entry, exit time.Time) (Quote, error) {
	if !exit.After(entry) {
		return Quote{}, parking.ErrInvalidTimeOrder
	}
	minutes := parking.CeilMinutes(exit.Sub(entry))
	q := Quote{VehicleClass: class, Minutes: minutes}
	if minutes <= 0 {
		return q, nil
	}

	rule, cost, err := e.BestRate(ctx, class, minutes, entry)
	if err != nil {
		return Quote{}, err
	}
	q.Fee = cost
	q.Rule = &rule
	return q, nil
}

// Validate checks a rule before it is stored.
func Validate(rule parking.RateRule) error {
	return validator.Apply(
		validator.Positive(parking.FieldAmount, rule.Amount),
		validator.Max(parking.FieldAmount, rule.Amount, MaxAmount),
		validator.OneOf(parking.FieldVehicleClass, rule.VehicleClass, parking.VehicleClasses),
		validator.OneOf(parking.FieldRateKind, rule.RateKind, parking.RateKinds),
		validator.NotZeroTime(parking.FieldEffectiveFrom, rule.EffectiveFrom),
		validator.TimeAfter(parking.FieldEffectiveUntil, rule.EffectiveUntil, rule.EffectiveFrom),
	)
}

// NewRate describes a rule to add to the rate card.
type NewRate struct {
	VehicleClass   parking.VehicleClass `json:"vehicle_class"`
	RateKind       parking.RateKind     `json:"rate_kind"`
	Amount         int64                `json:"amount"`
	EffectiveFrom  time.Time            `json:"effective_from"`
	EffectiveUntil *time.Time           `json:"effective_until,omitempty"`
}

// CreateRate validates and stores a new rule with a fresh id.
func (e *Engine) CreateRate(ctx context.Context, in NewRate) (parking.RateRule, error) {
	rule := parking.RateRule{
		RateID:         uuid.New(),
		VehicleClass:   in.VehicleClass,
		RateKind:       in.RateKind,
		Amount:         in.Amount,
		EffectiveFrom:  in.EffectiveFrom.UTC().Truncate(time.Microsecond),
		EffectiveUntil: truncated(in.EffectiveUntil),
		CreatedAt:      e.now().UTC().Truncate(time.Microsecond),
	}
	if err := Validate(rule); err != nil {
		return parking.RateRule{}, err
	}
	if err := e.q.InsertRate(ctx, rule); err != nil {
		return parking.RateRule{}, err
	}

	e.log.InfoContext(ctx, "rate created",
		slog.String("rate_id", rule.RateID.String()),
		logger.VehicleClass(rule.VehicleClass),
		slog.String("rate_kind", string(rule.RateKind)),
		slog.Int64("amount", rule.Amount),
	)
	return rule, nil
}

// ExpireRate closes the validity window of a rule at until. Nothing else
// about a stored rule may change.
func (e *Engine) ExpireRate(ctx context.Context, id uuid.UUID, until time.Time) (parking.RateRule, error) {
	rule, err := e.q.GetRate(ctx, id)
	if err != nil {
		if errors.Is(err, parking.ErrNotFound) {
			return parking.RateRule{}, parking.ErrRateNotFound
		}
		return parking.RateRule{}, err
	}

	until = until.UTC().Truncate(time.Microsecond)
	if err := validator.Apply(
		validator.NotZeroTime(parking.FieldEffectiveUntil, until),
		validator.TimeAfter(parking.FieldEffectiveUntil, &until, rule.EffectiveFrom),
	); err != nil {
		return parking.RateRule{}, err
	}

	n, err := e.q.ExpireRate(ctx, id, until)
	if err != nil {
		return parking.RateRule{}, err
	}
	if n == 0 {
		return parking.RateRule{}, parking.ErrRateNotFound
	}
	rule.EffectiveUntil = &until

	e.log.InfoContext(ctx, "rate expired",
		slog.String("rate_id", id.String()),
		slog.Time("effective_until", until),
	)
	return rule, nil
}

// ListRates returns the rate card, optionally for one class.
func (e *Engine) ListRates(ctx context.Context, class *parking.VehicleClass) ([]parking.RateRule, error) {
	if class != nil && !class.Valid() {
		return nil, validator.Fail(parking.FieldVehicleClass, "unknown vehicle class")
	}
	return e.q.ListRates(ctx, class)
}

func truncated(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Microsecond)
	return &u
}
