package parking

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

const fieldEntry = "entry"

type listRatesRequest struct {
	VehicleClass domain.VehicleClass `query:"vehicle_class"`
}

type expireRateRequest struct {
	ID             uuid.UUID `path:"id" json:"-"`
	EffectiveUntil time.Time `json:"effective_until"`
}

type quoteRequest struct {
	VehicleClass domain.VehicleClass `query:"vehicle_class"`
	Entry        *time.Time          `query:"entry"`
	Exit         *time.Time          `query:"exit"`
}

func (m *module) listRates(ctx context.Context, req listRatesRequest) response {
	rules, err := m.rates.ListRates(ctx, optional(req.VehicleClass))
	if err != nil {
		return fail(err)
	}
	if rules == nil {
		rules = []domain.RateRule{}
	}
	return ok(Envelope{Data: rules})
}

func (m *module) createRate(ctx context.Context, req rates.NewRate) response {
	req.VehicleClass = upper(req.VehicleClass)
	req.RateKind = upper(req.RateKind)
	rule, err := m.rates.CreateRate(ctx, req)
	if err != nil {
		return fail(err)
	}
	return created(Envelope{Data: rule})
}

func (m *module) expireRate(ctx context.Context, req expireRateRequest) response {
	rule, err := m.rates.ExpireRate(ctx, req.ID, req.EffectiveUntil)
	if err != nil {
		return fail(err)
	}
	return ok(Envelope{Data: rule})
}

func (m *module) quote(ctx context.Context, req quoteRequest) response {
	class := upper(req.VehicleClass)
	if err := validator.Apply(
		validator.OneOf(domain.FieldVehicleClass, class, domain.VehicleClasses),
		validator.Rule{
			Check: func() bool { return req.Entry != nil },
			Error: validator.ValidationError{Field: fieldEntry, Message: "is required"},
		},
	); err != nil {
		return fail(err)
	}

	exit := m.now()
	if req.Exit != nil {
		exit = *req.Exit
	}
	q, err := m.rates.Quote(ctx, class, *req.Entry, exit)
	if err != nil {
		return fail(err)
	}
	return ok(Envelope{Fee: &q.Fee, Data: q})
}
