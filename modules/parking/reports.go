package parking

import (
	"context"
	"time"

	domain "github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

type revenueRequest struct {
	From *time.Time `query:"from"`
	To   *time.Time `query:"to"`
}

// dateRange returns nil for an unbounded report. A half-open range is
// rejected.
func (r revenueRequest) dateRange() (*domain.DateRange, error) {
	switch {
	case r.From == nil && r.To == nil:
		return nil, nil
	case r.From == nil || r.To == nil:
		return nil, validator.Fail(domain.FieldDateRange, "from and to must be given together")
	}
	return &domain.DateRange{From: *r.From, To: *r.To}, nil
}

func (m *module) availability(ctx context.Context, _ struct{}) response {
	report, err := m.sessions.Availability(ctx)
	if err != nil {
		return fail(err)
	}
	return ok(Envelope{Data: report})
}

func (m *module) audit(ctx context.Context, _ struct{}) response {
	report, err := m.sessions.Audit(ctx)
	if err != nil {
		return fail(err)
	}
	return ok(Envelope{Data: report})
}

func (m *module) revenue(ctx context.Context, req revenueRequest) response {
	dr, err := req.dateRange()
	if err != nil {
		return fail(err)
	}
	report, err := m.sessions.RevenueReport(ctx, dr)
	if err != nil {
		return fail(err)
	}
	return ok(Envelope{Data: report})
}
