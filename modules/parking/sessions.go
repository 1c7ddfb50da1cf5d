package parking

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sessions"
)

type enterRequest struct {
	LicensePlate string              `json:"license_plate"`
	VehicleClass domain.VehicleClass `json:"vehicle_class"`
}

type exitRequest struct {
	LicensePlate string `json:"license_plate"`
}

type idRequest struct {
	ID uuid.UUID `path:"id"`
}

type searchRequest struct {
	Plate        string               `query:"plate"`
	VehicleClass domain.VehicleClass  `query:"vehicle_class"`
	Status       domain.SessionStatus `query:"status"`
	EntryFrom    *time.Time           `query:"entry_from"`
	EntryTo      *time.Time           `query:"entry_to"`
	MinFee       *int64               `query:"min_fee"`
	MaxFee       *int64               `query:"max_fee"`
	MinDuration  *int64               `query:"min_duration"`
	MaxDuration  *int64               `query:"max_duration"`
	Limit        int                  `query:"limit"`
}

func (m *module) enter(ctx context.Context, req enterRequest) response {
	sess, err := m.sessions.Enter(ctx, req.LicensePlate, upper(req.VehicleClass))
	if err != nil {
		return fail(err)
	}
	return created(Envelope{Session: &sess})
}

func (m *module) exit(ctx context.Context, req exitRequest) response {
	sess, err := m.sessions.Exit(ctx, req.LicensePlate)
	if err != nil {
		return fail(err)
	}
	return sessionResponse(sess)
}

func (m *module) complete(ctx context.Context, req idRequest) response {
	sess, err := m.sessions.CompleteSession(ctx, req.ID)
	if err != nil {
		return fail(err)
	}
	return sessionResponse(sess)
}

func (m *module) cancel(ctx context.Context, req idRequest) response {
	sess, err := m.sessions.Cancel(ctx, req.ID)
	if err != nil {
		return fail(err)
	}
	return sessionResponse(sess)
}

func (m *module) searchSessions(ctx context.Context, req searchRequest) response {
	found, err := m.sessions.SearchSessions(ctx, sessions.SearchCriteria{
		Plate:        req.Plate,
		VehicleClass: optional(req.VehicleClass),
		Status:       optional(req.Status),
		EntryFrom:    req.EntryFrom,
		EntryTo:      req.EntryTo,
		MinFee:       req.MinFee,
		MaxFee:       req.MaxFee,
		MinDuration:  req.MinDuration,
		MaxDuration:  req.MaxDuration,
		Limit:        req.Limit,
	})
	if err != nil {
		return fail(err)
	}
	if found == nil {
		found = []domain.Session{}
	}
	return ok(Envelope{Data: found})
}
