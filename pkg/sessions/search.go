package sessions

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

// peakHourCount is how many entry hours a revenue report lists.
const peakHourCount = 5

// SearchCriteria filters SearchSessions. Nil and zero fields are ignored.
// Duration bounds are in whole minutes and only match closed sessions.
type SearchCriteria struct {
	Plate        string
	VehicleClass *parking.VehicleClass
	Status       *parking.SessionStatus
	EntryFrom    *time.Time
	EntryTo      *time.Time
	MinFee       *int64
	MaxFee       *int64
	MinDuration  *int64
	MaxDuration  *int64
	Limit        int
}

func (c SearchCriteria) hasDuration() bool {
	return c.MinDuration != nil || c.MaxDuration != nil
}

func (c SearchCriteria) validate() error {
	rules := []validator.Rule{
		validator.TimeRange(parking.FieldEntryRange, c.EntryFrom, c.EntryTo),
		validator.OrderedRange(parking.FieldFeeRange, c.MinFee, c.MaxFee),
		validator.OrderedRange(parking.FieldDurationRange, c.MinDuration, c.MaxDuration),
		validator.NonNegative(parking.FieldLimit, c.Limit),
	}
	if c.VehicleClass != nil {
		rules = append(rules, validator.OneOf(parking.FieldVehicleClass, *c.VehicleClass, parking.VehicleClasses))
	}
	if c.Status != nil {
		rules = append(rules, validator.OneOf(parking.FieldStatus, *c.Status, parking.SessionStatuses))
	}
	for _, bound := range []*int64{c.MinFee, c.MaxFee} {
		if bound != nil {
			rules = append(rules, validator.NonNegative(parking.FieldFeeRange, *bound))
		}
	}
	for _, bound := range []*int64{c.MinDuration, c.MaxDuration} {
		if bound != nil {
			rules = append(rules, validator.NonNegative(parking.FieldDurationRange, *bound))
		}
	}
	return validator.Apply(rules...)
}

func (c SearchCriteria) matchDuration(s parking.Session) bool {
	minutes, ok := s.DurationMinutes()
	if !ok {
		return false
	}
	if c.MinDuration != nil && minutes < *c.MinDuration {
		return false
	}
	if c.MaxDuration != nil && minutes > *c.MaxDuration {
		return false
	}
	return true
}

// SearchSessions returns sessions matching c, newest entry first.
func (o *Orchestrator) SearchSessions(ctx context.Context, c SearchCriteria) (found []parking.Session, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpSearch, start, err) }()

	if err := c.validate(); err != nil {
		return nil, err
	}

	filter := parking.SessionFilter{
		PlateContains: parking.PlateQuery(c.Plate),
		VehicleClass:  c.VehicleClass,
		Status:        c.Status,
		EntryFrom:     c.EntryFrom,
		EntryTo:       c.EntryTo,
		MinFee:        c.MinFee,
		MaxFee:        c.MaxFee,
		Limit:         c.Limit,
	}
	// Durations are derived, so the limit is applied after filtering here.
	if c.hasDuration() {
		filter.Limit = 0
	}

	found, err = o.store.FindSessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if !c.hasDuration() {
		return found, nil
	}

	matched := found[:0]
	for _, s := range found {
		if c.matchDuration(s) {
			matched = append(matched, s)
		}
	}
	if c.Limit > 0 && len(matched) > c.Limit {
		matched = matched[:c.Limit]
	}
	return matched, nil
}

// RevenueReport aggregates completed sessions whose exit time falls in r.
// A nil range covers every completed session.
func (o *Orchestrator) RevenueReport(ctx context.Context, r *parking.DateRange) (report parking.RevenueReport, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpRevenue, start, err) }()

	status := parking.StatusCompleted
	filter := parking.SessionFilter{Status: &status}
	if r != nil {
		if err := validator.Apply(validator.TimeAfter(parking.FieldDateRange, &r.To, r.From)); err != nil {
			return parking.RevenueReport{}, err
		}
		from, to := r.From.UTC(), r.To.UTC()
		filter.ExitFrom, filter.ExitTo = &from, &to
	}

	completed, err := o.store.FindSessions(ctx, filter)
	if err != nil {
		return parking.RevenueReport{}, err
	}
	return o.summarize(completed), nil
}

func (o *Orchestrator) summarize(completed []parking.Session) parking.RevenueReport {
	report := parking.RevenueReport{PeakHours: []parking.HourCount{}}
	var totalMinutes int64
	hours := make(map[int]int)
	for _, s := range completed {
		if s.Fee != nil {
			report.TotalRevenue += *s.Fee
		}
		if minutes, ok := s.DurationMinutes(); ok {
			totalMinutes += minutes
		}
		hours[s.EntryTime.In(o.loc).Hour()]++
		report.SessionCount++
	}
	if report.SessionCount > 0 {
		report.AverageDurationMinutes = float64(totalMinutes) / float64(report.SessionCount)
	}

	for hour, count := range hours {
		report.PeakHours = append(report.PeakHours, parking.HourCount{Hour: hour, Count: count})
	}
	slices.SortFunc(report.PeakHours, func(a, b parking.HourCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})
	if len(report.PeakHours) > peakHourCount {
		report.PeakHours = report.PeakHours[:peakHourCount]
	}
	return report
}
