package spaces

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

// Allocator hands out and takes back parking spaces.
type Allocator struct {
	q   parking.SpaceQueries
	log *slog.Logger
}

// New panics when q is nil.
func New(q parking.SpaceQueries, opts ...Option) *Allocator {
	if q == nil {
		panic("spaces: SpaceQueries is required")
	}
	a := &Allocator{q: q, log: logger.Discard()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// With returns a copy bound to q, typically a transaction handle.
func (a *Allocator) With(q parking.SpaceQueries) *Allocator {
	cp := *a
	cp.q = q
	return &cp
}

type Option func(*Allocator)

func WithLogger(log *slog.Logger) Option {
	return func(a *Allocator) {
		if log != nil {
			a.log = log
		}
	}
}

func eligible(class parking.VehicleClass) ([]parking.SpaceClass, error) {
	classes := parking.EligibleSpaceClasses(class)
	if classes == nil {
		return nil, validator.Fail(parking.FieldVehicleClass, "unknown vehicle class")
	}
	return classes, nil
}

// Allocate marks the best free space for the vehicle class as occupied and
// returns it. Spaces are ranked by the class preference order, then by id.
// ok is false when every compatible space is taken.
//
// The occupied flag is flipped with a conditional update, so a space taken
// by a concurrent writer is skipped in favour of the next candidate.
func (a *Allocator) Allocate(ctx context.Context, class parking.VehicleClass) (space parking.Space, ok bool, err error) {
	classes, err := eligible(class)
	if err != nil {
		return parking.Space{}, false, err
	}

	free, err := a.q.ListFreeSpaces(ctx, classes)
	if err != nil {
		return parking.Space{}, false, err
	}
	slices.SortStableFunc(free, func(x, y parking.Space) int {
		if c := cmp.Compare(parking.SpacePriority(class, x.SpaceClass), parking.SpacePriority(class, y.SpaceClass)); c != 0 {
			return c
		}
		return cmp.Compare(x.SpaceID, y.SpaceID)
	})

	for _, candidate := range free {
		n, err := a.q.SetOccupied(ctx, candidate.SpaceID, true)
		if err != nil {
			return parking.Space{}, false, err
		}
		if n == 0 {
			a.log.DebugContext(ctx, "space taken concurrently, trying next", logger.SpaceID(candidate.SpaceID))
			continue
		}
		candidate.Occupied = true
		return candidate, true, nil
	}
	return parking.Space{}, false, nil
}

// Release marks an occupied space as free.
func (a *Allocator) Release(ctx context.Context, spaceID string) error {
	space, err := a.q.GetSpace(ctx, spaceID)
	if err != nil {
		if errors.Is(err, parking.ErrNotFound) {
			return fmt.Errorf("%w: %s", parking.ErrSpaceNotFound, spaceID)
		}
		return err
	}
	if !space.Occupied {
		return fmt.Errorf("%w: %s", parking.ErrAlreadyAvailable, spaceID)
	}

	n, err := a.q.SetOccupied(ctx, spaceID, false)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", parking.ErrAlreadyAvailable, spaceID)
	}
	return nil
}

// IsAvailable reports whether at least one compatible space is free.
func (a *Allocator) IsAvailable(ctx context.Context, class parking.VehicleClass) (bool, error) {
	n, err := a.AvailableCount(ctx, &class)
	return n > 0, err
}

// AvailableCount counts free spaces compatible with class, or all free
// spaces when class is nil.
func (a *Allocator) AvailableCount(ctx context.Context, class *parking.VehicleClass) (int, error) {
	var classes []parking.SpaceClass
	if class != nil {
		var err error
		if classes, err = eligible(*class); err != nil {
			return 0, err
		}
	}
	return a.q.CountFreeSpaces(ctx, classes)
}

// Report aggregates occupancy overall, per space class and per zone.
func (a *Allocator) Report(ctx context.Context) (parking.AvailabilityReport, error) {
	counts, err := a.q.CountSpaces(ctx)
	if err != nil {
		return parking.AvailabilityReport{}, err
	}
	return BuildReport(counts), nil
}

// BuildReport folds per (class, zone) counts into an AvailabilityReport.
// Every known space class is present even when the facility has none.
func BuildReport(counts []parking.SpaceCount) parking.AvailabilityReport {
	type tally struct{ total, occupied int }
	var (
		all     tally
		byClass = make(map[parking.SpaceClass]tally, len(parking.SpaceClasses))
		byZone  = make(map[string]tally)
	)
	for _, c := range parking.SpaceClasses {
		byClass[c] = tally{}
	}
	for _, c := range counts {
		all.total += c.Total
		all.occupied += c.Occupied

		t := byClass[c.SpaceClass]
		t.total += c.Total
		t.occupied += c.Occupied
		byClass[c.SpaceClass] = t

		z := byZone[c.Zone]
		z.total += c.Total
		z.occupied += c.Occupied
		byZone[c.Zone] = z
	}

	report := parking.AvailabilityReport{
		OccupancyStats: parking.NewOccupancyStats(all.total, all.occupied),
		ByClass:        make(map[parking.SpaceClass]parking.OccupancyStats, len(byClass)),
		ByZone:         make(map[string]parking.OccupancyStats, len(byZone)),
	}
	for c, t := range byClass {
		report.ByClass[c] = parking.NewOccupancyStats(t.total, t.occupied)
	}
	for z, t := range byZone {
		report.ByZone[z] = parking.NewOccupancyStats(t.total, t.occupied)
	}
	return report
}
