package sessions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/spaces"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

// Operation names used in logs and metrics.
const (
	OpEnter        = "enter"
	OpExit         = "exit"
	OpComplete     = "complete"
	OpCancel       = "cancel"
	OpAudit        = "audit"
	OpAvailability = "availability"
	OpSearch       = "search"
	OpRevenue      = "revenue_report"
)

// Recorder receives operation outcomes. Implementations must not block.
type Recorder interface {
	Operation(op string, code parking.ErrorCode, elapsed time.Duration)
	Fee(class parking.VehicleClass, amount int64)
}

// Publisher delivers session events after commit.
type Publisher interface {
	Publish(ctx context.Context, ev parking.SessionEvent) error
}

// Orchestrator runs the session lifecycle. Every mutating operation is one
// store transaction; the allocator and the rate engine are re-bound to it.
type Orchestrator struct {
	store  parking.Store
	rates  *rates.Engine
	spaces *spaces.Allocator

	now func() time.Time
	loc *time.Location
	log *slog.Logger
	rec Recorder
	pub Publisher
}

// New panics when a dependency is nil.
func New(store parking.Store, engine *rates.Engine, allocator *spaces.Allocator, opts ...Option) *Orchestrator {
	if store == nil {
		panic("sessions: Store is required")
	}
	if engine == nil {
		panic("sessions: rate engine is required")
	}
	if allocator == nil {
		panic("sessions: space allocator is required")
	}

	o := &Orchestrator{
		store:  store,
		rates:  engine,
		spaces: allocator,
		now:    time.Now,
		loc:    time.UTC,
		log:    logger.Discard(),
		rec:    nopRecorder{},
		pub:    nopPublisher{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// clock returns the current time in UTC at microsecond precision, the
// resolution every store keeps.
func (o *Orchestrator) clock() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}

// Enter opens a session for the vehicle in the best free compatible space.
func (o *Orchestrator) Enter(ctx context.Context, plate string, class parking.VehicleClass) (sess parking.Session, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpEnter, start, err, logger.Plate(plate)) }()

	plate, err = validateEntry(plate, class)
	if err != nil {
		return parking.Session{}, err
	}

	now := o.clock()
	err = o.store.InTx(ctx, func(tx parking.Queries) error {
		_, err := tx.GetActiveSessionByPlate(ctx, plate)
		switch {
		case err == nil:
			return parking.ErrAlreadyParked
		case !errors.Is(err, parking.ErrNotFound):
			return err
		}

		space, ok, err := o.spaces.With(tx).Allocate(ctx, class)
		if err != nil {
			return err
		}
		if !ok {
			return parking.ErrNoSpaceAvailable
		}

		if _, err := tx.UpsertVehicle(ctx, parking.Vehicle{
			LicensePlate: plate,
			VehicleClass: class,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}

		sess = parking.Session{
			SessionID:    uuid.New(),
			LicensePlate: plate,
			SpaceID:      space.SpaceID,
			EntryTime:    now,
			Status:       parking.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.InsertSession(ctx, sess); err != nil {
			switch {
			case errors.Is(err, parking.ErrSpaceConflict):
				// The allocator handed out a space another session holds.
				return errors.Join(parking.ErrConcurrentUpdate, err)
			case errors.Is(err, parking.ErrConflict):
				return errors.Join(parking.ErrAlreadyParked, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return parking.Session{}, err
	}

	o.log.InfoContext(ctx, "vehicle entered",
		logger.Plate(plate),
		logger.VehicleClass(class),
		logger.SpaceID(sess.SpaceID),
		logger.SessionID(sess.SessionID),
	)
	o.publish(ctx, parking.EventSessionEntered, class, sess)
	return sess, nil
}

func validateEntry(raw string, class parking.VehicleClass) (string, error) {
	plate, plateErr := parking.NormalizePlate(raw)
	classErr := validator.Apply(validator.OneOf(parking.FieldVehicleClass, class, parking.VehicleClasses))
	if err := validator.Merge(plateErr, classErr); err != nil {
		return "", err
	}
	return plate, nil
}

// Exit closes the active session of the vehicle, charges the fee and frees
// the space.
func (o *Orchestrator) Exit(ctx context.Context, plate string) (sess parking.Session, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpExit, start, err, logger.Plate(plate)) }()

	plate, err = parking.NormalizePlate(plate)
	if err != nil {
		return parking.Session{}, err
	}

	var class parking.VehicleClass
	err = o.store.InTx(ctx, func(tx parking.Queries) error {
		active, err := tx.GetActiveSessionByPlate(ctx, plate)
		if err != nil {
			if errors.Is(err, parking.ErrNotFound) {
				return parking.ErrNoActiveSession
			}
			return err
		}
		sess, class, err = o.complete(ctx, tx, active)
		return err
	})
	if err != nil {
		return parking.Session{}, err
	}

	o.completed(ctx, class, sess)
	return sess, nil
}

// CompleteSession closes a session addressed by id, as Exit does by plate.
func (o *Orchestrator) CompleteSession(ctx context.Context, id uuid.UUID) (sess parking.Session, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpComplete, start, err, logger.SessionID(id)) }()

	var class parking.VehicleClass
	err = o.store.InTx(ctx, func(tx parking.Queries) error {
		current, err := getSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := parking.Transition(current.Status, parking.EventComplete); err != nil {
			return err
		}
		sess, class, err = o.complete(ctx, tx, current)
		return err
	})
	if err != nil {
		return parking.Session{}, err
	}

	o.completed(ctx, class, sess)
	return sess, nil
}

// complete prices and closes an active session inside tx and releases its
// space. The returned class is the one the fee was computed for.
func (o *Orchestrator) complete(ctx context.Context, tx parking.Queries, sess parking.Session) (parking.Session, parking.VehicleClass, error) {
	vehicle, err := tx.GetVehicle(ctx, sess.LicensePlate)
	if err != nil {
		if errors.Is(err, parking.ErrNotFound) {
			return parking.Session{}, "", errors.Join(parking.ErrVehicleNotFound, err)
		}
		return parking.Session{}, "", err
	}

	exit := o.clock()
	fee, err := o.rates.With(tx).Fee(ctx, sess.EntryTime, exit, vehicle.VehicleClass)
	if err != nil {
		return parking.Session{}, "", err
	}
	if err := sess.Complete(exit, fee); err != nil {
		return parking.Session{}, "", err
	}

	if err := o.persist(ctx, tx, sess); err != nil {
		return parking.Session{}, "", err
	}
	return sess, vehicle.VehicleClass, nil
}

// Cancel voids an active session without a fee and frees its space.
func (o *Orchestrator) Cancel(ctx context.Context, id uuid.UUID) (sess parking.Session, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpCancel, start, err, logger.SessionID(id)) }()

	var class parking.VehicleClass
	err = o.store.InTx(ctx, func(tx parking.Queries) error {
		current, err := getSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := current.Cancel(o.clock()); err != nil {
			return err
		}
		vehicle, err := tx.GetVehicle(ctx, current.LicensePlate)
		switch {
		case err == nil:
			class = vehicle.VehicleClass
		case !errors.Is(err, parking.ErrNotFound):
			return err
		}
		if err := o.persist(ctx, tx, current); err != nil {
			return err
		}
		sess = current
		return nil
	})
	if err != nil {
		return parking.Session{}, err
	}

	o.log.InfoContext(ctx, "session cancelled",
		logger.SessionID(sess.SessionID),
		logger.Plate(sess.LicensePlate),
		logger.SpaceID(sess.SpaceID),
	)
	o.publish(ctx, parking.EventSessionCancelled, class, sess)
	return sess, nil
}

// persist writes a closed session and releases its space.
func (o *Orchestrator) persist(ctx context.Context, tx parking.Queries, sess parking.Session) error {
	n, err := tx.UpdateSession(ctx, sess)
	if err != nil {
		return err
	}
	if n == 0 {
		return parking.ErrConcurrentUpdate
	}
	if err := o.spaces.With(tx).Release(ctx, sess.SpaceID); err != nil {
		return errors.Join(parking.ErrSpaceReleaseFailed, err)
	}
	return nil
}

func getSession(ctx context.Context, q parking.SessionQueries, id uuid.UUID) (parking.Session, error) {
	sess, err := q.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, parking.ErrNotFound) {
			return parking.Session{}, parking.ErrSessionNotFound
		}
		return parking.Session{}, err
	}
	return sess, nil
}

func (o *Orchestrator) completed(ctx context.Context, class parking.VehicleClass, sess parking.Session) {
	fee := int64(0)
	if sess.Fee != nil {
		fee = *sess.Fee
	}
	o.rec.Fee(class, fee)
	o.log.InfoContext(ctx, "session completed",
		logger.Plate(sess.LicensePlate),
		logger.SessionID(sess.SessionID),
		logger.SpaceID(sess.SpaceID),
		logger.Fee(fee),
	)
	o.publish(ctx, parking.EventSessionCompleted, class, sess)
}

// Availability reports current occupancy.
func (o *Orchestrator) Availability(ctx context.Context) (report parking.AvailabilityReport, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpAvailability, start, err) }()

	return o.spaces.Report(ctx)
}

// finish records the outcome of an operation. Rejected requests are logged
// at info, faults at error.
func (o *Orchestrator) finish(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	code := parking.CodeOf(err)
	o.rec.Operation(op, code, time.Since(start))
	if err == nil {
		return
	}

	args := make([]any, 0, len(attrs)+3)
	args = append(args, logger.Op(op), logger.Code(code), logger.Error(err))
	for _, a := range attrs {
		args = append(args, a)
	}
	if code == parking.CodeInternal {
		o.log.ErrorContext(ctx, "operation failed", args...)
		return
	}
	o.log.InfoContext(ctx, "operation rejected", args...)
}

func (o *Orchestrator) publish(ctx context.Context, typ parking.EventType, class parking.VehicleClass, sess parking.Session) {
	ev := parking.SessionEvent{
		Type:         typ,
		OccurredAt:   sess.UpdatedAt,
		VehicleClass: class,
		Session:      sess,
	}
	if err := o.pub.Publish(ctx, ev); err != nil {
		o.log.WarnContext(ctx, "failed to publish session event",
			logger.Event(string(typ)),
			logger.SessionID(sess.SessionID),
			logger.Error(err),
		)
	}
}

type nopRecorder struct{}

func (nopRecorder) Operation(string, parking.ErrorCode, time.Duration) {}
func (nopRecorder) Fee(parking.VehicleClass, int64)                     {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, parking.SessionEvent) error { return nil }
