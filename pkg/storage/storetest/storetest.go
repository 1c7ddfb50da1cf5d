// Package storetest is a conformance suite for parking.Store
// implementations. Backends call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

// Factory returns an empty, migrated store.
type Factory func(t *testing.T) parking.Store

// base is microsecond aligned so every backend round-trips it exactly.
var base = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// Run executes every conformance case against stores built by newStore.
// Cases run sequentially so backends may share one database.
func Run(t *testing.T, newStore Factory) {
	t.Run("Vehicles", func(t *testing.T) { testVehicles(t, newStore(t)) })
	t.Run("Spaces", func(t *testing.T) { testSpaces(t, newStore(t)) })
	t.Run("SpaceCounts", func(t *testing.T) { testSpaceCounts(t, newStore(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("ActiveUniqueness", func(t *testing.T) { testActiveUniqueness(t, newStore(t)) })
	t.Run("FindSessions", func(t *testing.T) { testFindSessions(t, newStore(t)) })
	t.Run("Rates", func(t *testing.T) { testRates(t, newStore(t)) })
	t.Run("Integrity", func(t *testing.T) { testIntegrity(t, newStore(t)) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
}

func seedSpaces(t *testing.T, s parking.Store, spaces ...parking.Space) {
	t.Helper()
	for _, sp := range spaces {
		require.NoError(t, s.SaveSpace(context.Background(), sp))
	}
}

func seedVehicle(t *testing.T, s parking.Store, plate string, class parking.VehicleClass) {
	t.Helper()
	_, err := s.UpsertVehicle(context.Background(), parking.Vehicle{
		LicensePlate: plate, VehicleClass: class, CreatedAt: base, UpdatedAt: base,
	})
	require.NoError(t, err)
}

func newSession(plate, space string, entry time.Time) parking.Session {
	return parking.Session{
		SessionID:    uuid.New(),
		LicensePlate: plate,
		SpaceID:      space,
		EntryTime:    entry,
		Status:       parking.StatusActive,
		CreatedAt:    entry,
		UpdatedAt:    entry,
	}
}

func testVehicles(t *testing.T, s parking.Store) {
	ctx := context.Background()

	_, err := s.GetVehicle(ctx, "NOPE0001")
	assert.ErrorIs(t, err, parking.ErrNotFound)

	v, err := s.UpsertVehicle(ctx, parking.Vehicle{
		LicensePlate: "ABC1234", VehicleClass: parking.VehicleCar, CreatedAt: base, UpdatedAt: base,
	})
	require.NoError(t, err)
	assert.Equal(t, parking.VehicleCar, v.VehicleClass)
	assert.True(t, base.Equal(v.CreatedAt))

	later := base.Add(time.Hour)
	v, err = s.UpsertVehicle(ctx, parking.Vehicle{
		LicensePlate: "ABC1234", VehicleClass: parking.VehicleVan, CreatedAt: later, UpdatedAt: later,
	})
	require.NoError(t, err)
	assert.Equal(t, parking.VehicleVan, v.VehicleClass)
	assert.True(t, base.Equal(v.CreatedAt), "created_at must be preserved")
	assert.True(t, later.Equal(v.UpdatedAt))

	got, err := s.GetVehicle(ctx, "ABC1234")
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func testSpaces(t *testing.T, s parking.Store) {
	ctx := context.Background()
	seedSpaces(t, s,
		parking.Space{SpaceID: "B2", SpaceClass: parking.SpaceCar, Zone: "B"},
		parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceCar, Zone: "A"},
		parking.Space{SpaceID: "H1", SpaceClass: parking.SpaceHandicap, Zone: "A"},
		parking.Space{SpaceID: "M1", SpaceClass: parking.SpaceMotorcycle, Zone: "A"},
	)

	_, err := s.GetSpace(ctx, "Z9")
	assert.ErrorIs(t, err, parking.ErrNotFound)

	free, err := s.ListFreeSpaces(ctx, []parking.SpaceClass{parking.SpaceCar, parking.SpaceHandicap})
	require.NoError(t, err)
	require.Len(t, free, 3)
	assert.Equal(t, []string{"A1", "B2", "H1"}, spaceIDs(free))

	free, err = s.ListFreeSpaces(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, free)

	n, err := s.SetOccupied(ctx, "A1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.SetOccupied(ctx, "A1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "conditional update must not flip an occupied space again")

	n, err = s.SetOccupied(ctx, "missing", true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	sp, err := s.GetSpace(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, sp.Occupied)

	seedSpaces(t, s, parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceTruck, Zone: "C"})
	sp, err = s.GetSpace(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceTruck, Zone: "C", Occupied: true}, sp)

	all, err := s.ListSpaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2", "H1", "M1"}, spaceIDs(all))

	n, err = s.SetOccupied(ctx, "A1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func testSpaceCounts(t *testing.T, s parking.Store) {
	ctx := context.Background()
	seedSpaces(t, s,
		parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceCar, Zone: "A"},
		parking.Space{SpaceID: "A2", SpaceClass: parking.SpaceCar, Zone: "A"},
		parking.Space{SpaceID: "B1", SpaceClass: parking.SpaceCar, Zone: "B"},
		parking.Space{SpaceID: "T1", SpaceClass: parking.SpaceTruck, Zone: "B"},
	)
	_, err := s.SetOccupied(ctx, "A2", true)
	require.NoError(t, err)

	counts, err := s.CountSpaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []parking.SpaceCount{
		{SpaceClass: parking.SpaceCar, Zone: "A", Total: 2, Occupied: 1},
		{SpaceClass: parking.SpaceCar, Zone: "B", Total: 1, Occupied: 0},
		{SpaceClass: parking.SpaceTruck, Zone: "B", Total: 1, Occupied: 0},
	}, counts)

	n, err := s.CountFreeSpaces(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.CountFreeSpaces(ctx, []parking.SpaceClass{parking.SpaceTruck})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountFreeSpaces(ctx, []parking.SpaceClass{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func testSessions(t *testing.T, s parking.Store) {
	ctx := context.Background()
	seedSpaces(t, s, parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceCar, Zone: "A"})
	seedVehicle(t, s, "ABC1234", parking.VehicleCar)

	_, err := s.GetActiveSessionByPlate(ctx, "ABC1234")
	assert.ErrorIs(t, err, parking.ErrNotFound)
	_, err = s.GetSession(ctx, uuid.New())
	assert.ErrorIs(t, err, parking.ErrNotFound)

	sess := newSession("ABC1234", "A1", base)
	require.NoError(t, s.InsertSession(ctx, sess))

	got, err := s.GetActiveSessionByPlate(ctx, "ABC1234")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	active, err := s.ListActiveSessions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	exit := base.Add(95 * time.Minute)
	fee := int64(600)
	closed := sess
	closed.Status = parking.StatusCompleted
	closed.ExitTime = &exit
	closed.Fee = &fee
	closed.UpdatedAt = exit

	n, err := s.UpdateSession(ctx, closed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.UpdateSession(ctx, closed)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "only active sessions may be updated")

	got, err = s.GetSession(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, closed, got)

	active, err = s.ListActiveSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func testActiveUniqueness(t *testing.T, s parking.Store) {
	ctx := context.Background()
	seedSpaces(t, s,
		parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceCar, Zone: "A"},
		parking.Space{SpaceID: "A2", SpaceClass: parking.SpaceCar, Zone: "A"},
	)
	seedVehicle(t, s, "ABC1234", parking.VehicleCar)
	seedVehicle(t, s, "XYZ9876", parking.VehicleCar)

	first := newSession("ABC1234", "A1", base)
	require.NoError(t, s.InsertSession(ctx, first))

	err := s.InsertSession(ctx, newSession("ABC1234", "A2", base))
	assert.ErrorIs(t, err, parking.ErrConflict, "second active session for a plate")
	assert.NotErrorIs(t, err, parking.ErrSpaceConflict)

	err = s.InsertSession(ctx, newSession("XYZ9876", "A1", base))
	assert.ErrorIs(t, err, parking.ErrConflict, "second active session for a space")
	assert.ErrorIs(t, err, parking.ErrSpaceConflict)

	cancelled := first
	cancelled.Status = parking.StatusCancelled
	cancelled.UpdatedAt = base.Add(time.Minute)
	_, err = s.UpdateSession(ctx, cancelled)
	require.NoError(t, err)

	assert.NoError(t, s.InsertSession(ctx, newSession("ABC1234", "A1", base.Add(2*time.Minute))),
		"closed sessions must not block new ones")
}

func testFindSessions(t *testing.T, s parking.Store) {
	ctx := context.Background()
	seedSpaces(t, s,
		parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceCar, Zone: "A"},
		parking.Space{SpaceID: "T1", SpaceClass: parking.SpaceTruck, Zone: "B"},
	)
	seedVehicle(t, s, "CAR0001", parking.VehicleCar)
	seedVehicle(t, s, "TRK0001", parking.VehicleTruck)

	complete := func(sess parking.Session, minutes int, fee int64) parking.Session {
		exit := sess.EntryTime.Add(time.Duration(minutes) * time.Minute)
		sess.Status = parking.StatusCompleted
		sess.ExitTime = &exit
		sess.Fee = &fee
		sess.UpdatedAt = exit
		_, err := s.UpdateSession(ctx, sess)
		require.NoError(t, err)
		return sess
	}

	s1 := newSession("CAR0001", "A1", base)
	require.NoError(t, s.InsertSession(ctx, s1))
	s1 = complete(s1, 60, 200)

	s2 := newSession("TRK0001", "T1", base.Add(time.Hour))
	require.NoError(t, s.InsertSession(ctx, s2))
	s2 = complete(s2, 120, 900)

	s3 := newSession("CAR0001", "A1", base.Add(3*time.Hour))
	require.NoError(t, s.InsertSession(ctx, s3))

	all, err := s.FindSessions(ctx, parking.SessionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s3.SessionID, s2.SessionID, s1.SessionID}, sessionIDs(all))

	car := parking.VehicleCar
	got, err := s.FindSessions(ctx, parking.SessionFilter{VehicleClass: &car})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s3.SessionID, s1.SessionID}, sessionIDs(got))

	got, err = s.FindSessions(ctx, parking.SessionFilter{PlateContains: "TRK"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s2.SessionID}, sessionIDs(got))

	completed := parking.StatusCompleted
	minFee := int64(500)
	got, err = s.FindSessions(ctx, parking.SessionFilter{Status: &completed, MinFee: &minFee})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s2.SessionID}, sessionIDs(got))

	from, to := base.Add(30*time.Minute), base.Add(2*time.Hour)
	got, err = s.FindSessions(ctx, parking.SessionFilter{EntryFrom: &from, EntryTo: &to})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s2.SessionID}, sessionIDs(got))

	exitFrom, exitTo := base.Add(time.Hour), base.Add(3*time.Hour)
	got, err = s.FindSessions(ctx, parking.SessionFilter{ExitFrom: &exitFrom, ExitTo: &exitTo})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s1.SessionID}, sessionIDs(got), "exit range is half-open")

	got, err = s.FindSessions(ctx, parking.SessionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s3.SessionID, s2.SessionID}, sessionIDs(got))
}

func testRates(t *testing.T, s parking.Store) {
	ctx := context.Background()
	until := base.AddDate(0, 1, 0)
	r1 := parking.RateRule{
		RateID: uuid.New(), VehicleClass: parking.VehicleCar, RateKind: parking.RateHourly,
		Amount: 200, EffectiveFrom: base, CreatedAt: base,
	}
	r2 := parking.RateRule{
		RateID: uuid.New(), VehicleClass: parking.VehicleTruck, RateKind: parking.RateDaily,
		Amount: 5000, EffectiveFrom: base, EffectiveUntil: &until, CreatedAt: base.Add(time.Second),
	}
	r3 := parking.RateRule{
		RateID: uuid.New(), VehicleClass: parking.VehicleCar, RateKind: parking.RateFlat,
		Amount: 900, EffectiveFrom: base, CreatedAt: base.Add(2 * time.Second),
	}
	for _, r := range []parking.RateRule{r1, r2, r3} {
		require.NoError(t, s.InsertRate(ctx, r))
	}

	all, err := s.ListRates(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []parking.RateRule{r1, r2, r3}, all)

	car := parking.VehicleCar
	cars, err := s.ListRates(ctx, &car)
	require.NoError(t, err)
	assert.Equal(t, []parking.RateRule{r1, r3}, cars)

	_, err = s.GetRate(ctx, uuid.New())
	assert.ErrorIs(t, err, parking.ErrNotFound)

	n, err := s.ExpireRate(ctx, r1.RateID, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.GetRate(ctx, r1.RateID)
	require.NoError(t, err)
	require.NotNil(t, got.EffectiveUntil)
	assert.True(t, base.Add(24*time.Hour).Equal(*got.EffectiveUntil))

	n, err = s.ExpireRate(ctx, uuid.New(), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func testIntegrity(t *testing.T, s parking.Store) {
	ctx := context.Background()
	seedSpaces(t, s, parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceCar, Zone: "A"})
	seedVehicle(t, s, "ABC1234", parking.VehicleCar)

	err := s.SaveSpace(ctx, parking.Space{SpaceID: "B1", SpaceClass: "BUS", Zone: "B"})
	assert.ErrorIs(t, err, parking.ErrIntegrityViolation, "unknown space class")

	err = s.InsertRate(ctx, parking.RateRule{
		RateID: uuid.New(), VehicleClass: parking.VehicleCar, RateKind: parking.RateFlat,
		EffectiveFrom: base, CreatedAt: base,
	})
	assert.ErrorIs(t, err, parking.ErrIntegrityViolation, "zero amount")

	err = s.InsertSession(ctx, newSession("ABC1234", "Z9", base))
	assert.ErrorIs(t, err, parking.ErrIntegrityViolation, "unknown space")
	assert.NotErrorIs(t, err, parking.ErrConflict)
	assert.Equal(t, parking.CodeInternal, parking.CodeOf(err))
}

func testTransactions(t *testing.T, s parking.Store) {
	ctx := context.Background()
	seedSpaces(t, s, parking.Space{SpaceID: "A1", SpaceClass: parking.SpaceCar, Zone: "A"})

	errBoom := errors.New("boom")
	err := s.InTx(ctx, func(tx parking.Queries) error {
		if _, err := tx.SetOccupied(ctx, "A1", true); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	sp, err := s.GetSpace(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, sp.Occupied, "failed transaction must roll back")

	assert.Panics(t, func() {
		_ = s.InTx(ctx, func(tx parking.Queries) error {
			_, _ = tx.SetOccupied(ctx, "A1", true)
			panic("boom")
		})
	})
	sp, err = s.GetSpace(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, sp.Occupied, "panicking transaction must roll back")

	require.NoError(t, s.InTx(ctx, func(tx parking.Queries) error {
		_, err := tx.SetOccupied(ctx, "A1", true)
		return err
	}))
	sp, err = s.GetSpace(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, sp.Occupied)

	require.NoError(t, s.Ping(ctx))
}

func spaceIDs(spaces []parking.Space) []string {
	out := make([]string, len(spaces))
	for i, s := range spaces {
		out[i] = s.SpaceID
	}
	return out
}

func sessionIDs(sessions []parking.Session) []uuid.UUID {
	out := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		out[i] = s.SessionID
	}
	return out
}
