package sessions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

func TestReconcile(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	spaceList := []parking.Space{
		{SpaceID: "S1", Occupied: true},
		{SpaceID: "S2", Occupied: true},
		{SpaceID: "S3", Occupied: false},
	}
	active := []parking.Session{
		{SessionID: a, SpaceID: "S1"},
		{SessionID: b, SpaceID: "S1"},
		{SessionID: c, SpaceID: "GONE"},
	}

	report := reconcile(spaceList, active)
	assert.Equal(t, 3, report.ActiveSessions)
	assert.Equal(t, 2, report.OccupiedSpaces)

	pair := []string{a.String(), b.String()}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}
	assert.Equal(t, []parking.Mismatch{
		{Kind: parking.MismatchSpaceMissing, SpaceID: "GONE", SessionIDs: []string{c.String()}},
		{Kind: parking.MismatchDoubleBooked, SpaceID: "S1", SessionIDs: pair},
		{Kind: parking.MismatchOrphanOccupied, SpaceID: "S2"},
	}, report.Mismatches)
}

func TestReconcile_Consistent(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	report := reconcile(
		[]parking.Space{{SpaceID: "S1", Occupied: true}, {SpaceID: "S2"}},
		[]parking.Session{{SessionID: id, SpaceID: "S1"}},
	)
	assert.True(t, report.Consistent())
	assert.NotNil(t, report.Mismatches)
}
