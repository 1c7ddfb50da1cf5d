package parking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

func TestTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    parking.SessionStatus
		event   parking.Event
		want    parking.SessionStatus
		wantErr error
	}{
		{"complete active", parking.StatusActive, parking.EventComplete, parking.StatusCompleted, nil},
		{"cancel active", parking.StatusActive, parking.EventCancel, parking.StatusCancelled, nil},
		{"complete completed", parking.StatusCompleted, parking.EventComplete, parking.StatusCompleted, parking.ErrAlreadyCompleted},
		{"cancel completed", parking.StatusCompleted, parking.EventCancel, parking.StatusCompleted, parking.ErrCannotCancelCompleted},
		{"complete cancelled", parking.StatusCancelled, parking.EventComplete, parking.StatusCancelled, parking.ErrSessionCancelled},
		{"cancel cancelled", parking.StatusCancelled, parking.EventCancel, parking.StatusCancelled, parking.ErrAlreadyCancelled},
		{"unknown event", parking.StatusActive, parking.Event("park"), parking.StatusActive, parking.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parking.Transition(tt.from, tt.event)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_Complete(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("sets exit and fee", func(t *testing.T) {
		t.Parallel()
		s := parking.Session{Status: parking.StatusActive, EntryTime: entry}
		exit := entry.Add(90 * time.Minute)

		require.NoError(t, s.Complete(exit, 400))
		assert.Equal(t, parking.StatusCompleted, s.Status)
		require.NotNil(t, s.ExitTime)
		require.NotNil(t, s.Fee)
		assert.Equal(t, exit, *s.ExitTime)
		assert.Equal(t, int64(400), *s.Fee)

		assert.ErrorIs(t, s.Complete(exit.Add(time.Minute), 1), parking.ErrAlreadyCompleted)
		assert.Equal(t, int64(400), *s.Fee)
	})

	t.Run("rejects exit before entry", func(t *testing.T) {
		t.Parallel()
		s := parking.Session{Status: parking.StatusActive, EntryTime: entry}
		assert.ErrorIs(t, s.Complete(entry, 0), parking.ErrInvalidTimeOrder)
		assert.Equal(t, parking.StatusActive, s.Status)
		assert.Nil(t, s.ExitTime)
	})

	t.Run("rejects negative fee", func(t *testing.T) {
		t.Parallel()
		s := parking.Session{Status: parking.StatusActive, EntryTime: entry}
		assert.ErrorIs(t, s.Complete(entry.Add(time.Hour), -1), parking.ErrNegativeFee)
		assert.Nil(t, s.Fee)
	})
}

func TestSession_Cancel(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := parking.Session{Status: parking.StatusActive, EntryTime: entry}

	require.NoError(t, s.Cancel(entry.Add(time.Minute)))
	assert.Equal(t, parking.StatusCancelled, s.Status)
	assert.Nil(t, s.ExitTime)
	assert.Nil(t, s.Fee)

	assert.ErrorIs(t, s.Cancel(entry.Add(2*time.Minute)), parking.ErrAlreadyCancelled)
	assert.ErrorIs(t, s.Complete(entry.Add(2*time.Minute), 0), parking.ErrSessionCancelled)
}
