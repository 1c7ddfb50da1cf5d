package parking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

func TestCeilMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want int64
	}{
		{0, 0},
		{-time.Minute, 0},
		{time.Millisecond, 1},
		{time.Microsecond, 1},
		{time.Minute, 1},
		{time.Minute + time.Millisecond, 2},
		{61 * time.Minute, 61},
		{24 * time.Hour, 1440},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parking.CeilMinutes(tt.in), tt.in.String())
	}
}

func TestRateRule_EffectiveAt(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 1, 0)

	open := parking.RateRule{EffectiveFrom: from}
	assert.False(t, open.EffectiveAt(from.Add(-time.Second)))
	assert.True(t, open.EffectiveAt(from))
	assert.True(t, open.EffectiveAt(from.AddDate(10, 0, 0)))

	bounded := parking.RateRule{EffectiveFrom: from, EffectiveUntil: &until}
	assert.True(t, bounded.EffectiveAt(until.Add(-time.Nanosecond)))
	assert.False(t, bounded.EffectiveAt(until))
}

func TestSession_DurationMinutes(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	s := parking.Session{EntryTime: entry}

	_, ok := s.DurationMinutes()
	assert.False(t, ok)

	exit := entry.Add(150*time.Minute + time.Second)
	s.ExitTime = &exit
	got, ok := s.DurationMinutes()
	assert.True(t, ok)
	assert.Equal(t, int64(151), got)
}

func TestNewOccupancyStats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, parking.OccupancyStats{}, parking.NewOccupancyStats(0, 0))

	s := parking.NewOccupancyStats(8, 2)
	assert.Equal(t, 6, s.Available)
	assert.InDelta(t, 25.0, s.Utilization, 0.0001)
}
