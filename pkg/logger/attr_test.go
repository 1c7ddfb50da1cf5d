package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("7d8f9c8e-3c34-4bb0-8a7e-7a1c1bb2d8a1")

	tests := []struct {
		attr  slog.Attr
		key   string
		value any
	}{
		{logger.Plate("ABC1234"), "license_plate", "ABC1234"},
		{logger.SessionID(id), "session_id", id.String()},
		{logger.SpaceID("A1"), "space_id", "A1"},
		{logger.VehicleClass("CAR"), "vehicle_class", "CAR"},
		{logger.Code("ALREADY_PARKED"), "code", "ALREADY_PARKED"},
		{logger.Fee(450), "fee", int64(450)},
		{logger.Op("enter"), "op", "enter"},
		{logger.Component("sessions"), "component", "sessions"},
		{logger.Event("session.entered"), "event", "session.entered"},
		{logger.Duration(time.Second), "duration", time.Second},
		{logger.RequestID("req-1"), "request_id", "req-1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.key, tt.attr.Key)
		assert.Equal(t, tt.value, tt.attr.Value.Any(), tt.key)
	}

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.SessionID(nil).Equal(slog.Attr{}))
}
