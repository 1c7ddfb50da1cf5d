package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

func ptr[T any](v T) *T { return &v }

func TestRules(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule validator.Rule
		want bool
	}{
		{"required ok", validator.Required("f", "x"), true},
		{"required blank", validator.Required("f", " \t"), false},
		{"length in range", validator.LengthBetween("f", "ABC123", 6, 10), true},
		{"length short", validator.LengthBetween("f", "ABC12", 6, 10), false},
		{"length long", validator.LengthBetween("f", "ABCDEFGHIJK", 6, 10), false},
		{"upper alnum ok", validator.UpperAlphanumeric("f", "KA01AB1234"), true},
		{"upper alnum lower", validator.UpperAlphanumeric("f", "ka01"), false},
		{"upper alnum symbol", validator.UpperAlphanumeric("f", "KA-01"), false},
		{"upper alnum empty", validator.UpperAlphanumeric("f", ""), false},
		{"one of ok", validator.OneOf("f", "CAR", []string{"CAR", "VAN"}), true},
		{"one of miss", validator.OneOf("f", "BUS", []string{"CAR", "VAN"}), false},
		{"positive", validator.Positive("f", int64(1)), true},
		{"positive zero", validator.Positive("f", int64(0)), false},
		{"non negative zero", validator.NonNegative("f", 0), true},
		{"non negative", validator.NonNegative("f", -1), false},
		{"max at limit", validator.Max("f", int64(10), 10), true},
		{"max above limit", validator.Max("f", int64(11), 10), false},
		{"not zero time", validator.NotZeroTime("f", now), true},
		{"zero time", validator.NotZeroTime("f", time.Time{}), false},
		{"time after nil", validator.TimeAfter("f", nil, now), true},
		{"time after later", validator.TimeAfter("f", ptr(now.Add(time.Second)), now), true},
		{"time after equal", validator.TimeAfter("f", ptr(now), now), false},
		{"range open", validator.OrderedRange[int]("f", nil, ptr(3)), true},
		{"range ordered", validator.OrderedRange("f", ptr(1), ptr(3)), true},
		{"range inverted", validator.OrderedRange("f", ptr(4), ptr(3)), false},
		{"time range ok", validator.TimeRange("f", ptr(now), ptr(now)), true},
		{"time range inverted", validator.TimeRange("f", ptr(now.Add(time.Hour)), ptr(now)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rule.Check())
			assert.Equal(t, "f", tt.rule.Error.Field)
		})
	}
}
