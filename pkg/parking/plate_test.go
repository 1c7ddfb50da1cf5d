package parking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

func TestNormalizePlate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already normalized", "ABC1234", "ABC1234"},
		{"lowercase", "abc1234", "ABC1234"},
		{"separators", "ka-01 ab.12_34", "KA01AB1234"},
		{"surrounding whitespace", "  XYZ987  ", "XYZ987"},
		{"full width", "ＡＢＣ１２３", "ABC123"},
		{"minimum length", "AB1234", "AB1234"},
		{"maximum length", "ABCDE12345", "ABCDE12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parking.NormalizePlate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePlate_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "AB12", "ABCDEF123456", "AB#1234", "ÄBC1234"} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			got, err := parking.NormalizePlate(input)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, validator.IsValidationError(err))
			assert.True(t, validator.ExtractValidationErrors(err).Has(parking.FieldLicensePlate))
			assert.Equal(t, parking.CodeValidation, parking.CodeOf(err))
		})
	}
}

func TestPlateQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AB12", parking.PlateQuery(" ab-12 "))
	assert.Equal(t, "", parking.PlateQuery(""))
}
