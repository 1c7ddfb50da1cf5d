package parking

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

const (
	PlateMinLength = 6
	PlateMaxLength = 10
)

// plateSeparators are dropped during normalization so "KA-01 AB 1234"
// and "ka01ab1234" resolve to the same vehicle.
var plateSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "_", "", "\t", "")

// NormalizePlate folds full-width input to ASCII, strips separators and
// upper-cases the plate, then validates it. A malformed plate yields
// validator.ValidationErrors on the "license_plate" field.
func NormalizePlate(raw string) (string, error) {
	plate := strings.ToUpper(plateSeparators.Replace(width.Fold.String(strings.TrimSpace(raw))))
	if err := validator.Apply(
		validator.Required(FieldLicensePlate, plate),
		validator.LengthBetween(FieldLicensePlate, plate, PlateMinLength, PlateMaxLength),
		validator.UpperAlphanumeric(FieldLicensePlate, plate),
	); err != nil {
		return "", err
	}
	return plate, nil
}

// PlateQuery normalizes a partial plate used for searching. It applies the
// same folding as NormalizePlate but no length rule.
func PlateQuery(raw string) string {
	return strings.ToUpper(plateSeparators.Replace(width.Fold.String(strings.TrimSpace(raw))))
}
