package seed

import "errors"

var (
	ErrReadFacility    = errors.New("seed: failed to read facility file")
	ErrParseFacility   = errors.New("seed: failed to parse facility file")
	ErrInvalidFacility = errors.New("seed: invalid facility")
	ErrApplyFacility   = errors.New("seed: failed to apply facility")
)
