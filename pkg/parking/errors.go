package parking

import (
	"errors"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

// Business errors. The caller's request conflicts with the current state.
var (
	ErrAlreadyParked         = errors.New("vehicle already has an active session")
	ErrNoSpaceAvailable      = errors.New("no compatible space available")
	ErrNoActiveSession       = errors.New("no active session for vehicle")
	ErrNoRateFound           = errors.New("no effective rate for vehicle class")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSpaceNotFound         = errors.New("space not found")
	ErrAlreadyAvailable      = errors.New("space is already available")
	ErrAlreadyCompleted      = errors.New("session already completed")
	ErrCannotCancelCompleted = errors.New("cannot cancel a completed session")
	ErrAlreadyCancelled      = errors.New("session already cancelled")
	ErrSessionCancelled      = errors.New("session was cancelled")
	ErrRateNotFound          = errors.New("rate not found")
	ErrInvalidTimeOrder      = errors.New("exit time must be after entry time")
)

// Consistency faults. The stored state contradicts the domain invariants.
var (
	ErrVehicleNotFound     = errors.New("vehicle record missing for active session")
	ErrSpaceReleaseFailed  = errors.New("failed to release space")
	ErrUnsupportedRateKind = errors.New("unsupported rate kind")
	ErrConcurrentUpdate    = errors.New("record changed concurrently")
	ErrFeeOverflow         = errors.New("fee exceeds the representable range")
	ErrIntegrityViolation  = errors.New("write rejected by a store integrity constraint")
)

// Store-level errors returned by Queries implementations. ErrSpaceConflict
// always comes joined with ErrConflict.
var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("record conflicts with an existing one")
	ErrSpaceConflict = errors.New("space already holds an active session")
)

var (
	ErrUnknownEnum       = errors.New("unknown enum value")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNegativeFee       = errors.New("fee cannot be negative")
)

// ErrorCode is the stable, machine-readable name of an error.
type ErrorCode string

const (
	CodeValidation            ErrorCode = "VALIDATION_ERROR"
	CodeAlreadyParked         ErrorCode = "ALREADY_PARKED"
	CodeNoSpaceAvailable      ErrorCode = "NO_SPACE_AVAILABLE"
	CodeNoActiveSession       ErrorCode = "NO_ACTIVE_SESSION"
	CodeNoRateFound           ErrorCode = "NO_RATE_FOUND"
	CodeSessionNotFound       ErrorCode = "SESSION_NOT_FOUND"
	CodeSpaceNotFound         ErrorCode = "SPACE_NOT_FOUND"
	CodeAlreadyAvailable      ErrorCode = "ALREADY_AVAILABLE"
	CodeAlreadyCompleted      ErrorCode = "ALREADY_COMPLETED"
	CodeCannotCancelCompleted ErrorCode = "CANNOT_CANCEL_COMPLETED"
	CodeAlreadyCancelled      ErrorCode = "ALREADY_CANCELLED"
	CodeSessionCancelled      ErrorCode = "SESSION_CANCELLED"
	CodeRateNotFound          ErrorCode = "RATE_NOT_FOUND"
	CodeInvalidTimeOrder      ErrorCode = "INVALID_TIME_ORDER"
	CodeInternal              ErrorCode = "INTERNAL"
	CodeOK                    ErrorCode = "OK"
)

var businessCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrAlreadyParked, CodeAlreadyParked},
	{ErrNoSpaceAvailable, CodeNoSpaceAvailable},
	{ErrNoActiveSession, CodeNoActiveSession},
	{ErrNoRateFound, CodeNoRateFound},
	{ErrSessionNotFound, CodeSessionNotFound},
	{ErrSpaceNotFound, CodeSpaceNotFound},
	{ErrAlreadyAvailable, CodeAlreadyAvailable},
	{ErrAlreadyCompleted, CodeAlreadyCompleted},
	{ErrCannotCancelCompleted, CodeCannotCancelCompleted},
	{ErrAlreadyCancelled, CodeAlreadyCancelled},
	{ErrSessionCancelled, CodeSessionCancelled},
	{ErrRateNotFound, CodeRateNotFound},
	{ErrInvalidTimeOrder, CodeInvalidTimeOrder},
}

var consistencyFaults = []error{
	ErrVehicleNotFound,
	ErrSpaceReleaseFailed,
	ErrUnsupportedRateKind,
	ErrConcurrentUpdate,
	ErrFeeOverflow,
	ErrIntegrityViolation,
}

// CodeOf maps err to its ErrorCode. nil maps to CodeOK. Consistency faults
// are checked first so a fault wrapping a business error still reports
// INTERNAL. Anything unrecognized is INTERNAL.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	if IsConsistencyFault(err) {
		return CodeInternal
	}
	if validator.IsValidationError(err) {
		return CodeValidation
	}
	for _, bc := range businessCodes {
		if errors.Is(err, bc.err) {
			return bc.code
		}
	}
	return CodeInternal
}

// BusinessCause returns the business sentinel err wraps, or nil. The
// sentinel's message is safe to show to callers; the wrapped detail may not be.
func BusinessCause(err error) error {
	if err == nil || IsConsistencyFault(err) {
		return nil
	}
	for _, bc := range businessCodes {
		if errors.Is(err, bc.err) {
			return bc.err
		}
	}
	return nil
}

// IsConsistencyFault reports whether err signals corrupted or contradictory
// stored state rather than a caller mistake.
func IsConsistencyFault(err error) bool {
	for _, f := range consistencyFaults {
		if errors.Is(err, f) {
			return true
		}
	}
	return false
}

// IsBusinessError reports whether err maps to a business ErrorCode.
func IsBusinessError(err error) bool {
	code := CodeOf(err)
	return code != CodeOK && code != CodeInternal && code != CodeValidation
}

// IsNotFound reports whether the code names a missing resource.
func (c ErrorCode) IsNotFound() bool {
	switch c {
	case CodeNoActiveSession, CodeSessionNotFound, CodeSpaceNotFound, CodeRateNotFound:
		return true
	}
	return false
}
