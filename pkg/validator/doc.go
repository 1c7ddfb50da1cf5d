// Package validator provides small, composable validation rules.
//
// A Rule couples a Check func with the ValidationError reported when the
// check fails. Apply evaluates a list of rules and aggregates every failure
// into ValidationErrors, which implements error, so multiple field problems
// travel in a single error return:
//
//	err := validator.Apply(
//	    validator.Required("license_plate", plate),
//	    validator.Positive("amount", amount),
//	)
//	if validator.IsValidationError(err) {
//	    fields := validator.ExtractValidationErrors(err).Map()
//	    // ...
//	}
//
// Rules have no hidden state and are safe for concurrent use.
package validator
