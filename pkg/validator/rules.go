package validator

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var upperAlphanumericRegex = regexp.MustCompile(`^[A-Z0-9]+$`)

func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "is required",
		},
	}
}

// LengthBetween counts runes, not bytes.
func LengthBetween(field, value string, min, max int) Rule {
	return Rule{
		Check: func() bool {
			n := len([]rune(value))
			return n >= min && n <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d characters", min, max),
		},
	}
}

// UpperAlphanumeric accepts only A-Z and 0-9.
func UpperAlphanumeric(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return upperAlphanumericRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain only uppercase letters and digits",
		},
	}
}

func OneOf[T comparable](field string, value T, options []T) Rule {
	return Rule{
		Check: func() bool {
			for _, allowed := range options {
				if value == allowed {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %v", options),
		},
	}
}

func Positive[T Numeric](field string, value T) Rule {
	return Rule{
		Check: func() bool {
			return value > 0
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be positive",
		},
	}
}

func NonNegative[T Numeric](field string, value T) Rule {
	return Rule{
		Check: func() bool {
			return value >= 0
		},
		Error: ValidationError{
			Field:   field,
			Message: "cannot be negative",
		},
	}
}

func Max[T Numeric](field string, value, limit T) Rule {
	return Rule{
		Check: func() bool {
			return value <= limit
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %v", limit),
		},
	}
}

func NotZeroTime(field string, value time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.IsZero()
		},
		Error: ValidationError{
			Field:   field,
			Message: "is required",
		},
	}
}

// TimeAfter passes when value is nil or strictly after ref.
func TimeAfter(field string, value *time.Time, ref time.Time) Rule {
	return Rule{
		Check: func() bool {
			return value == nil || value.After(ref)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be after %s", ref.UTC().Format(time.RFC3339)),
		},
	}
}

// OrderedRange passes unless both bounds are set and lo > hi.
func OrderedRange[T cmp.Ordered](field string, lo, hi *T) Rule {
	return Rule{
		Check: func() bool {
			return lo == nil || hi == nil || *lo <= *hi
		},
		Error: ValidationError{
			Field:   field,
			Message: "lower bound must not exceed upper bound",
		},
	}
}

// TimeRange passes unless both bounds are set and from is after to.
func TimeRange(field string, from, to *time.Time) Rule {
	return Rule{
		Check: func() bool {
			return from == nil || to == nil || !from.After(*to)
		},
		Error: ValidationError{
			Field:   field,
			Message: "start must not be after end",
		},
	}
}
