package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// Empty ids yield an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Op names the orchestrator operation, e.g. "enter" or "exit".
func Op(name string) slog.Attr {
	return slog.String("op", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Plate(plate string) slog.Attr {
	return slog.String("license_plate", plate)
}

// SessionID accepts any fmt.Stringer so uuid.UUID can be passed directly.
func SessionID(id fmt.Stringer) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.String("session_id", id.String())
}

func SpaceID(id string) slog.Attr {
	return slog.String("space_id", id)
}

func VehicleClass[T ~string](class T) slog.Attr {
	return slog.String("vehicle_class", string(class))
}

// Code records a stable error code.
func Code[T ~string](code T) slog.Attr {
	return slog.String("code", string(code))
}

func Fee(amount int64) slog.Attr {
	return slog.Int64("fee", amount)
}
