package events

import "errors"

var (
	ErrPublishFailed    = errors.New("events: failed to publish session event")
	ErrSubscribeFailed  = errors.New("events: failed to subscribe")
	ErrEncodeFailed     = errors.New("events: failed to encode session event")
	ErrDecodeFailed     = errors.New("events: failed to decode session event")
	ErrUnknownEventType = errors.New("events: unknown event type")
)
