package parking

import "time"

// EventType names a session event published after a committed operation.
type EventType string

const (
	EventSessionEntered   EventType = "session.entered"
	EventSessionCompleted EventType = "session.completed"
	EventSessionCancelled EventType = "session.cancelled"
)

// SessionEvent describes a committed session change.
type SessionEvent struct {
	Type         EventType    `json:"type"`
	OccurredAt   time.Time    `json:"occurred_at"`
	VehicleClass VehicleClass `json:"vehicle_class"`
	Session      Session      `json:"session"`
}
