package parking

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is keyed by its normalized license plate.
type Vehicle struct {
	LicensePlate string       `json:"license_plate"`
	VehicleClass VehicleClass `json:"vehicle_class"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Space is a physical parking space. Occupied only changes through
// allocation and release.
type Space struct {
	SpaceID    string     `json:"space_id"`
	SpaceClass SpaceClass `json:"space_class"`
	Zone       string     `json:"zone"`
	Occupied   bool       `json:"occupied"`
}

// Session is one stay of a vehicle in one space.
type Session struct {
	SessionID    uuid.UUID     `json:"session_id"`
	LicensePlate string        `json:"license_plate"`
	SpaceID      string        `json:"space_id"`
	EntryTime    time.Time     `json:"entry_time"`
	ExitTime     *time.Time    `json:"exit_time,omitempty"`
	Fee          *int64        `json:"fee,omitempty"`
	Status       SessionStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// DurationMinutes returns the billed length of a closed session in whole
// minutes, rounded up. ok is false while the session has no exit time.
func (s Session) DurationMinutes() (minutes int64, ok bool) {
	if s.ExitTime == nil {
		return 0, false
	}
	return CeilMinutes(s.ExitTime.Sub(s.EntryTime)), true
}

// Complete closes an active session with the given exit time and fee.
func (s *Session) Complete(exit time.Time, fee int64) error {
	next, err := Transition(s.Status, EventComplete)
	if err != nil {
		return err
	}
	if !exit.After(s.EntryTime) {
		return ErrInvalidTimeOrder
	}
	if fee < 0 {
		return ErrNegativeFee
	}
	s.Status = next
	s.ExitTime = &exit
	s.Fee = &fee
	s.UpdatedAt = exit
	return nil
}

// Cancel voids an active session. Exit time and fee stay unset.
func (s *Session) Cancel(at time.Time) error {
	next, err := Transition(s.Status, EventCancel)
	if err != nil {
		return err
	}
	s.Status = next
	s.UpdatedAt = at
	return nil
}

// RateRule prices parking for one vehicle class over a validity window.
type RateRule struct {
	RateID         uuid.UUID    `json:"rate_id"`
	VehicleClass   VehicleClass `json:"vehicle_class"`
	RateKind       RateKind     `json:"rate_kind"`
	Amount         int64        `json:"amount"`
	EffectiveFrom  time.Time    `json:"effective_from"`
	EffectiveUntil *time.Time   `json:"effective_until,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// EffectiveAt reports whether the rule applies at t: the window is closed
// at EffectiveFrom and open at EffectiveUntil.
func (r RateRule) EffectiveAt(t time.Time) bool {
	if r.EffectiveFrom.After(t) {
		return false
	}
	return r.EffectiveUntil == nil || r.EffectiveUntil.After(t)
}

// CeilMinutes converts a duration to whole minutes, rounding any partial
// minute up. Non-positive durations yield 0.
func CeilMinutes(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if d%time.Millisecond != 0 {
		ms++
	}
	return (ms + 59_999) / 60_000
}
