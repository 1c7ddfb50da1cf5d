package parking

import (
	"fmt"
	"strings"
)

// VehicleClass is the category of a vehicle, used for space compatibility
// and rate lookup.
type VehicleClass string

const (
	VehicleCar        VehicleClass = "CAR"
	VehicleMotorcycle VehicleClass = "MOTORCYCLE"
	VehicleTruck      VehicleClass = "TRUCK"
	VehicleVan        VehicleClass = "VAN"
)

// VehicleClasses lists every known vehicle class in declaration order.
var VehicleClasses = []VehicleClass{VehicleCar, VehicleMotorcycle, VehicleTruck, VehicleVan}

func (c VehicleClass) Valid() bool {
	switch c {
	case VehicleCar, VehicleMotorcycle, VehicleTruck, VehicleVan:
		return true
	}
	return false
}

func (c VehicleClass) String() string { return string(c) }

// ParseVehicleClass accepts any letter case and surrounding whitespace.
func ParseVehicleClass(s string) (VehicleClass, error) {
	c := VehicleClass(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: vehicle class %q", ErrUnknownEnum, s)
	}
	return c, nil
}

// SpaceClass is the category of a parking space.
type SpaceClass string

const (
	SpaceCar        SpaceClass = "CAR"
	SpaceMotorcycle SpaceClass = "MOTORCYCLE"
	SpaceTruck      SpaceClass = "TRUCK"
	SpaceHandicap   SpaceClass = "HANDICAP"
)

var SpaceClasses = []SpaceClass{SpaceCar, SpaceMotorcycle, SpaceTruck, SpaceHandicap}

func (c SpaceClass) Valid() bool {
	switch c {
	case SpaceCar, SpaceMotorcycle, SpaceTruck, SpaceHandicap:
		return true
	}
	return false
}

func (c SpaceClass) String() string { return string(c) }

func ParseSpaceClass(s string) (SpaceClass, error) {
	c := SpaceClass(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: space class %q", ErrUnknownEnum, s)
	}
	return c, nil
}

// RateKind is the pricing model of a rate rule.
type RateKind string

const (
	RateHourly RateKind = "HOURLY"
	RateDaily  RateKind = "DAILY"
	RateFlat   RateKind = "FLAT"
)

var RateKinds = []RateKind{RateHourly, RateDaily, RateFlat}

func (k RateKind) Valid() bool {
	switch k {
	case RateHourly, RateDaily, RateFlat:
		return true
	}
	return false
}

func (k RateKind) String() string { return string(k) }

func ParseRateKind(s string) (RateKind, error) {
	k := RateKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: rate kind %q", ErrUnknownEnum, s)
	}
	return k, nil
}

// SessionStatus is the lifecycle state of a parking session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "ACTIVE"
	StatusCompleted SessionStatus = "COMPLETED"
	StatusCancelled SessionStatus = "CANCELLED"
)

var SessionStatuses = []SessionStatus{StatusActive, StatusCompleted, StatusCancelled}

func (s SessionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s SessionStatus) String() string { return string(s) }

func ParseSessionStatus(s string) (SessionStatus, error) {
	st := SessionStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: session status %q", ErrUnknownEnum, s)
	}
	return st, nil
}
