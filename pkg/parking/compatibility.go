package parking

// compatibility maps each vehicle class to the space classes it may occupy,
// most preferred first.
var compatibility = map[VehicleClass][]SpaceClass{
	VehicleCar:        {SpaceCar, SpaceTruck, SpaceHandicap},
	VehicleVan:        {SpaceCar, SpaceTruck, SpaceHandicap},
	VehicleMotorcycle: {SpaceMotorcycle, SpaceHandicap},
	VehicleTruck:      {SpaceTruck, SpaceHandicap},
}

// EligibleSpaceClasses returns the space classes a vehicle class may occupy in
// priority order. The returned slice is a copy. Unknown classes yield nil.
func EligibleSpaceClasses(c VehicleClass) []SpaceClass {
	eligible, ok := compatibility[c]
	if !ok {
		return nil
	}
	out := make([]SpaceClass, len(eligible))
	copy(out, eligible)
	return out
}

// SpacePriority returns the position of sc in the eligibility list of vc,
// or -1 when the vehicle may not park there.
func SpacePriority(vc VehicleClass, sc SpaceClass) int {
	for i, c := range compatibility[vc] {
		if c == sc {
			return i
		}
	}
	return -1
}

// Compatible reports whether a vehicle of class vc may occupy a space of class sc.
func Compatible(vc VehicleClass, sc SpaceClass) bool {
	return SpacePriority(vc, sc) >= 0
}
