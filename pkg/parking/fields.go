package parking

// Field names used in validation errors.
const (
	FieldLicensePlate   = "license_plate"
	FieldVehicleClass   = "vehicle_class"
	FieldSpaceClass     = "space_class"
	FieldSpaceID        = "space_id"
	FieldZone           = "zone"
	FieldSessionID      = "session_id"
	FieldRateID         = "rate_id"
	FieldRateKind       = "rate_kind"
	FieldAmount         = "amount"
	FieldEffectiveFrom  = "effective_from"
	FieldEffectiveUntil = "effective_until"
	FieldStatus         = "status"
	FieldEntryRange     = "entry_time"
	FieldFeeRange       = "fee"
	FieldDurationRange  = "duration_minutes"
	FieldDateRange      = "date_range"
	FieldLimit          = "limit"
)
