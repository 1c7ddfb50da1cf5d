package parking

import "time"

// OccupancyStats summarizes one group of spaces.
type OccupancyStats struct {
	Total       int     `json:"total"`
	Occupied    int     `json:"occupied"`
	Available   int     `json:"available"`
	Utilization float64 `json:"utilization"`
}

// NewOccupancyStats derives availability and utilization percentage.
// Utilization is 0 when there are no spaces.
func NewOccupancyStats(total, occupied int) OccupancyStats {
	s := OccupancyStats{Total: total, Occupied: occupied, Available: total - occupied}
	if total > 0 {
		s.Utilization = float64(occupied) / float64(total) * 100
	}
	return s
}

// AvailabilityReport is a point-in-time view of the facility.
type AvailabilityReport struct {
	OccupancyStats
	ByClass map[SpaceClass]OccupancyStats `json:"by_class"`
	ByZone  map[string]OccupancyStats     `json:"by_zone"`
}

// DateRange bounds a report by exit time: From inclusive, To exclusive.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type RevenueReport struct {
	TotalRevenue           int64       `json:"total_revenue"`
	SessionCount           int         `json:"session_count"`
	AverageDurationMinutes float64     `json:"average_duration_minutes"`
	PeakHours              []HourCount `json:"peak_hours"`
}

// MismatchKind classifies an audit finding.
type MismatchKind string

const (
	MismatchSpaceMissing     MismatchKind = "SPACE_MISSING"
	MismatchSpaceNotOccupied MismatchKind = "SPACE_NOT_OCCUPIED"
	MismatchOrphanOccupied   MismatchKind = "OCCUPIED_WITHOUT_SESSION"
	MismatchDoubleBooked     MismatchKind = "MULTIPLE_ACTIVE_SESSIONS"
)

type Mismatch struct {
	Kind       MismatchKind `json:"kind"`
	SpaceID    string       `json:"space_id"`
	SessionIDs []string     `json:"session_ids,omitempty"`
}

// AuditReport lists every disagreement between spaces and active sessions.
type AuditReport struct {
	CheckedAt      time.Time  `json:"checked_at"`
	ActiveSessions int        `json:"active_sessions"`
	OccupiedSpaces int        `json:"occupied_spaces"`
	Mismatches     []Mismatch `json:"mismatches"`
}

// Consistent reports whether the audit found nothing.
func (r AuditReport) Consistent() bool { return len(r.Mismatches) == 0 }
