package parking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VehicleQueries reads and writes vehicle records.
type VehicleQueries interface {
	GetVehicle(ctx context.Context, plate string) (Vehicle, error)
	// UpsertVehicle inserts the vehicle or updates its class and UpdatedAt.
	// CreatedAt of an existing record is preserved.
	UpsertVehicle(ctx context.Context, v Vehicle) (Vehicle, error)
}

// SpaceQueries reads and writes parking spaces.
type SpaceQueries interface {
	GetSpace(ctx context.Context, spaceID string) (Space, error)
	ListSpaces(ctx context.Context) ([]Space, error)
	// ListFreeSpaces returns unoccupied spaces of the given classes ordered
	// by space id.
	ListFreeSpaces(ctx context.Context, classes []SpaceClass) ([]Space, error)
	// SetOccupied flips the flag only when it currently holds the opposite
	// value and returns the number of rows changed.
	SetOccupied(ctx context.Context, spaceID string, occupied bool) (int64, error)
	// CountSpaces aggregates totals per (class, zone).
	CountSpaces(ctx context.Context) ([]SpaceCount, error)
	// CountFreeSpaces counts unoccupied spaces of the given classes. A nil
	// slice counts all classes.
	CountFreeSpaces(ctx context.Context, classes []SpaceClass) (int, error)
	// SaveSpace creates the space or updates its class and zone. The
	// occupied flag of an existing space is left untouched.
	SaveSpace(ctx context.Context, s Space) error
}

// SessionQueries reads and writes parking sessions.
type SessionQueries interface {
	// InsertSession returns ErrConflict when the plate or the space already
	// has an active session, joined with ErrSpaceConflict in the space case.
	// Rows rejected by a CHECK or FOREIGN KEY constraint fail with
	// ErrIntegrityViolation.
	InsertSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id uuid.UUID) (Session, error)
	GetActiveSessionByPlate(ctx context.Context, plate string) (Session, error)
	// UpdateSession persists status, exit time, fee and UpdatedAt of a
	// session that is still active and returns the rows changed.
	UpdateSession(ctx context.Context, s Session) (int64, error)
	ListActiveSessions(ctx context.Context) ([]Session, error)
	// FindSessions returns sessions matching f, newest entry first.
	FindSessions(ctx context.Context, f SessionFilter) ([]Session, error)
}

// RateQueries reads and writes the rate card.
type RateQueries interface {
	// ListRates returns rules ordered by creation time then id. A nil class
	// lists every rule.
	ListRates(ctx context.Context, class *VehicleClass) ([]RateRule, error)
	InsertRate(ctx context.Context, r RateRule) error
	GetRate(ctx context.Context, id uuid.UUID) (RateRule, error)
	ExpireRate(ctx context.Context, id uuid.UUID, until time.Time) (int64, error)
}

// Queries is the full set of record operations. Both a Store and a
// transaction handle satisfy it.
type Queries interface {
	VehicleQueries
	SpaceQueries
	SessionQueries
	RateQueries
}

// Store is the persistence boundary.
type Store interface {
	Queries
	// InTx runs fn in one transaction. It commits when fn returns nil and
	// rolls back on error or panic.
	InTx(ctx context.Context, fn func(tx Queries) error) error
	Ping(ctx context.Context) error
}

// SessionFilter narrows FindSessions. Zero values mean "no constraint".
type SessionFilter struct {
	// PlateContains is matched as a substring of the normalized plate.
	PlateContains string
	VehicleClass  *VehicleClass
	Status        *SessionStatus
	EntryFrom     *time.Time
	EntryTo       *time.Time
	// ExitFrom is inclusive and ExitTo exclusive.
	ExitFrom *time.Time
	ExitTo   *time.Time
	MinFee   *int64
	MaxFee   *int64
	Limit    int
}

// SpaceCount is one row of the occupancy aggregate.
type SpaceCount struct {
	SpaceClass SpaceClass
	Zone       string
	Total      int
	Occupied   int
}
