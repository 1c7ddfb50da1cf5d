package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

const sessionColumns = `s.session_id, s.license_plate, s.space_id, s.entry_time, s.exit_time,
	s.fee, s.status, s.created_at, s.updated_at`

func scanSession(row pgx.Row) (parking.Session, error) {
	var (
		s      parking.Session
		status string
	)
	err := row.Scan(&s.SessionID, &s.LicensePlate, &s.SpaceID, &s.EntryTime, &s.ExitTime,
		&s.Fee, &status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return parking.Session{}, err
	}
	s.Status = parking.SessionStatus(status)
	s.EntryTime = s.EntryTime.UTC()
	s.ExitTime = utcPtr(s.ExitTime)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func rowToSession(row pgx.CollectableRow) (parking.Session, error) {
	return scanSession(row)
}

func (q *queries) InsertSession(ctx context.Context, s parking.Session) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO sessions (
		   session_id, license_plate, space_id, entry_time, exit_time,
		   fee, status, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.SessionID, s.LicensePlate, s.SpaceID, s.EntryTime.UTC(), utcPtr(s.ExitTime),
		s.Fee, string(s.Status), s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", constraintErr(err))
	}
	return nil
}

func (q *queries) GetSession(ctx context.Context, id uuid.UUID) (parking.Session, error) {
	s, err := scanSession(q.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.session_id = $1`, id))
	if err != nil {
		return parking.Session{}, fmt.Errorf("get session: %w", notFound(err))
	}
	return s, nil
}

func (q *queries) GetActiveSessionByPlate(ctx context.Context, plate string) (parking.Session, error) {
	s, err := scanSession(q.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions s
		  WHERE s.license_plate = $1 AND s.status = 'ACTIVE'`, plate))
	if err != nil {
		return parking.Session{}, fmt.Errorf("get active session: %w", notFound(err))
	}
	return s, nil
}

func (q *queries) UpdateSession(ctx context.Context, s parking.Session) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`UPDATE sessions
		    SET status = $1, exit_time = $2, fee = $3, updated_at = $4
		  WHERE session_id = $5 AND status = 'ACTIVE'`,
		string(s.Status), utcPtr(s.ExitTime), s.Fee, s.UpdatedAt.UTC(), s.SessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("update session: %w", constraintErr(err))
	}
	return tag.RowsAffected(), nil
}

func (q *queries) ListActiveSessions(ctx context.Context) ([]parking.Session, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.status = 'ACTIVE' ORDER BY s.space_id, s.entry_time`)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	sessions, err := pgx.CollectRows(rows, rowToSession)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return sessions, nil
}

func (q *queries) FindSessions(ctx context.Context, f parking.SessionFilter) ([]parking.Session, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.PlateContains != "" {
		add(`strpos(s.license_plate, $%d) > 0`, f.PlateContains)
	}
	if f.VehicleClass != nil {
		add(`v.vehicle_class = $%d`, string(*f.VehicleClass))
	}
	if f.Status != nil {
		add(`s.status = $%d`, string(*f.Status))
	}
	if f.EntryFrom != nil {
		add(`s.entry_time >= $%d`, f.EntryFrom.UTC())
	}
	if f.EntryTo != nil {
		add(`s.entry_time <= $%d`, f.EntryTo.UTC())
	}
	if f.ExitFrom != nil {
		add(`s.exit_time >= $%d`, f.ExitFrom.UTC())
	}
	if f.ExitTo != nil {
		add(`s.exit_time < $%d`, f.ExitTo.UTC())
	}
	if f.MinFee != nil {
		add(`s.fee >= $%d`, *f.MinFee)
	}
	if f.MaxFee != nil {
		add(`s.fee <= $%d`, *f.MaxFee)
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions s
	  JOIN vehicles v ON v.license_plate = s.license_plate`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY s.entry_time DESC, s.session_id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	sessions, err := pgx.CollectRows(rows, rowToSession)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	return sessions, nil
}
