package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

const sessionColumns = `s.session_id, s.license_plate, s.space_id, s.entry_time, s.exit_time,
	s.fee, s.status, s.created_at, s.updated_at`

func scanSession(row interface{ Scan(...any) error }) (parking.Session, error) {
	var (
		s                           parking.Session
		id                          string
		entry, createdAt, updatedAt int64
		exit, fee                   sql.NullInt64
	)
	if err := row.Scan(&id, &s.LicensePlate, &s.SpaceID, &entry, &exit, &fee, &s.Status, &createdAt, &updatedAt); err != nil {
		return parking.Session{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return parking.Session{}, fmt.Errorf("parse session id %q: %w", id, err)
	}
	s.SessionID = parsed
	s.EntryTime = fromMicros(entry)
	s.ExitTime = timePtr(exit)
	s.Fee = intPtr(fee)
	s.CreatedAt = fromMicros(createdAt)
	s.UpdatedAt = fromMicros(updatedAt)
	return s, nil
}

func collectSessions(rows *sql.Rows) ([]parking.Session, error) {
	defer rows.Close()
	var out []parking.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *queries) InsertSession(ctx context.Context, s parking.Session) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO sessions (
		   session_id, license_plate, space_id, entry_time, exit_time,
		   fee, status, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID.String(), s.LicensePlate, s.SpaceID, toMicros(s.EntryTime), nullMicros(s.ExitTime),
		nullInt(s.Fee), string(s.Status), toMicros(s.CreatedAt), toMicros(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", constraintErr(err))
	}
	return nil
}

func (q *queries) GetSession(ctx context.Context, id uuid.UUID) (parking.Session, error) {
	s, err := scanSession(q.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.session_id = ?`, id.String()))
	if err != nil {
		return parking.Session{}, fmt.Errorf("get session: %w", notFound(err))
	}
	return s, nil
}

func (q *queries) GetActiveSessionByPlate(ctx context.Context, plate string) (parking.Session, error) {
	s, err := scanSession(q.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s
		  WHERE s.license_plate = ? AND s.status = 'ACTIVE'`, plate))
	if err != nil {
		return parking.Session{}, fmt.Errorf("get active session: %w", notFound(err))
	}
	return s, nil
}

func (q *queries) UpdateSession(ctx context.Context, s parking.Session) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE sessions
		    SET status = ?, exit_time = ?, fee = ?, updated_at = ?
		  WHERE session_id = ? AND status = 'ACTIVE'`,
		string(s.Status), nullMicros(s.ExitTime), nullInt(s.Fee), toMicros(s.UpdatedAt), s.SessionID.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("update session: %w", constraintErr(err))
	}
	return res.RowsAffected()
}

func (q *queries) ListActiveSessions(ctx context.Context) ([]parking.Session, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.status = 'ACTIVE' ORDER BY s.space_id, s.entry_time`)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	sessions, err := collectSessions(rows)
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
		where = append(where, cond)
		args = append(args, arg)
	}

	if f.PlateContains != "" {
		add(`instr(s.license_plate, ?) > 0`, f.PlateContains)
	}
	if f.VehicleClass != nil {
		add(`v.vehicle_class = ?`, string(*f.VehicleClass))
	}
	if f.Status != nil {
		add(`s.status = ?`, string(*f.Status))
	}
	if f.EntryFrom != nil {
		add(`s.entry_time >= ?`, toMicros(*f.EntryFrom))
	}
	if f.EntryTo != nil {
		add(`s.entry_time <= ?`, toMicros(*f.EntryTo))
	}
	if f.ExitFrom != nil {
		add(`s.exit_time >= ?`, toMicros(*f.ExitFrom))
	}
	if f.ExitTo != nil {
		add(`s.exit_time < ?`, toMicros(*f.ExitTo))
	}
	if f.MinFee != nil {
		add(`s.fee >= ?`, *f.MinFee)
	}
	if f.MaxFee != nil {
		add(`s.fee <= ?`, *f.MaxFee)
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions s
	  JOIN vehicles v ON v.license_plate = s.license_plate`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY s.entry_time DESC, s.session_id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	return sessions, nil
}
