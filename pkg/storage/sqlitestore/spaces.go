package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

const spaceColumns = `space_id, space_class, zone, occupied`

func scanSpace(row interface{ Scan(...any) error }) (parking.Space, error) {
	var (
		s        parking.Space
		occupied int
	)
	if err := row.Scan(&s.SpaceID, &s.SpaceClass, &s.Zone, &occupied); err != nil {
		return parking.Space{}, err
	}
	s.Occupied = occupied != 0
	return s, nil
}

func collectSpaces(rows *sql.Rows) ([]parking.Space, error) {
	defer rows.Close()
	var out []parking.Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *queries) GetSpace(ctx context.Context, spaceID string) (parking.Space, error) {
	s, err := scanSpace(q.db.QueryRowContext(ctx,
		`SELECT `+spaceColumns+` FROM spaces WHERE space_id = ?`, spaceID))
	if err != nil {
		return parking.Space{}, fmt.Errorf("get space: %w", notFound(err))
	}
	return s, nil
}

func (q *queries) ListSpaces(ctx context.Context) ([]parking.Space, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+spaceColumns+` FROM spaces ORDER BY space_id`)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	spaces, err := collectSpaces(rows)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return spaces, nil
}

func (q *queries) ListFreeSpaces(ctx context.Context, classes []parking.SpaceClass) ([]parking.Space, error) {
	if len(classes) == 0 {
		return nil, nil
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+spaceColumns+` FROM spaces
		  WHERE occupied = 0 AND space_class IN (`+placeholders(len(classes))+`)
		  ORDER BY space_id`,
		stringArgs(classes)...,
	)
	if err != nil {
		return nil, fmt.Errorf("list free spaces: %w", err)
	}
	spaces, err := collectSpaces(rows)
	if err != nil {
		return nil, fmt.Errorf("list free spaces: %w", err)
	}
	return spaces, nil
}

func (q *queries) SetOccupied(ctx context.Context, spaceID string, occupied bool) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE spaces SET occupied = ? WHERE space_id = ? AND occupied = ?`,
		boolInt(occupied), spaceID, boolInt(!occupied),
	)
	if err != nil {
		return 0, fmt.Errorf("set space occupied: %w", err)
	}
	return res.RowsAffected()
}

func (q *queries) CountSpaces(ctx context.Context) ([]parking.SpaceCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT space_class, zone, COUNT(*), COALESCE(SUM(occupied), 0)
		   FROM spaces
		  GROUP BY space_class, zone
		  ORDER BY space_class, zone`)
	if err != nil {
		return nil, fmt.Errorf("count spaces: %w", err)
	}
	defer rows.Close()

	var out []parking.SpaceCount
	for rows.Next() {
		var c parking.SpaceCount
		if err := rows.Scan(&c.SpaceClass, &c.Zone, &c.Total, &c.Occupied); err != nil {
			return nil, fmt.Errorf("count spaces: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *queries) CountFreeSpaces(ctx context.Context, classes []parking.SpaceClass) (int, error) {
	query := `SELECT COUNT(*) FROM spaces WHERE occupied = 0`
	var args []any
	if classes != nil {
		if len(classes) == 0 {
			return 0, nil
		}
		query += ` AND space_class IN (` + placeholders(len(classes)) + `)`
		args = stringArgs(classes)
	}

	var n int
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count free spaces: %w", err)
	}
	return n, nil
}

func (q *queries) SaveSpace(ctx context.Context, s parking.Space) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO spaces (space_id, space_class, zone, occupied) VALUES (?, ?, ?, 0)
		 ON CONFLICT (space_id) DO UPDATE SET
		   space_class = excluded.space_class,
		   zone = excluded.zone`,
		s.SpaceID, string(s.SpaceClass), s.Zone,
	)
	if err != nil {
		return fmt.Errorf("save space: %w", constraintErr(err))
	}
	return nil
}
