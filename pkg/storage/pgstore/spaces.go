package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

const spaceColumns = `space_id, space_class, zone, occupied`

func scanSpace(row pgx.Row) (parking.Space, error) {
	var (
		s     parking.Space
		class string
	)
	if err := row.Scan(&s.SpaceID, &class, &s.Zone, &s.Occupied); err != nil {
		return parking.Space{}, err
	}
	s.SpaceClass = parking.SpaceClass(class)
	return s, nil
}

func rowToSpace(row pgx.CollectableRow) (parking.Space, error) {
	return scanSpace(row)
}

func (q *queries) GetSpace(ctx context.Context, spaceID string) (parking.Space, error) {
	s, err := scanSpace(q.db.QueryRow(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE space_id = $1`, spaceID))
	if err != nil {
		return parking.Space{}, fmt.Errorf("get space: %w", notFound(err))
	}
	return s, nil
}

func (q *queries) ListSpaces(ctx context.Context) ([]parking.Space, error) {
	rows, err := q.db.Query(ctx, `SELECT `+spaceColumns+` FROM spaces ORDER BY space_id`)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	spaces, err := pgx.CollectRows(rows, rowToSpace)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return spaces, nil
}

func (q *queries) ListFreeSpaces(ctx context.Context, classes []parking.SpaceClass) ([]parking.Space, error) {
	if len(classes) == 0 {
		return nil, nil
	}
	rows, err := q.db.Query(ctx,
		`SELECT `+spaceColumns+` FROM spaces
		  WHERE NOT occupied AND space_class = ANY($1)
		  ORDER BY space_id`,
		stringSlice(classes),
	)
	if err != nil {
		return nil, fmt.Errorf("list free spaces: %w", err)
	}
	spaces, err := pgx.CollectRows(rows, rowToSpace)
	if err != nil {
		return nil, fmt.Errorf("list free spaces: %w", err)
	}
	return spaces, nil
}

func (q *queries) SetOccupied(ctx context.Context, spaceID string, occupied bool) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`UPDATE spaces SET occupied = $1 WHERE space_id = $2 AND occupied = $3`,
		occupied, spaceID, !occupied,
	)
	if err != nil {
		return 0, fmt.Errorf("set space occupied: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *queries) CountSpaces(ctx context.Context) ([]parking.SpaceCount, error) {
	rows, err := q.db.Query(ctx,
		`SELECT space_class, zone, COUNT(*)::int, (COUNT(*) FILTER (WHERE occupied))::int
		   FROM spaces
		  GROUP BY space_class, zone
		  ORDER BY space_class, zone`)
	if err != nil {
		return nil, fmt.Errorf("count spaces: %w", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (parking.SpaceCount, error) {
		var (
			c     parking.SpaceCount
			class string
		)
		err := row.Scan(&class, &c.Zone, &c.Total, &c.Occupied)
		c.SpaceClass = parking.SpaceClass(class)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("count spaces: %w", err)
	}
	return counts, nil
}

func (q *queries) CountFreeSpaces(ctx context.Context, classes []parking.SpaceClass) (int, error) {
	var (
		n   int
		err error
	)
	switch {
	case classes == nil:
		err = q.db.QueryRow(ctx, `SELECT COUNT(*) FROM spaces WHERE NOT occupied`).Scan(&n)
	case len(classes) == 0:
		return 0, nil
	default:
		err = q.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM spaces WHERE NOT occupied AND space_class = ANY($1)`,
			stringSlice(classes),
		).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count free spaces: %w", err)
	}
	return n, nil
}

func (q *queries) SaveSpace(ctx context.Context, s parking.Space) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO spaces (space_id, space_class, zone, occupied) VALUES ($1, $2, $3, FALSE)
		 ON CONFLICT (space_id) DO UPDATE SET
		   space_class = EXCLUDED.space_class,
		   zone = EXCLUDED.zone`,
		s.SpaceID, string(s.SpaceClass), s.Zone,
	)
	if err != nil {
		return fmt.Errorf("save space: %w", constraintErr(err))
	}
	return nil
}
