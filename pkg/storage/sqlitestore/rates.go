package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

const rateColumns = `rate_id, vehicle_class, rate_kind, amount, effective_from, effective_until, created_at`

func scanRate(row interface{ Scan(...any) error }) (parking.RateRule, error) {
	var (
		r               parking.RateRule
		id              string
		from, createdAt int64
		until           sql.NullInt64
	)
	if err := row.Scan(&id, &r.VehicleClass, &r.RateKind, &r.Amount, &from, &until, &createdAt); err != nil {
		return parking.RateRule{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return parking.RateRule{}, fmt.Errorf("parse rate id %q: %w", id, err)
	}
	r.RateID = parsed
	r.EffectiveFrom = fromMicros(from)
	r.EffectiveUntil = timePtr(until)
	r.CreatedAt = fromMicros(createdAt)
	return r, nil
}

func (q *queries) ListRates(ctx context.Context, class *parking.VehicleClass) ([]parking.RateRule, error) {
	query := `SELECT ` + rateColumns + ` FROM rate_rules`
	var args []any
	if class != nil {
		query += ` WHERE vehicle_class = ?`
		args = append(args, string(*class))
	}
	query += ` ORDER BY created_at, rate_id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	var out []parking.RateRule
	for rows.Next() {
		r, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("list rates: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *queries) InsertRate(ctx context.Context, r parking.RateRule) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO rate_rules (`+rateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RateID.String(), string(r.VehicleClass), string(r.RateKind), r.Amount,
		toMicros(r.EffectiveFrom), nullMicros(r.EffectiveUntil), toMicros(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert rate: %w", constraintErr(err))
	}
	return nil
}

func (q *queries) GetRate(ctx context.Context, id uuid.UUID) (parking.RateRule, error) {
	r, err := scanRate(q.db.QueryRowContext(ctx,
		`SELECT `+rateColumns+` FROM rate_rules WHERE rate_id = ?`, id.String()))
	if err != nil {
		return parking.RateRule{}, fmt.Errorf("get rate: %w", notFound(err))
	}
	return r, nil
}

func (q *queries) ExpireRate(ctx context.Context, id uuid.UUID, until time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE rate_rules SET effective_until = ? WHERE rate_id = ?`, toMicros(until), id.String())
	if err != nil {
		return 0, fmt.Errorf("expire rate: %w", constraintErr(err))
	}
	return res.RowsAffected()
}
