package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

const rateColumns = `rate_id, vehicle_class, rate_kind, amount, effective_from, effective_until, created_at`

func scanRate(row pgx.Row) (parking.RateRule, error) {
	var (
		r           parking.RateRule
		class, kind string
	)
	if err := row.Scan(&r.RateID, &class, &kind, &r.Amount, &r.EffectiveFrom, &r.EffectiveUntil, &r.CreatedAt); err != nil {
		return parking.RateRule{}, err
	}
	r.VehicleClass = parking.VehicleClass(class)
	r.RateKind = parking.RateKind(kind)
	r.EffectiveFrom = r.EffectiveFrom.UTC()
	r.EffectiveUntil = utcPtr(r.EffectiveUntil)
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

func (q *queries) ListRates(ctx context.Context, class *parking.VehicleClass) ([]parking.RateRule, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if class == nil {
		rows, err = q.db.Query(ctx, `SELECT `+rateColumns+` FROM rate_rules ORDER BY created_at, rate_id`)
	} else {
		rows, err = q.db.Query(ctx,
			`SELECT `+rateColumns+` FROM rate_rules WHERE vehicle_class = $1 ORDER BY created_at, rate_id`,
			string(*class))
	}
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (parking.RateRule, error) {
		return scanRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	return rules, nil
}

func (q *queries) InsertRate(ctx context.Context, r parking.RateRule) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO rate_rules (`+rateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.RateID, string(r.VehicleClass), string(r.RateKind), r.Amount,
		r.EffectiveFrom.UTC(), utcPtr(r.EffectiveUntil), r.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert rate: %w", constraintErr(err))
	}
	return nil
}

func (q *queries) GetRate(ctx context.Context, id uuid.UUID) (parking.RateRule, error) {
	r, err := scanRate(q.db.QueryRow(ctx, `SELECT `+rateColumns+` FROM rate_rules WHERE rate_id = $1`, id))
	if err != nil {
		return parking.RateRule{}, fmt.Errorf("get rate: %w", notFound(err))
	}
	return r, nil
}

func (q *queries) ExpireRate(ctx context.Context, id uuid.UUID, until time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE rate_rules SET effective_until = $1 WHERE rate_id = $2`, until.UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("expire rate: %w", constraintErr(err))
	}
	return tag.RowsAffected(), nil
}
