package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

func (q *queries) GetVehicle(ctx context.Context, plate string) (parking.Vehicle, error) {
	var (
		v     parking.Vehicle
		class string
	)
	err := q.db.QueryRow(ctx,
		`SELECT license_plate, vehicle_class, created_at, updated_at
		   FROM vehicles WHERE license_plate = $1`, plate,
	).Scan(&v.LicensePlate, &class, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return parking.Vehicle{}, fmt.Errorf("get vehicle: %w", notFound(err))
	}
	v.VehicleClass = parking.VehicleClass(class)
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}

func (q *queries) UpsertVehicle(ctx context.Context, v parking.Vehicle) (parking.Vehicle, error) {
	var (
		out   parking.Vehicle
		class string
	)
	err := q.db.QueryRow(ctx,
		`INSERT INTO vehicles (license_plate, vehicle_class, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (license_plate) DO UPDATE SET
		   vehicle_class = EXCLUDED.vehicle_class,
		   updated_at = EXCLUDED.updated_at
		 RETURNING license_plate, vehicle_class, created_at, updated_at`,
		v.LicensePlate, string(v.VehicleClass), v.CreatedAt.UTC(), v.UpdatedAt.UTC(),
	).Scan(&out.LicensePlate, &class, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return parking.Vehicle{}, fmt.Errorf("upsert vehicle: %w", constraintErr(err))
	}
	out.VehicleClass = parking.VehicleClass(class)
	out.CreatedAt = out.CreatedAt.UTC()
	out.UpdatedAt = out.UpdatedAt.UTC()
	return out, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
