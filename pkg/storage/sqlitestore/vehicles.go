package sqlitestore

import (
	"context"
	"fmt"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

func (q *queries) GetVehicle(ctx context.Context, plate string) (parking.Vehicle, error) {
	var (
		v                    parking.Vehicle
		createdAt, updatedAt int64
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT license_plate, vehicle_class, created_at, updated_at
		   FROM vehicles WHERE license_plate = ?`, plate,
	).Scan(&v.LicensePlate, &v.VehicleClass, &createdAt, &updatedAt)
	if err != nil {
		return parking.Vehicle{}, fmt.Errorf("get vehicle: %w", notFound(err))
	}
	v.CreatedAt = fromMicros(createdAt)
	v.UpdatedAt = fromMicros(updatedAt)
	return v, nil
}

func (q *queries) UpsertVehicle(ctx context.Context, v parking.Vehicle) (parking.Vehicle, error) {
	var (
		out                  parking.Vehicle
		createdAt, updatedAt int64
	)
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO vehicles (license_plate, vehicle_class, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (license_plate) DO UPDATE SET
		   vehicle_class = excluded.vehicle_class,
		   updated_at = excluded.updated_at
		 RETURNING license_plate, vehicle_class, created_at, updated_at`,
		v.LicensePlate, string(v.VehicleClass), toMicros(v.CreatedAt), toMicros(v.UpdatedAt),
	).Scan(&out.LicensePlate, &out.VehicleClass, &createdAt, &updatedAt)
	if err != nil {
		return parking.Vehicle{}, fmt.Errorf("upsert vehicle: %w", constraintErr(err))
	}
	out.CreatedAt = fromMicros(createdAt)
	out.UpdatedAt = fromMicros(updatedAt)
	return out, nil
}
