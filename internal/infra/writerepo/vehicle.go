package writerepo

import (
	"context"

	"fleet-rental/internal/domain/vehicle"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/infra/db"
	"fleet-rental/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(dbtx db.DBTX) *VehicleRepository {
	return &VehicleRepository{db: dbtx}
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	const query = `
		INSERT INTO vehicles (id, type_id, license_plate, color, daily_rate_cents, deposit_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		v.ID(), v.TypeID(), v.LicensePlate(), v.Color(),
		v.DailyRateCents(), v.DepositCents(), v.Status().String(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create vehicle", err)
	}
	return nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	const query = `
		UPDATE vehicles SET
			license_plate = $2, color = $3, daily_rate_cents = $4,
			deposit_cents = $5, status = $6, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		v.ID(), v.LicensePlate(), v.Color(),
		v.DailyRateCents(), v.DepositCents(), v.Status().String(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to update vehicle", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "vehicle not found", nil)
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapPgErr("failed to delete vehicle", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VehicleRepository) LockByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	const query = `
		SELECT id, type_id, license_plate, color, daily_rate_cents, deposit_cents, status, created_at, updated_at
		FROM vehicles WHERE id = $1 FOR UPDATE`

	var (
		vehicleID, typeID    uuid.UUID
		licensePlate, color  string
		dailyRate, deposit   int64
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vehicleID, &typeID, &licensePlate, &color,
		&dailyRate, &deposit, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "vehicle not found", err)
		}
		return nil, infra.WrapPgErr("failed to lock vehicle", err)
	}

	return vehicle.ReconstructVehicle(
		vehicleID, typeID, licensePlate, color, dailyRate, deposit,
		vehicle.Status(status),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

// SaveStatus persists only the availability flag; descriptive updates go
// through Update.
func (r *VehicleRepository) SaveStatus(ctx context.Context, v *vehicle.Vehicle) error {
	const query = `UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, v.ID(), v.Status().String())
	if err != nil {
		return infra.WrapPgErr("failed to save vehicle status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "vehicle not found", nil)
	}
	return nil
}

type VehicleTypeRepository struct {
	db db.DBTX
}

func NewVehicleTypeRepository(dbtx db.DBTX) *VehicleTypeRepository {
	return &VehicleTypeRepository{db: dbtx}
}

func (r *VehicleTypeRepository) Create(ctx context.Context, t *vehicle.Type) error {
	const query = `
		INSERT INTO vehicle_types (id, brand, model, category, seats, transmission)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		t.ID(), t.Brand(), t.Model(), t.Category(), t.Seats(), t.Transmission(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create vehicle type", err)
	}
	return nil
}
