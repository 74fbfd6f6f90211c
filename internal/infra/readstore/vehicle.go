package readstore

import (
	"context"

	"fleet-rental/internal/infra"
	"fleet-rental/internal/infra/db"
	"fleet-rental/internal/pkg/pgconv"
	"fleet-rental/internal/usecase/queries"
	"fleet-rental/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(dbtx db.DBTX) *VehicleReadStore {
	return &VehicleReadStore{db: dbtx}
}

const vehicleViewQuery = `
	SELECT v.id, v.type_id, t.brand, t.model, t.category,
		v.license_plate, v.color, v.daily_rate_cents, v.deposit_cents, v.status,
		v.created_at, v.updated_at
	FROM vehicles v
	JOIN vehicle_types t ON t.id = v.type_id`

func (s *VehicleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VehicleView, error) {
	row := s.db.QueryRow(ctx, vehicleViewQuery+` WHERE v.id = $1`, id)

	view, err := scanVehicleView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "vehicle not found", err)
		}
		return nil, infra.WrapPgErr("failed to find vehicle", err)
	}
	return view, nil
}

func (s *VehicleReadStore) FindAll(ctx context.Context) ([]*queries.VehicleView, error) {
	rows, err := s.db.Query(ctx, vehicleViewQuery+` ORDER BY v.created_at DESC`)
	if err != nil {
		return nil, infra.WrapPgErr("failed to list vehicles", err)
	}
	defer rows.Close()

	views := []*queries.VehicleView{}
	for rows.Next() {
		view, err := scanVehicleView(rows)
		if err != nil {
			return nil, infra.WrapPgErr("failed to scan vehicle row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to read vehicle rows", err)
	}
	return views, nil
}

func (s *VehicleReadStore) FindAllTypes(ctx context.Context) ([]*queries.VehicleTypeView, error) {
	const query = `
		SELECT id, brand, model, category, seats, transmission
		FROM vehicle_types ORDER BY brand, model`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapPgErr("failed to list vehicle types", err)
	}
	defer rows.Close()

	views := []*queries.VehicleTypeView{}
	for rows.Next() {
		var view queries.VehicleTypeView
		err := rows.Scan(&view.ID, &view.Brand, &view.Model, &view.Category, &view.Seats, &view.Transmission)
		if err != nil {
			return nil, infra.WrapPgErr("failed to scan vehicle type row", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to read vehicle type rows", err)
	}
	return views, nil
}

func (s *VehicleReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	const query = `
		SELECT id, type_id, license_plate, daily_rate_cents, deposit_cents, status
		FROM vehicles WHERE id = $1`

	var snap shared.VehicleSnapshot
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.TypeID, &snap.LicensePlate,
		&snap.DailyRateCents, &snap.DepositCents, &snap.Status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "vehicle not found", err)
		}
		return nil, infra.WrapPgErr("failed to read vehicle snapshot", err)
	}
	return &snap, nil
}

func (s *VehicleReadStore) TypeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var found bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vehicle_types WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return false, infra.WrapPgErr("failed to check vehicle type", err)
	}
	return found, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicleView(row rowScanner) (*queries.VehicleView, error) {
	var (
		view                 queries.VehicleView
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.TypeID, &view.Brand, &view.Model, &view.Category,
		&view.LicensePlate, &view.Color, &view.DailyRateCents, &view.DepositCents, &view.Status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
