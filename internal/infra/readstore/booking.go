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

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewQuery = `
	SELECT b.id, b.vehicle_id, v.license_plate, b.customer_id, c.email,
		b.start_date, b.end_date, b.daily_rate_cents, b.deposit_cents,
		b.total_cents, b.charged_cents, b.status, b.payment_status,
		b.created_at, b.updated_at
	FROM bookings b
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN customers c ON c.id = b.customer_id`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.db.QueryRow(ctx, bookingViewQuery+` WHERE b.id = $1`, id)

	var (
		view               queries.BookingView
		startDate, endDate pgtype.Date
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.VehicleID, &view.LicensePlate, &view.CustomerID, &view.CustomerEmail,
		&startDate, &endDate, &view.DailyRateCents, &view.DepositCents,
		&view.TotalCents, &view.ChargedCents, &view.Status, &view.PaymentStatus,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapPgErr("failed to find booking", err)
	}
	view.StartDate = pgconv.DateFromPgtype(startDate)
	view.EndDate = pgconv.DateFromPgtype(endDate)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

const bookingListQuery = `
	SELECT b.id, b.vehicle_id, v.license_plate, b.customer_id,
		b.start_date, b.end_date, b.total_cents, b.status, b.payment_status, b.created_at
	FROM bookings b
	JOIN vehicles v ON v.id = b.vehicle_id`

func (s *BookingReadStore) FindAll(ctx context.Context) ([]*queries.BookingListItem, error) {
	return s.list(ctx, bookingListQuery+` ORDER BY b.created_at DESC`)
}

func (s *BookingReadStore) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*queries.BookingListItem, error) {
	return s.list(ctx, bookingListQuery+` WHERE b.customer_id = $1 ORDER BY b.created_at DESC`, customerID)
}

func (s *BookingReadStore) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*queries.BookingListItem, error) {
	return s.list(ctx, bookingListQuery+` WHERE b.vehicle_id = $1 ORDER BY b.created_at DESC`, vehicleID)
}

func (s *BookingReadStore) list(ctx context.Context, query string, args ...any) ([]*queries.BookingListItem, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := []*queries.BookingListItem{}
	for rows.Next() {
		var (
			item               queries.BookingListItem
			startDate, endDate pgtype.Date
			createdAt          pgtype.Timestamptz
		)
		err := rows.Scan(
			&item.ID, &item.VehicleID, &item.LicensePlate, &item.CustomerID,
			&startDate, &endDate, &item.TotalCents, &item.Status, &item.PaymentStatus, &createdAt,
		)
		if err != nil {
			return nil, infra.WrapPgErr("failed to scan booking row", err)
		}
		item.StartDate = pgconv.DateFromPgtype(startDate)
		item.EndDate = pgconv.DateFromPgtype(endDate)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to read booking rows", err)
	}
	return items, nil
}

// SnapshotByID reads without locking; commands use it to decide which
// rows to lock before re-reading under lock.
func (s *BookingReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	const query = `
		SELECT id, vehicle_id, customer_id, status, payment_status
		FROM bookings WHERE id = $1`

	var snap shared.BookingSnapshot
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.VehicleID, &snap.CustomerID, &snap.Status, &snap.PaymentStatus,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapPgErr("failed to read booking snapshot", err)
	}
	return &snap, nil
}
