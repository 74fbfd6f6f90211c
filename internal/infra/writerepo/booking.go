package writerepo

import (
	"context"

	"fleet-rental/internal/domain/booking"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/infra/db"
	"fleet-rental/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const bookingColumns = `id, vehicle_id, customer_id, start_date, end_date,
	daily_rate_cents, deposit_cents, total_cents, charged_cents,
	status, payment_status, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, vehicle_id, customer_id, start_date, end_date,
			daily_rate_cents, deposit_cents, total_cents, charged_cents,
			status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		b.ID(), b.VehicleID(), b.CustomerID(),
		pgconv.DateFromTime(b.StartDate()), pgconv.DateFromTime(b.EndDate()),
		b.DailyRateCents(), b.DepositCents(), b.TotalCents(), b.ChargedCents(),
		b.Status().String(), b.PaymentStatus().String(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings SET
			vehicle_id = $2, customer_id = $3, start_date = $4, end_date = $5,
			total_cents = $6, charged_cents = $7,
			status = $8, payment_status = $9, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		b.ID(), b.VehicleID(), b.CustomerID(),
		pgconv.DateFromTime(b.StartDate()), pgconv.DateFromTime(b.EndDate()),
		b.TotalCents(), b.ChargedCents(),
		b.Status().String(), b.PaymentStatus().String(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapPgErr("failed to delete booking", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookingRepository) LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	row := r.db.QueryRow(ctx, query, id)
	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapPgErr("failed to lock booking", err)
	}
	return b, nil
}

func (r *BookingRepository) HasActiveForVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE vehicle_id = $1 AND status IN ('pending', 'confirmed')
		)`
	return r.exists(ctx, query, vehicleID)
}

func (r *BookingRepository) HasActiveForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE customer_id = $1 AND status IN ('pending', 'confirmed')
		)`
	return r.exists(ctx, query, customerID)
}

func (r *BookingRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := r.db.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, infra.WrapPgErr("failed to check active bookings", err)
	}
	return found, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, vehicleID, customerID                              uuid.UUID
		startDate, endDate                                     pgtype.Date
		dailyRateCents, depositCents, totalCents, chargedCents int64
		status, paymentStatus                                  string
		createdAt, updatedAt                                   pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &vehicleID, &customerID, &startDate, &endDate,
		&dailyRateCents, &depositCents, &totalCents, &chargedCents,
		&status, &paymentStatus, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		id, vehicleID, customerID,
		pgconv.DateFromPgtype(startDate), pgconv.DateFromPgtype(endDate),
		dailyRateCents, depositCents, totalCents, chargedCents,
		booking.Status(status), booking.PaymentStatus(paymentStatus),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}
