//go:build unit || e2e

package builder

import (
	"time"

	"fleet-rental/internal/domain/booking"
	reqdto "fleet-rental/internal/handler/dto/request"
	"fleet-rental/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID             uuid.UUID
	VehicleID      uuid.UUID
	CustomerID     uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	DailyRateCents int64
	DepositCents   int64
	ChargedCents   int64
	Status         string
	PaymentStatus  string
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:             uuid.New(),
		VehicleID:      uuid.New(),
		CustomerID:     uuid.New(),
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 2),
		DailyRateCents: 8900,
		DepositCents:   30000,
		ChargedCents:   0,
		Status:         "pending",
		PaymentStatus:  "pending",
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	status, err := booking.NewStatus(b.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := booking.NewPaymentStatus(b.PaymentStatus)
	if err != nil {
		return nil, err
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() || b.EndDate.Before(b.StartDate) {
		return nil, booking.ErrInvalidDateRange
	}
	return booking.ReconstructBooking(
		b.ID, b.VehicleID, b.CustomerID,
		b.StartDate, b.EndDate,
		b.DailyRateCents, b.DepositCents,
		booking.TotalCostCents(b.DailyRateCents, b.StartDate, b.EndDate),
		b.ChargedCents,
		status, paymentStatus,
		time.Now(), time.Now(),
	), nil
}

func (b *BookingBuilder) BuildReadModel() *queries.BookingView {
	now := time.Now()
	return &queries.BookingView{
		ID:             b.ID,
		VehicleID:      b.VehicleID,
		LicensePlate:   "B-RT 2041",
		CustomerID:     b.CustomerID,
		CustomerEmail:  "renter@example.com",
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		DailyRateCents: b.DailyRateCents,
		DepositCents:   b.DepositCents,
		TotalCents:     booking.TotalCostCents(b.DailyRateCents, b.StartDate, b.EndDate),
		ChargedCents:   b.ChargedCents,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VehicleID:  b.VehicleID,
		CustomerID: b.CustomerID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithVehicle(v *VehicleBuilder) *BookingBuilder {
	b.VehicleID = v.ID
	b.DailyRateCents = v.DailyRateCents
	b.DepositCents = v.DepositCents
	return b
}

func (b *BookingBuilder) WithCustomer(c *CustomerBuilder) *BookingBuilder {
	b.CustomerID = c.ID
	return b
}

func (b *BookingBuilder) WithDates(start, end time.Time) *BookingBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithPaymentStatus(status string) *BookingBuilder {
	b.PaymentStatus = status
	return b
}

func (b *BookingBuilder) WithCharged(cents int64) *BookingBuilder {
	b.ChargedCents = cents
	return b
}

// AsConfirmed puts the builder into the state Confirm leaves behind:
// deposit charged, payment settled.
func (b *BookingBuilder) AsConfirmed() *BookingBuilder {
	b.Status = "confirmed"
	b.PaymentStatus = "successful"
	b.ChargedCents = b.DepositCents
	return b
}
