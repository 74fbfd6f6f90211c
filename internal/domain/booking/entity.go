package booking

import (
	"time"

	"fleet-rental/internal/domain/customer"
	"fleet-rental/internal/domain/ledger"
	"fleet-rental/internal/domain/vehicle"

	"github.com/google/uuid"
)

// Booking links one customer to one vehicle for a date range. The daily
// rate and deposit are copied from the vehicle at creation time and
// frozen; chargedCents tracks how much has actually been debited so far,
// which is exactly what any later refund returns.
type Booking struct {
	id             uuid.UUID
	vehicleID      uuid.UUID
	customerID     uuid.UUID
	startDate      time.Time
	endDate        time.Time
	dailyRateCents int64
	depositCents   int64
	totalCents     int64
	chargedCents   int64
	status         Status
	paymentStatus  PaymentStatus
	createdAt      time.Time
	updatedAt      time.Time
}

func NewBooking(v *vehicle.Vehicle, customerID uuid.UUID, startDate, endDate time.Time) (*Booking, error) {
	if startDate.IsZero() || endDate.IsZero() || endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}
	return &Booking{
		id:             uuid.New(),
		vehicleID:      v.ID(),
		customerID:     customerID,
		startDate:      truncateToDate(startDate),
		endDate:        truncateToDate(endDate),
		dailyRateCents: v.DailyRateCents(),
		depositCents:   v.DepositCents(),
		totalCents:     TotalCostCents(v.DailyRateCents(), startDate, endDate),
		status:         StatusPending,
		paymentStatus:  PaymentPending,
	}, nil
}

func ReconstructBooking(
	id, vehicleID, customerID uuid.UUID,
	startDate, endDate time.Time,
	dailyRateCents, depositCents, totalCents, chargedCents int64,
	status Status,
	paymentStatus PaymentStatus,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		vehicleID:      vehicleID,
		customerID:     customerID,
		startDate:      startDate,
		endDate:        endDate,
		dailyRateCents: dailyRateCents,
		depositCents:   depositCents,
		totalCents:     totalCents,
		chargedCents:   chargedCents,
		status:         status,
		paymentStatus:  paymentStatus,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) VehicleID() uuid.UUID         { return b.vehicleID }
func (b *Booking) CustomerID() uuid.UUID        { return b.customerID }
func (b *Booking) StartDate() time.Time         { return b.startDate }
func (b *Booking) EndDate() time.Time           { return b.endDate }
func (b *Booking) DailyRateCents() int64        { return b.dailyRateCents }
func (b *Booking) DepositCents() int64          { return b.depositCents }
func (b *Booking) TotalCents() int64            { return b.totalCents }
func (b *Booking) ChargedCents() int64          { return b.chargedCents }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// Confirm charges the deposit, takes the vehicle, and moves the booking
// to confirmed. Any failed precondition leaves all three entities as
// they were. A payment that already failed or settled cannot be
// re-entered through confirm.
func (b *Booking) Confirm(led *ledger.Ledger, v *vehicle.Vehicle, c *customer.Customer) error {
	if !CanTransition(b.status, StatusConfirmed) {
		return ErrNotPending
	}
	if b.paymentStatus != PaymentPending {
		return ErrAlreadySettled
	}
	if err := led.Occupy(v); err != nil {
		return err
	}
	if err := led.TransferBalance(c, -b.depositCents); err != nil {
		led.SetVehicleAvailability(v, true)
		return err
	}
	b.chargedCents += b.depositCents
	b.status = StatusConfirmed
	b.paymentStatus = PaymentSuccessful
	return nil
}

// Pay is the alternate entry into confirmed: deposit plus the full total
// upfront. This is the one transition that records a failure state: an
// insufficient balance marks the payment failed before returning the
// error, with no money moved.
func (b *Booking) Pay(led *ledger.Ledger, v *vehicle.Vehicle, c *customer.Customer) error {
	if b.paymentStatus != PaymentPending {
		return ErrAlreadySettled
	}
	if !CanTransition(b.status, StatusConfirmed) {
		return ErrNotPending
	}
	if err := led.Occupy(v); err != nil {
		return err
	}
	amount := b.depositCents + b.totalCents
	if err := led.TransferBalance(c, -amount); err != nil {
		led.SetVehicleAvailability(v, true)
		b.paymentStatus = PaymentFailed
		return err
	}
	b.chargedCents += amount
	b.status = StatusConfirmed
	b.paymentStatus = PaymentSuccessful
	return nil
}

// Complete settles the outstanding part of the total (zero when the
// booking was paid in full via Pay) and releases the vehicle.
func (b *Booking) Complete(led *ledger.Ledger, v *vehicle.Vehicle, c *customer.Customer) error {
	if !CanTransition(b.status, StatusCompleted) {
		return ErrNotConfirmed
	}
	remaining := b.totalCents - b.chargedCents
	if remaining > 0 {
		if err := led.TransferBalance(c, -remaining); err != nil {
			return err
		}
		b.chargedCents += remaining
	}
	led.SetVehicleAvailability(v, true)
	b.status = StatusCompleted
	return nil
}

// Cancel refunds everything charged so far and releases the vehicle if
// this booking held it.
func (b *Booking) Cancel(led *ledger.Ledger, v *vehicle.Vehicle, c *customer.Customer) error {
	if !CanTransition(b.status, StatusCancelled) {
		return ErrAlreadyTerminal
	}
	if b.status == StatusConfirmed {
		led.SetVehicleAvailability(v, true)
	}
	if b.chargedCents > 0 {
		if err := led.TransferBalance(c, b.chargedCents); err != nil {
			return err
		}
		b.chargedCents = 0
	}
	b.status = StatusCancelled
	b.paymentStatus = PaymentRefunded
	return nil
}

// Reject declines the booking. A successful payment is refunded in full;
// an unsettled payment status is left as it stands.
func (b *Booking) Reject(led *ledger.Ledger, v *vehicle.Vehicle, c *customer.Customer) error {
	if !CanTransition(b.status, StatusRejected) {
		return ErrAlreadyTerminal
	}
	if b.status == StatusConfirmed {
		led.SetVehicleAvailability(v, true)
	}
	if b.paymentStatus == PaymentSuccessful && b.chargedCents > 0 {
		if err := led.TransferBalance(c, b.chargedCents); err != nil {
			return err
		}
		b.chargedCents = 0
		b.paymentStatus = PaymentRefunded
	}
	b.status = StatusRejected
	return nil
}

// Release unwinds the booking's holds before the record is deleted:
// whatever was charged is refunded and a held vehicle goes back to
// available.
func (b *Booking) Release(led *ledger.Ledger, v *vehicle.Vehicle, c *customer.Customer) error {
	if b.status == StatusConfirmed {
		led.SetVehicleAvailability(v, true)
	}
	if b.chargedCents > 0 {
		if err := led.TransferBalance(c, b.chargedCents); err != nil {
			return err
		}
		b.chargedCents = 0
	}
	return nil
}

// ReassignVehicle moves the booking onto newV. The frozen rate and
// deposit are kept; only a confirmed booking actually swaps the
// availability flags.
func (b *Booking) ReassignVehicle(led *ledger.Ledger, oldV, newV *vehicle.Vehicle) error {
	if b.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if !newV.IsAvailable() {
		return ledger.ErrVehicleUnavailable
	}
	if b.status == StatusConfirmed {
		led.SetVehicleAvailability(newV, false)
		led.SetVehicleAvailability(oldV, true)
	}
	b.vehicleID = newV.ID()
	return nil
}

// ReassignCustomer moves the booking's charges onto newC. The new
// customer is charged before the old one is refunded, so an insufficient
// balance aborts with nothing applied.
func (b *Booking) ReassignCustomer(led *ledger.Ledger, oldC, newC *customer.Customer) error {
	if b.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if b.chargedCents > 0 {
		if err := led.TransferBalance(newC, -b.chargedCents); err != nil {
			return err
		}
		if err := led.TransferBalance(oldC, b.chargedCents); err != nil {
			return err
		}
	}
	b.customerID = newC.ID()
	return nil
}

// Reschedule changes the date range of a pending booking and recomputes
// the total from the frozen daily rate.
func (b *Booking) Reschedule(startDate, endDate time.Time) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	if startDate.IsZero() || endDate.IsZero() || endDate.Before(startDate) {
		return ErrInvalidDateRange
	}
	b.startDate = truncateToDate(startDate)
	b.endDate = truncateToDate(endDate)
	b.totalCents = TotalCostCents(b.dailyRateCents, startDate, endDate)
	return nil
}
