// Package ledger owns the only two money/inventory primitives booking
// transitions may use. Balance and availability changes always travel
// through here so they stay paired with the status write that caused
// them, and so a failed precondition leaves every entity untouched.
package ledger

import (
	"errors"

	"fleet-rental/internal/domain/customer"
	"fleet-rental/internal/domain/vehicle"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrVehicleUnavailable = errors.New("vehicle not available")
)

type Ledger struct{}

func New() *Ledger {
	return &Ledger{}
}

// TransferBalance moves amountCents into (positive, refund) or out of
// (negative, charge) the customer's balance. A charge that would drive
// the balance negative fails with ErrInsufficientFunds and no mutation.
func (l *Ledger) TransferBalance(c *customer.Customer, amountCents int64) error {
	if amountCents == 0 {
		return nil
	}
	if err := c.ApplyTransfer(amountCents); err != nil {
		return ErrInsufficientFunds
	}
	return nil
}

// SetVehicleAvailability flips the availability flag in lockstep with a
// booking transition.
func (l *Ledger) SetVehicleAvailability(v *vehicle.Vehicle, available bool) {
	v.ApplyAvailability(available)
}

// Occupy marks the vehicle held by a booking, failing when it is not
// free to take.
func (l *Ledger) Occupy(v *vehicle.Vehicle) error {
	if !v.IsAvailable() {
		return ErrVehicleUnavailable
	}
	v.ApplyAvailability(false)
	return nil
}
