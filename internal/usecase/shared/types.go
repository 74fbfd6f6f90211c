package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads. These are deliberately flat:
// precondition checks re-run against locked rows, so a snapshot only has
// to be good enough to know which rows to lock.

type BookingSnapshot struct {
	ID            uuid.UUID
	VehicleID     uuid.UUID
	CustomerID    uuid.UUID
	Status        string
	PaymentStatus string
}

type VehicleSnapshot struct {
	ID             uuid.UUID
	TypeID         uuid.UUID
	LicensePlate   string
	DailyRateCents int64
	DepositCents   int64
	Status         string
}

type CustomerSnapshot struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	BalanceCents int64
	Verified     bool
}

type AccountSnapshot struct {
	ID        uuid.UUID
	Email     string
	Role      string
	IsActive  bool
	LastLogin *time.Time
}
