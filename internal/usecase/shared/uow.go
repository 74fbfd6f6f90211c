package shared

import (
	"context"
	"errors"
	"time"

	"fleet-rental/internal/domain/account"
	"fleet-rental/internal/domain/booking"
	"fleet-rental/internal/domain/customer"
	"fleet-rental/internal/domain/vehicle"

	"github.com/google/uuid"
)

// ErrStaleEntityRefs signals that a booking's vehicle/customer references
// changed between the unlocked pre-read and the locked re-read. The unit
// of work treats it as retryable, like a serialization failure.
var ErrStaleEntityRefs = errors.New("entity references changed during lock acquisition")

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic.
	// Lock waits are bounded; exhausted retries surface as a Busy error.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: unlocked reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Vehicles() VehicleRepository
	VehicleTypes() VehicleTypeRepository
	Customers() CustomerRepository
	Accounts() AccountRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	VehicleByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
	CustomerByID(ctx context.Context, id uuid.UUID) (*CustomerSnapshot, error)
	AccountByEmail(ctx context.Context, email string) (*AccountSnapshot, string, error)
	AccountByID(ctx context.Context, id uuid.UUID) (*AccountSnapshot, error)
	VehicleTypeExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// LockByID takes the row lock and returns the authoritative state.
	LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	HasActiveForVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error)
	HasActiveForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	Update(ctx context.Context, v *vehicle.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	LockByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	SaveStatus(ctx context.Context, v *vehicle.Vehicle) error
}

type VehicleTypeRepository interface {
	Create(ctx context.Context, t *vehicle.Type) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *customer.Customer) error
	Update(ctx context.Context, c *customer.Customer) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	LockByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
	SaveBalance(ctx context.Context, c *customer.Customer) error
}

type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	UpdateLastLogin(ctx context.Context, accountID uuid.UUID, at time.Time) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
