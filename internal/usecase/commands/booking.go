package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fleet-rental/internal/domain/booking"
	"fleet-rental/internal/domain/customer"
	"fleet-rental/internal/domain/ledger"
	"fleet-rental/internal/domain/vehicle"
	reqdto "fleet-rental/internal/handler/dto/request"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/clock"
	"fleet-rental/internal/pkg/errs"
	"fleet-rental/internal/usecase/queries"
	"fleet-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrVehicleNotFound         = errs.New("vehicle not found")
	ErrCustomerNotFound        = errs.New("customer not found")
	ErrInvalidDateRange        = errs.New("invalid date range")
	ErrInvalidState            = errs.New("operation not valid for booking state")
	ErrVehicleUnavailable      = errs.New("vehicle not available")
	ErrInsufficientFunds       = errs.New("insufficient balance")
	ErrBusy                    = errs.New("entities locked by a concurrent operation")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type BookingCommands interface {
	Create(ctx context.Context, req reqdto.CreateBookingRequest) (*queries.BookingView, error)
	Confirm(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error)
	Pay(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error)
	Complete(ctx context.Context, bookingID uuid.UUID) error
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	Reject(ctx context.Context, bookingID uuid.UUID, reason string) (*queries.BookingView, error)
	Update(ctx context.Context, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error)
	Remove(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	led            *ledger.Ledger
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	led *ledger.Ledger,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		led:            led,
		bookingQueries: bookingQueries,
		clock:          clk,
	}
}

// lockedSet is a booking plus the rows it may mutate, all locked for the
// duration of the transaction. Locks are always taken customer first,
// then vehicle, then booking, so concurrent operations over overlapping
// entity sets cannot deadlock.
type lockedSet struct {
	b *booking.Booking
	v *vehicle.Vehicle
	c *customer.Customer
}

func (u *bookingCommandsImpl) lockBookingSet(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*lockedSet, error) {
	snap, err := tx.Reads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c, err := tx.Customers().LockByID(ctx, snap.CustomerID)
	if err != nil {
		return nil, translateLockErr(err, ErrCustomerNotFound)
	}
	v, err := tx.Vehicles().LockByID(ctx, snap.VehicleID)
	if err != nil {
		return nil, translateLockErr(err, ErrVehicleNotFound)
	}
	b, err := tx.Bookings().LockByID(ctx, bookingID)
	if err != nil {
		return nil, translateLockErr(err, ErrBookingNotFound)
	}

	// A concurrent reassignment may have moved the booking between the
	// unlocked pre-read and the locked one; retry from scratch.
	if b.VehicleID() != v.ID() || b.CustomerID() != c.ID() {
		return nil, shared.ErrStaleEntityRefs
	}

	return &lockedSet{b: b, v: v, c: c}, nil
}

func (u *bookingCommandsImpl) persistSet(ctx context.Context, tx shared.Tx, set *lockedSet) error {
	if err := tx.Bookings().Update(ctx, set.b); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Vehicles().SaveStatus(ctx, set.v); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Customers().SaveBalance(ctx, set.c); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *bookingCommandsImpl) Create(ctx context.Context, req reqdto.CreateBookingRequest) (*queries.BookingView, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var bookingID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Customers().LockByID(ctx, req.CustomerID)
		if err != nil {
			return translateLockErr(err, ErrCustomerNotFound)
		}
		v, err := tx.Vehicles().LockByID(ctx, req.VehicleID)
		if err != nil {
			return translateLockErr(err, ErrVehicleNotFound)
		}
		if !v.IsAvailable() {
			return ErrVehicleUnavailable
		}

		// No money moves and no availability flips at creation time;
		// the deposit is only captured at confirm/pay.
		b, err := booking.NewBooking(v, c.ID(), req.StartDate, req.EndDate)
		if err != nil {
			return errs.Mark(err, ErrInvalidDateRange)
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		bookingID = b.ID()

		return u.enqueueNotification(ctx, tx, topicBookingCreated, b, c)
	})
	if err != nil {
		return nil, u.translate(err)
	}

	return u.bookingQueries.GetByID(ctx, bookingID)
}

func (u *bookingCommandsImpl) Confirm(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		set, err := u.lockBookingSet(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := set.b.Confirm(u.led, set.v, set.c); err != nil {
			return err
		}
		if err := u.persistSet(ctx, tx, set); err != nil {
			return err
		}
		return u.enqueueNotification(ctx, tx, topicBookingConfirmed, set.b, set.c)
	})
	if err != nil {
		return nil, u.translate(err)
	}
	return u.bookingQueries.GetByID(ctx, bookingID)
}

func (u *bookingCommandsImpl) Pay(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error) {
	var insufficientFunds bool

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		set, err := u.lockBookingSet(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		payErr := set.b.Pay(u.led, set.v, set.c)
		if errors.Is(payErr, ledger.ErrInsufficientFunds) {
			// The failed payment status is the one state change that
			// survives a precondition failure; commit it alone.
			insufficientFunds = true
			if err := tx.Bookings().Update(ctx, set.b); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return nil
		}
		if payErr != nil {
			return payErr
		}
		if err := u.persistSet(ctx, tx, set); err != nil {
			return err
		}
		return u.enqueueNotification(ctx, tx, topicBookingConfirmed, set.b, set.c)
	})
	if err != nil {
		return nil, u.translate(err)
	}
	if insufficientFunds {
		return nil, ErrInsufficientFunds
	}
	return u.bookingQueries.GetByID(ctx, bookingID)
}

func (u *bookingCommandsImpl) Complete(ctx context.Context, bookingID uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		set, err := u.lockBookingSet(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := set.b.Complete(u.led, set.v, set.c); err != nil {
			return err
		}
		if err := u.persistSet(ctx, tx, set); err != nil {
			return err
		}
		return u.enqueueNotification(ctx, tx, topicBookingCompleted, set.b, set.c)
	})
	return u.translate(err)
}

func (u *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		set, err := u.lockBookingSet(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := set.b.Cancel(u.led, set.v, set.c); err != nil {
			return err
		}
		if err := u.persistSet(ctx, tx, set); err != nil {
			return err
		}
		return u.enqueueNotification(ctx, tx, topicBookingCancelled, set.b, set.c)
	})
	return u.translate(err)
}

func (u *bookingCommandsImpl) Reject(ctx context.Context, bookingID uuid.UUID, reason string) (*queries.BookingView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		set, err := u.lockBookingSet(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := set.b.Reject(u.led, set.v, set.c); err != nil {
			return err
		}
		if err := u.persistSet(ctx, tx, set); err != nil {
			return err
		}
		return u.enqueueRejection(ctx, tx, set.b, set.c, reason)
	})
	if err != nil {
		return nil, u.translate(err)
	}
	return u.bookingQueries.GetByID(ctx, bookingID)
}

func (u *bookingCommandsImpl) Update(ctx context.Context, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		customerIDs := orderedIDs(snap.CustomerID, req.CustomerID)
		vehicleIDs := orderedIDs(snap.VehicleID, req.VehicleID)

		customers := make(map[uuid.UUID]*customer.Customer, len(customerIDs))
		for _, id := range customerIDs {
			c, err := tx.Customers().LockByID(ctx, id)
			if err != nil {
				return translateLockErr(err, ErrCustomerNotFound)
			}
			customers[id] = c
		}
		vehicles := make(map[uuid.UUID]*vehicle.Vehicle, len(vehicleIDs))
		for _, id := range vehicleIDs {
			v, err := tx.Vehicles().LockByID(ctx, id)
			if err != nil {
				return translateLockErr(err, ErrVehicleNotFound)
			}
			vehicles[id] = v
		}

		b, err := tx.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return translateLockErr(err, ErrBookingNotFound)
		}
		if customers[b.CustomerID()] == nil || vehicles[b.VehicleID()] == nil {
			return shared.ErrStaleEntityRefs
		}

		oldV := vehicles[b.VehicleID()]
		oldC := customers[b.CustomerID()]

		if req.VehicleID != nil && *req.VehicleID != b.VehicleID() {
			if err := b.ReassignVehicle(u.led, oldV, vehicles[*req.VehicleID]); err != nil {
				return err
			}
			if err := tx.Vehicles().SaveStatus(ctx, oldV); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if err := tx.Vehicles().SaveStatus(ctx, vehicles[*req.VehicleID]); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if req.CustomerID != nil && *req.CustomerID != b.CustomerID() {
			if err := b.ReassignCustomer(u.led, oldC, customers[*req.CustomerID]); err != nil {
				return err
			}
			if err := tx.Customers().SaveBalance(ctx, oldC); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if err := tx.Customers().SaveBalance(ctx, customers[*req.CustomerID]); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if req.StartDate != nil || req.EndDate != nil {
			start := b.StartDate()
			end := b.EndDate()
			if req.StartDate != nil {
				start = *req.StartDate
			}
			if req.EndDate != nil {
				end = *req.EndDate
			}
			if err := b.Reschedule(start, end); err != nil {
				return err
			}
		}

		return tx.Bookings().Update(ctx, b)
	})
	if err != nil {
		return nil, u.translate(err)
	}
	return u.bookingQueries.GetByID(ctx, bookingID)
}

func (u *bookingCommandsImpl) Remove(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	removed := false
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		set, err := u.lockBookingSet(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, ErrBookingNotFound) {
				return nil
			}
			return err
		}
		if err := set.b.Release(u.led, set.v, set.c); err != nil {
			return err
		}
		if err := tx.Vehicles().SaveStatus(ctx, set.v); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Customers().SaveBalance(ctx, set.c); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		removed, err = tx.Bookings().Delete(ctx, bookingID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return false, u.translate(err)
	}
	return removed, nil
}

const (
	topicBookingCreated   = "booking_created"
	topicBookingConfirmed = "booking_confirmed"
	topicBookingCompleted = "booking_completed"
	topicBookingCancelled = "booking_cancelled"
	topicBookingRejected  = "booking_rejected"
)

func (u *bookingCommandsImpl) enqueueNotification(ctx context.Context, tx shared.Tx, topic string, b *booking.Booking, c *customer.Customer) error {
	payload, err := json.Marshal(notificationPayload(b, c, ""))
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Notifications().CreateJob(ctx, "email", topic, payload, u.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *bookingCommandsImpl) enqueueRejection(ctx context.Context, tx shared.Tx, b *booking.Booking, c *customer.Customer, reason string) error {
	payload, err := json.Marshal(notificationPayload(b, c, reason))
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Notifications().CreateJob(ctx, "email", topicBookingRejected, payload, u.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func notificationPayload(b *booking.Booking, c *customer.Customer, reason string) map[string]any {
	payload := map[string]any{
		"booking_id":     b.ID(),
		"customer_email": c.Email().Value(),
		"customer_name":  c.FullName(),
		"start_date":     b.StartDate().Format(time.DateOnly),
		"end_date":       b.EndDate().Format(time.DateOnly),
		"deposit_cents":  b.DepositCents(),
		"total_cents":    b.TotalCents(),
	}
	if reason != "" {
		payload["reason"] = reason
	}
	return payload
}

// translate maps domain and infrastructure errors onto the command
// sentinels the transport layer switches on.
func (u *bookingCommandsImpl) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrVehicleNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrVehicleUnavailable),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrBusy):
		return err
	case errors.Is(err, ledger.ErrInsufficientFunds),
		infra.IsKind(err, infra.KindInsufficientFunds):
		return errs.Mark(err, ErrInsufficientFunds)
	case errors.Is(err, ledger.ErrVehicleUnavailable):
		return errs.Mark(err, ErrVehicleUnavailable)
	case errors.Is(err, booking.ErrInvalidDateRange):
		return errs.Mark(err, ErrInvalidDateRange)
	case errors.Is(err, booking.ErrNotPending),
		errors.Is(err, booking.ErrNotConfirmed),
		errors.Is(err, booking.ErrAlreadyTerminal),
		errors.Is(err, booking.ErrAlreadySettled),
		errors.Is(err, booking.ErrInvalidTransition):
		return errs.Mark(err, ErrInvalidState)
	case infra.IsKind(err, infra.KindLockNotAvailable),
		errors.Is(err, shared.ErrStaleEntityRefs):
		return errs.Mark(err, ErrBusy)
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}

func translateLockErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return notFound
	}
	if infra.IsKind(err, infra.KindLockNotAvailable) {
		return errs.Mark(err, ErrBusy)
	}
	return err
}

// orderedIDs returns the distinct, ascending set of ids to lock.
func orderedIDs(current uuid.UUID, requested *uuid.UUID) []uuid.UUID {
	ids := []uuid.UUID{current}
	if requested != nil && *requested != current {
		ids = append(ids, *requested)
	}
	if len(ids) == 2 && compareUUID(ids[1], ids[0]) < 0 {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return ids
}

func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
