package commands

import (
	"context"
	"encoding/json"
	"errors"

	"fleet-rental/internal/domain/customer"
	reqdto "fleet-rental/internal/handler/dto/request"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/clock"
	"fleet-rental/internal/pkg/errs"
	"fleet-rental/internal/pkg/patch"
	"fleet-rental/internal/usecase/queries"
	"fleet-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCustomer = errs.New("invalid customer attributes")
	ErrCustomerInUse   = errs.New("customer has active bookings")
)

type CustomerCommands interface {
	Create(ctx context.Context, req reqdto.CreateCustomerRequest) (*queries.CustomerView, error)
	Update(ctx context.Context, customerID uuid.UUID, req reqdto.UpdateCustomerRequest) (*queries.CustomerView, error)
	Remove(ctx context.Context, customerID uuid.UUID) (bool, error)
}

type customerCommandsImpl struct {
	uow             shared.UnitOfWork
	customerQueries queries.CustomerQueries
	clock           clock.Clock
}

func NewCustomerCommands(uow shared.UnitOfWork, customerQueries queries.CustomerQueries, clk clock.Clock) CustomerCommands {
	return &customerCommandsImpl{uow: uow, customerQueries: customerQueries, clock: clk}
}

func (u *customerCommandsImpl) Create(ctx context.Context, req reqdto.CreateCustomerRequest) (*queries.CustomerView, error) {
	email, err := customer.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCustomer)
	}
	c, err := customer.NewCustomer(email, req.FirstName, req.LastName, req.BalanceCents)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCustomer)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Customers().Create(ctx, c); err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]any{
			"customer_id":    c.ID(),
			"customer_email": c.Email().Value(),
			"customer_name":  c.FullName(),
		})
		if err != nil {
			return err
		}
		return tx.Notifications().CreateJob(ctx, "email", "customer_welcome", payload, u.clock.Now())
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrInvalidCustomer)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return u.customerQueries.GetByID(ctx, c.ID())
}

func (u *customerCommandsImpl) Update(ctx context.Context, customerID uuid.UUID, req reqdto.UpdateCustomerRequest) (*queries.CustomerView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Customers().LockByID(ctx, customerID)
		if err != nil {
			return translateLockErr(err, ErrCustomerNotFound)
		}

		email := c.Email()
		if req.Email != nil {
			email, err = customer.NewEmail(*req.Email)
			if err != nil {
				return errs.Mark(err, ErrInvalidCustomer)
			}
		}
		err = c.UpdateProfile(
			email,
			patch.Coalesce(req.FirstName, c.FirstName()),
			patch.Coalesce(req.LastName, c.LastName()),
		)
		if err != nil {
			return errs.Mark(err, ErrInvalidCustomer)
		}
		if req.Verified != nil && *req.Verified {
			c.MarkVerified()
		}
		return tx.Customers().Update(ctx, c)
	})
	if err != nil {
		return nil, translateCustomerErr(err)
	}
	return u.customerQueries.GetByID(ctx, customerID)
}

func (u *customerCommandsImpl) Remove(ctx context.Context, customerID uuid.UUID) (bool, error) {
	removed := false
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Customers().LockByID(ctx, customerID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return translateLockErr(err, ErrCustomerNotFound)
		}
		active, err := tx.Bookings().HasActiveForCustomer(ctx, customerID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if active {
			return ErrCustomerInUse
		}
		removed, err = tx.Customers().Delete(ctx, customerID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return false, translateCustomerErr(err)
	}
	return removed, nil
}

func translateCustomerErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrCustomerInUse),
		errors.Is(err, ErrInvalidCustomer),
		errors.Is(err, ErrBusy):
		return err
	case infra.IsKind(err, infra.KindLockNotAvailable):
		return errs.Mark(err, ErrBusy)
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}
