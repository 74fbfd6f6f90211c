package queries

import (
	"context"

	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context) ([]*BookingListItem, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*BookingListItem, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*BookingListItem, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindAll(ctx context.Context) ([]*BookingListItem, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*BookingListItem, error)
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context) ([]*BookingListItem, error) {
	return q.store.FindAll(ctx)
}

func (q *bookingQueriesImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*BookingListItem, error) {
	return q.store.FindByCustomerID(ctx, customerID)
}

func (q *bookingQueriesImpl) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*BookingListItem, error) {
	return q.store.FindByVehicleID(ctx, vehicleID)
}
