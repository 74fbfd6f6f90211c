package queries

import (
	"context"

	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrVehicleNotFound     = errs.New("vehicle not found")
	ErrVehicleTypeNotFound = errs.New("vehicle type not found")
)

type VehicleQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
	List(ctx context.Context) ([]*VehicleView, error)
	ListTypes(ctx context.Context) ([]*VehicleTypeView, error)
}

type VehicleReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
	FindAll(ctx context.Context) ([]*VehicleView, error)
	FindAllTypes(ctx context.Context) ([]*VehicleTypeView, error)
}

type vehicleQueriesImpl struct {
	store VehicleReadStore
}

func NewVehicleQueries(store VehicleReadStore) VehicleQueries {
	return &vehicleQueriesImpl{store: store}
}

func (q *vehicleQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *vehicleQueriesImpl) List(ctx context.Context) ([]*VehicleView, error) {
	return q.store.FindAll(ctx)
}

func (q *vehicleQueriesImpl) ListTypes(ctx context.Context) ([]*VehicleTypeView, error) {
	return q.store.FindAllTypes(ctx)
}
