package commands

import (
	"context"
	"errors"

	"fleet-rental/internal/domain/vehicle"
	reqdto "fleet-rental/internal/handler/dto/request"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/errs"
	"fleet-rental/internal/pkg/patch"
	"fleet-rental/internal/usecase/queries"
	"fleet-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrVehicleTypeNotFound = errs.New("vehicle type not found")
	ErrVehicleInUse        = errs.New("vehicle has active bookings")
	ErrInvalidVehicle      = errs.New("invalid vehicle attributes")
)

type VehicleCommands interface {
	CreateType(ctx context.Context, req reqdto.CreateVehicleTypeRequest) (uuid.UUID, error)
	Create(ctx context.Context, req reqdto.CreateVehicleRequest) (*queries.VehicleView, error)
	Update(ctx context.Context, vehicleID uuid.UUID, req reqdto.UpdateVehicleRequest) (*queries.VehicleView, error)
	Remove(ctx context.Context, vehicleID uuid.UUID) (bool, error)
}

type vehicleCommandsImpl struct {
	uow            shared.UnitOfWork
	vehicleQueries queries.VehicleQueries
}

func NewVehicleCommands(uow shared.UnitOfWork, vehicleQueries queries.VehicleQueries) VehicleCommands {
	return &vehicleCommandsImpl{uow: uow, vehicleQueries: vehicleQueries}
}

func (u *vehicleCommandsImpl) CreateType(ctx context.Context, req reqdto.CreateVehicleTypeRequest) (uuid.UUID, error) {
	t := vehicle.NewType(req.Brand, req.Model, req.Category, req.Seats, req.Transmission)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.VehicleTypes().Create(ctx, t)
	})
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return t.ID(), nil
}

func (u *vehicleCommandsImpl) Create(ctx context.Context, req reqdto.CreateVehicleRequest) (*queries.VehicleView, error) {
	exists, err := u.uow.CommandReads().VehicleTypeExists(ctx, req.TypeID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !exists {
		return nil, ErrVehicleTypeNotFound
	}

	v, err := vehicle.NewVehicle(req.TypeID, req.LicensePlate, req.Color, req.DailyRateCents, req.DepositCents)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidVehicle)
	}
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Vehicles().Create(ctx, v)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return u.vehicleQueries.GetByID(ctx, v.ID())
}

func (u *vehicleCommandsImpl) Update(ctx context.Context, vehicleID uuid.UUID, req reqdto.UpdateVehicleRequest) (*queries.VehicleView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := tx.Vehicles().LockByID(ctx, vehicleID)
		if err != nil {
			return translateLockErr(err, ErrVehicleNotFound)
		}
		err = v.UpdateDetails(
			patch.Coalesce(req.LicensePlate, v.LicensePlate()),
			patch.Coalesce(req.Color, v.Color()),
			patch.Coalesce(req.DailyRateCents, v.DailyRateCents()),
			patch.Coalesce(req.DepositCents, v.DepositCents()),
		)
		if err != nil {
			return errs.Mark(err, ErrInvalidVehicle)
		}
		return tx.Vehicles().Update(ctx, v)
	})
	if err != nil {
		return nil, translateVehicleErr(err)
	}
	return u.vehicleQueries.GetByID(ctx, vehicleID)
}

func (u *vehicleCommandsImpl) Remove(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	removed := false
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Vehicles().LockByID(ctx, vehicleID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return translateLockErr(err, ErrVehicleNotFound)
		}
		active, err := tx.Bookings().HasActiveForVehicle(ctx, vehicleID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if active {
			return ErrVehicleInUse
		}
		removed, err = tx.Vehicles().Delete(ctx, vehicleID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return false, translateVehicleErr(err)
	}
	return removed, nil
}

func translateVehicleErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrVehicleNotFound),
		errors.Is(err, ErrVehicleInUse),
		errors.Is(err, ErrInvalidVehicle),
		errors.Is(err, ErrBusy):
		return err
	case infra.IsKind(err, infra.KindLockNotAvailable):
		return errs.Mark(err, ErrBusy)
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}
