package vehicle

import (
	"time"

	"github.com/google/uuid"
)

// Type holds the immutable descriptive attributes shared by vehicles of
// the same model. It never participates in workflow decisions.
type Type struct {
	id           uuid.UUID
	brand        string
	model        string
	category     string
	seats        int32
	transmission string
}

func NewType(brand, model, category string, seats int32, transmission string) *Type {
	return &Type{
		id:           uuid.New(),
		brand:        brand,
		model:        model,
		category:     category,
		seats:        seats,
		transmission: transmission,
	}
}

func ReconstructType(id uuid.UUID, brand, model, category string, seats int32, transmission string) *Type {
	return &Type{
		id:           id,
		brand:        brand,
		model:        model,
		category:     category,
		seats:        seats,
		transmission: transmission,
	}
}

func (t *Type) ID() uuid.UUID        { return t.id }
func (t *Type) Brand() string        { return t.brand }
func (t *Type) Model() string        { return t.model }
func (t *Type) Category() string     { return t.category }
func (t *Type) Seats() int32         { return t.seats }
func (t *Type) Transmission() string { return t.transmission }

// Vehicle is a rentable unit of the fleet. Its availability flag must
// track booking state: unavailable exactly while one confirmed booking
// holds it.
type Vehicle struct {
	id             uuid.UUID
	typeID         uuid.UUID
	licensePlate   string
	color          string
	dailyRateCents int64
	depositCents   int64
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func NewVehicle(typeID uuid.UUID, licensePlate, color string, dailyRateCents, depositCents int64) (*Vehicle, error) {
	if licensePlate == "" {
		return nil, ErrEmptyPlate
	}
	if dailyRateCents <= 0 {
		return nil, ErrInvalidDailyRate
	}
	if depositCents < 0 {
		return nil, ErrInvalidDeposit
	}
	return &Vehicle{
		id:             uuid.New(),
		typeID:         typeID,
		licensePlate:   licensePlate,
		color:          color,
		dailyRateCents: dailyRateCents,
		depositCents:   depositCents,
		status:         StatusAvailable,
	}, nil
}

func ReconstructVehicle(
	id, typeID uuid.UUID,
	licensePlate, color string,
	dailyRateCents, depositCents int64,
	status Status,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:             id,
		typeID:         typeID,
		licensePlate:   licensePlate,
		color:          color,
		dailyRateCents: dailyRateCents,
		depositCents:   depositCents,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (v *Vehicle) ID() uuid.UUID         { return v.id }
func (v *Vehicle) TypeID() uuid.UUID     { return v.typeID }
func (v *Vehicle) LicensePlate() string  { return v.licensePlate }
func (v *Vehicle) Color() string         { return v.color }
func (v *Vehicle) DailyRateCents() int64 { return v.dailyRateCents }
func (v *Vehicle) DepositCents() int64   { return v.depositCents }
func (v *Vehicle) Status() Status        { return v.status }
func (v *Vehicle) CreatedAt() time.Time  { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time  { return v.updatedAt }

func (v *Vehicle) IsAvailable() bool {
	return v.status == StatusAvailable
}

// UpdateDetails changes the descriptive and pricing attributes. Rates
// already frozen into bookings are unaffected.
func (v *Vehicle) UpdateDetails(licensePlate, color string, dailyRateCents, depositCents int64) error {
	if licensePlate == "" {
		return ErrEmptyPlate
	}
	if dailyRateCents <= 0 {
		return ErrInvalidDailyRate
	}
	if depositCents < 0 {
		return ErrInvalidDeposit
	}
	v.licensePlate = licensePlate
	v.color = color
	v.dailyRateCents = dailyRateCents
	v.depositCents = depositCents
	return nil
}

// ApplyAvailability flips the availability flag. Only the ledger calls
// this, paired with a booking transition.
func (v *Vehicle) ApplyAvailability(available bool) {
	if available {
		v.status = StatusAvailable
	} else {
		v.status = StatusUnavailable
	}
}
