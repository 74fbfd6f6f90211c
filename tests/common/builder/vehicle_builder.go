//go:build unit || e2e

package builder

import (
	"time"

	"fleet-rental/internal/domain/vehicle"
	"fleet-rental/internal/usecase/queries"

	"github.com/google/uuid"
)

type VehicleBuilder struct {
	ID             uuid.UUID
	TypeID         uuid.UUID
	LicensePlate   string
	Color          string
	DailyRateCents int64
	DepositCents   int64
	Status         string
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		ID:             uuid.New(),
		TypeID:         uuid.New(),
		LicensePlate:   "B-RT 2041",
		Color:          "silver",
		DailyRateCents: 8900,
		DepositCents:   30000,
		Status:         "available",
	}
}

func (b *VehicleBuilder) With(mutate func(*VehicleBuilder)) *VehicleBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *VehicleBuilder) BuildDomain() (*vehicle.Vehicle, error) {
	status, err := vehicle.NewStatus(b.Status)
	if err != nil {
		return nil, err
	}
	v, err := vehicle.NewVehicle(b.TypeID, b.LicensePlate, b.Color, b.DailyRateCents, b.DepositCents)
	if err != nil {
		return nil, err
	}
	return vehicle.ReconstructVehicle(
		b.ID, b.TypeID,
		v.LicensePlate(), v.Color(),
		v.DailyRateCents(), v.DepositCents(),
		status,
		time.Now(), time.Now(),
	), nil
}

func (b *VehicleBuilder) BuildReadModel() *queries.VehicleView {
	now := time.Now()
	return &queries.VehicleView{
		ID:             b.ID,
		TypeID:         b.TypeID,
		Brand:          "Volkswagen",
		Model:          "Golf",
		Category:       "compact",
		LicensePlate:   b.LicensePlate,
		Color:          b.Color,
		DailyRateCents: b.DailyRateCents,
		DepositCents:   b.DepositCents,
		Status:         b.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Fluent builder methods
func (b *VehicleBuilder) WithID(id uuid.UUID) *VehicleBuilder {
	b.ID = id
	return b
}

func (b *VehicleBuilder) WithLicensePlate(plate string) *VehicleBuilder {
	b.LicensePlate = plate
	return b
}

func (b *VehicleBuilder) WithDailyRate(cents int64) *VehicleBuilder {
	b.DailyRateCents = cents
	return b
}

func (b *VehicleBuilder) WithDeposit(cents int64) *VehicleBuilder {
	b.DepositCents = cents
	return b
}

func (b *VehicleBuilder) AsUnavailable() *VehicleBuilder {
	b.Status = "unavailable"
	return b
}
