package request

import (
	"github.com/google/uuid"
)

type CreateVehicleTypeRequest struct {
	Brand        string `json:"brand" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Seats        int32  `json:"seats" binding:"required,min=1"`
	Transmission string `json:"transmission" binding:"required"`
}

type CreateVehicleRequest struct {
	TypeID         uuid.UUID `json:"type_id" binding:"required"`
	LicensePlate   string    `json:"license_plate" binding:"required"`
	Color          string    `json:"color"`
	DailyRateCents int64     `json:"daily_rate_cents" binding:"required,min=1"`
	DepositCents   int64     `json:"deposit_cents" binding:"min=0"`
}

type UpdateVehicleRequest struct {
	LicensePlate   *string `json:"license_plate,omitempty"`
	Color          *string `json:"color,omitempty"`
	DailyRateCents *int64  `json:"daily_rate_cents,omitempty"`
	DepositCents   *int64  `json:"deposit_cents,omitempty"`
}
