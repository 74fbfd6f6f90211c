package response

import (
	"time"

	"fleet-rental/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type VehicleResponse struct {
	ID             uuid.UUID `json:"id"`
	TypeID         uuid.UUID `json:"typeId"`
	Brand          string    `json:"brand"`
	Model          string    `json:"model"`
	Category       string    `json:"category"`
	LicensePlate   string    `json:"licensePlate"`
	Color          string    `json:"color"`
	DailyRateCents int64     `json:"dailyRateCents"`
	DepositCents   int64     `json:"depositCents"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type VehicleTypeResponse struct {
	ID           uuid.UUID `json:"id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Category     string    `json:"category"`
	Seats        int32     `json:"seats"`
	Transmission string    `json:"transmission"`
}

func FromVehicleView(rm *queries.VehicleView) *VehicleResponse {
	var resp VehicleResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromVehicleViews(rms []*queries.VehicleView) []*VehicleResponse {
	resp := make([]*VehicleResponse, len(rms))
	for i, rm := range rms {
		resp[i] = FromVehicleView(rm)
	}
	return resp
}

func FromVehicleTypeViews(rms []*queries.VehicleTypeView) []*VehicleTypeResponse {
	resp := make([]*VehicleTypeResponse, len(rms))
	for i, rm := range rms {
		var r VehicleTypeResponse
		_ = copier.Copy(&r, rm)
		resp[i] = &r
	}
	return resp
}
