package response

import (
	"time"

	"fleet-rental/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID             uuid.UUID `json:"id"`
	VehicleID      uuid.UUID `json:"vehicleId"`
	LicensePlate   string    `json:"licensePlate"`
	CustomerID     uuid.UUID `json:"customerId"`
	CustomerEmail  string    `json:"customerEmail"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	DailyRateCents int64     `json:"dailyRateCents"`
	DepositCents   int64     `json:"depositCents"`
	TotalCents     int64     `json:"totalCents"`
	ChargedCents   int64     `json:"chargedCents"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"paymentStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	LicensePlate  string    `json:"licensePlate"`
	CustomerID    uuid.UUID `json:"customerId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	TotalCents    int64     `json:"totalCents"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItems(rms []*queries.BookingListItem) []*BookingListResponse {
	resp := make([]*BookingListResponse, len(rms))
	for i, rm := range rms {
		resp[i] = FromBookingListItem(rm)
	}
	return resp
}
