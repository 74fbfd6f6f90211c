package request

import (
	"time"

	"github.com/google/uuid"
)

// Dates arrive as RFC3339 timestamps and are truncated to day
// granularity by the domain layer.
type CreateBookingRequest struct {
	VehicleID  uuid.UUID `json:"vehicle_id" binding:"required"`
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
}

// UpdateBookingRequest is a partial update; absent fields keep their
// current value. Date changes are only accepted while the booking is
// still pending.
type UpdateBookingRequest struct {
	VehicleID  *uuid.UUID `json:"vehicle_id,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}
