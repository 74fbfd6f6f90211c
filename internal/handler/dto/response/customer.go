package response

import (
	"time"

	"fleet-rental/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CustomerResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	BalanceCents int64     `json:"balanceCents"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func FromCustomerView(rm *queries.CustomerView) *CustomerResponse {
	var resp CustomerResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromCustomerViews(rms []*queries.CustomerView) []*CustomerResponse {
	resp := make([]*CustomerResponse, len(rms))
	for i, rm := range rms {
		resp[i] = FromCustomerView(rm)
	}
	return resp
}
