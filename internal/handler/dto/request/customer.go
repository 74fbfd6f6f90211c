package request

type CreateCustomerRequest struct {
	Email        string `json:"email" binding:"required,email"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	BalanceCents int64  `json:"balance_cents" binding:"min=0"`
}

type UpdateCustomerRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Verified  *bool   `json:"verified,omitempty"`
}
