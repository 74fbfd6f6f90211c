package response

import (
	"fleet-rental/internal/usecase/queries"
)

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AccountResponse = queries.AccountView

type RegisterAccountResponse struct {
	ID string `json:"id"`
}
