//go:build unit || e2e

package builder

import (
	"time"

	"fleet-rental/internal/domain/customer"
	"fleet-rental/internal/usecase/queries"

	"github.com/google/uuid"
)

type CustomerBuilder struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	BalanceCents int64
	Verified     bool
}

func NewCustomerBuilder() *CustomerBuilder {
	return &CustomerBuilder{
		ID:           uuid.New(),
		Email:        "renter@example.com",
		FirstName:    "Mara",
		LastName:     "Lindqvist",
		BalanceCents: 100000,
		Verified:     true,
	}
}

func (b *CustomerBuilder) With(mutate func(*CustomerBuilder)) *CustomerBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *CustomerBuilder) BuildDomain() (*customer.Customer, error) {
	email, err := customer.NewEmail(b.Email)
	if err != nil {
		return nil, err
	}
	c, err := customer.NewCustomer(email, b.FirstName, b.LastName, b.BalanceCents)
	if err != nil {
		return nil, err
	}
	return customer.ReconstructCustomer(
		b.ID, email,
		c.FirstName(), c.LastName(),
		c.BalanceCents(), b.Verified,
		time.Now(), time.Now(),
	), nil
}

func (b *CustomerBuilder) BuildReadModel() *queries.CustomerView {
	now := time.Now()
	return &queries.CustomerView{
		ID:           b.ID,
		Email:        b.Email,
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		BalanceCents: b.BalanceCents,
		Verified:     b.Verified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Fluent builder methods
func (b *CustomerBuilder) WithID(id uuid.UUID) *CustomerBuilder {
	b.ID = id
	return b
}

func (b *CustomerBuilder) WithEmail(email string) *CustomerBuilder {
	b.Email = email
	return b
}

func (b *CustomerBuilder) WithName(first, last string) *CustomerBuilder {
	b.FirstName = first
	b.LastName = last
	return b
}

func (b *CustomerBuilder) WithBalance(cents int64) *CustomerBuilder {
	b.BalanceCents = cents
	return b
}

func (b *CustomerBuilder) AsUnverified() *CustomerBuilder {
	b.Verified = false
	return b
}
