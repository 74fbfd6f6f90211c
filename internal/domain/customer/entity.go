package customer

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrEmptyName       = errors.New("customer name is required")
	ErrNegativeBalance = errors.New("balance cannot be negative")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

// Customer carries a single scalar balance in cents. The balance is only
// ever mutated through the ledger, paired with a booking transition.
type Customer struct {
	id           uuid.UUID
	email        Email
	firstName    string
	lastName     string
	balanceCents int64
	verified     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewCustomer(email Email, firstName, lastName string, balanceCents int64) (*Customer, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, ErrEmptyName
	}
	if balanceCents < 0 {
		return nil, ErrNegativeBalance
	}
	return &Customer{
		id:           uuid.New(),
		email:        email,
		firstName:    firstName,
		lastName:     lastName,
		balanceCents: balanceCents,
	}, nil
}

func ReconstructCustomer(
	id uuid.UUID,
	email Email,
	firstName, lastName string,
	balanceCents int64,
	verified bool,
	createdAt, updatedAt time.Time,
) *Customer {
	return &Customer{
		id:           id,
		email:        email,
		firstName:    firstName,
		lastName:     lastName,
		balanceCents: balanceCents,
		verified:     verified,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (c *Customer) ID() uuid.UUID        { return c.id }
func (c *Customer) Email() Email         { return c.email }
func (c *Customer) FirstName() string    { return c.firstName }
func (c *Customer) LastName() string     { return c.lastName }
func (c *Customer) FullName() string     { return c.firstName + " " + c.lastName }
func (c *Customer) BalanceCents() int64  { return c.balanceCents }
func (c *Customer) Verified() bool       { return c.verified }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// UpdateProfile changes contact details. The balance is out of scope
// here; only the ledger moves money.
func (c *Customer) UpdateProfile(email Email, firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return ErrEmptyName
	}
	c.email = email
	c.firstName = firstName
	c.lastName = lastName
	return nil
}

func (c *Customer) MarkVerified() {
	c.verified = true
}

// ApplyTransfer adjusts the balance by deltaCents (negative to charge,
// positive to refund). Only the ledger calls this; the workflow never
// touches balances directly.
func (c *Customer) ApplyTransfer(deltaCents int64) error {
	next := c.balanceCents + deltaCents
	if next < 0 {
		return ErrNegativeBalance
	}
	c.balanceCents = next
	return nil
}
