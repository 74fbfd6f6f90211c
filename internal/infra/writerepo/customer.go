package writerepo

import (
	"context"

	"fleet-rental/internal/domain/customer"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/infra/db"
	"fleet-rental/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CustomerRepository struct {
	db db.DBTX
}

func NewCustomerRepository(dbtx db.DBTX) *CustomerRepository {
	return &CustomerRepository{db: dbtx}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	const query = `
		INSERT INTO customers (id, email, first_name, last_name, balance_cents, verified)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		c.ID(), c.Email().Value(), c.FirstName(), c.LastName(),
		c.BalanceCents(), c.Verified(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create customer", err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	const query = `
		UPDATE customers SET
			email = $2, first_name = $3, last_name = $4, verified = $5, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		c.ID(), c.Email().Value(), c.FirstName(), c.LastName(), c.Verified(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to update customer", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "customer not found", nil)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapPgErr("failed to delete customer", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CustomerRepository) LockByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	const query = `
		SELECT id, email, first_name, last_name, balance_cents, verified, created_at, updated_at
		FROM customers WHERE id = $1 FOR UPDATE`

	var (
		customerID           uuid.UUID
		emailStr             string
		firstName, lastName  string
		balanceCents         int64
		verified             bool
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&customerID, &emailStr, &firstName, &lastName,
		&balanceCents, &verified, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "customer not found", err)
		}
		return nil, infra.WrapPgErr("failed to lock customer", err)
	}

	email, err := customer.NewEmail(emailStr)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored email is invalid", err)
	}
	return customer.ReconstructCustomer(
		customerID, email, firstName, lastName, balanceCents, verified,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

// SaveBalance persists only the balance; the CHECK constraint on the
// column backs up the domain's non-negative invariant.
func (r *CustomerRepository) SaveBalance(ctx context.Context, c *customer.Customer) error {
	const query = `UPDATE customers SET balance_cents = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, c.ID(), c.BalanceCents())
	if err != nil {
		return infra.WrapPgErr("failed to save customer balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "customer not found", nil)
	}
	return nil
}
