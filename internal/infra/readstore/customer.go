package readstore

import (
	"context"

	"fleet-rental/internal/infra"
	"fleet-rental/internal/infra/db"
	"fleet-rental/internal/pkg/pgconv"
	"fleet-rental/internal/usecase/queries"
	"fleet-rental/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CustomerReadStore struct {
	db db.DBTX
}

func NewCustomerReadStore(dbtx db.DBTX) *CustomerReadStore {
	return &CustomerReadStore{db: dbtx}
}

const customerViewQuery = `
	SELECT id, email, first_name, last_name, balance_cents, verified, created_at, updated_at
	FROM customers`

func (s *CustomerReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CustomerView, error) {
	row := s.db.QueryRow(ctx, customerViewQuery+` WHERE id = $1`, id)

	view, err := scanCustomerView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "customer not found", err)
		}
		return nil, infra.WrapPgErr("failed to find customer", err)
	}
	return view, nil
}

func (s *CustomerReadStore) FindAll(ctx context.Context) ([]*queries.CustomerView, error) {
	rows, err := s.db.Query(ctx, customerViewQuery+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapPgErr("failed to list customers", err)
	}
	defer rows.Close()

	views := []*queries.CustomerView{}
	for rows.Next() {
		view, err := scanCustomerView(rows)
		if err != nil {
			return nil, infra.WrapPgErr("failed to scan customer row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to read customer rows", err)
	}
	return views, nil
}

func (s *CustomerReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	const query = `
		SELECT id, email, first_name, last_name, balance_cents, verified
		FROM customers WHERE id = $1`

	var snap shared.CustomerSnapshot
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Email, &snap.FirstName, &snap.LastName,
		&snap.BalanceCents, &snap.Verified,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "customer not found", err)
		}
		return nil, infra.WrapPgErr("failed to read customer snapshot", err)
	}
	return &snap, nil
}

func scanCustomerView(row rowScanner) (*queries.CustomerView, error) {
	var (
		view                 queries.CustomerView
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.Email, &view.FirstName, &view.LastName,
		&view.BalanceCents, &view.Verified, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
