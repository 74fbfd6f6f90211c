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

type AccountReadStore struct {
	db db.DBTX
}

func NewAccountReadStore(dbtx db.DBTX) *AccountReadStore {
	return &AccountReadStore{db: dbtx}
}

func (s *AccountReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AccountView, error) {
	const query = `
		SELECT id, email, role, is_active, last_login
		FROM accounts WHERE id = $1`

	var (
		view      queries.AccountView
		lastLogin pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.Email, &view.Role, &view.IsActive, &lastLogin,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "account not found", err)
		}
		return nil, infra.WrapPgErr("failed to find account", err)
	}
	view.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &view, nil
}

// SnapshotByEmail also returns the password hash so login can verify
// credentials without loading the full entity.
func (s *AccountReadStore) SnapshotByEmail(ctx context.Context, email string) (*shared.AccountSnapshot, string, error) {
	const query = `
		SELECT id, email, role, is_active, last_login, password_hash
		FROM accounts WHERE email = $1`

	var (
		snap      shared.AccountSnapshot
		lastLogin pgtype.Timestamptz
		hash      string
	)
	err := s.db.QueryRow(ctx, query, email).Scan(
		&snap.ID, &snap.Email, &snap.Role, &snap.IsActive, &lastLogin, &hash,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr(infra.KindNotFound, "account not found", err)
		}
		return nil, "", infra.WrapPgErr("failed to read account snapshot", err)
	}
	snap.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &snap, hash, nil
}

func (s *AccountReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.AccountSnapshot, error) {
	const query = `
		SELECT id, email, role, is_active, last_login
		FROM accounts WHERE id = $1`

	var (
		snap      shared.AccountSnapshot
		lastLogin pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Email, &snap.Role, &snap.IsActive, &lastLogin,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "account not found", err)
		}
		return nil, infra.WrapPgErr("failed to read account snapshot", err)
	}
	snap.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &snap, nil
}
