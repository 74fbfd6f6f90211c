package writerepo

import (
	"context"
	"time"

	"fleet-rental/internal/domain/account"
	"fleet-rental/internal/infra"
	"fleet-rental/internal/infra/db"

	"github.com/google/uuid"
)

type AccountRepository struct {
	db db.DBTX
}

func NewAccountRepository(dbtx db.DBTX) *AccountRepository {
	return &AccountRepository{db: dbtx}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	const query = `
		INSERT INTO accounts (id, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		a.ID(), a.Email().Value(), a.PasswordHash(), a.Role().String(), a.IsActive(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create account", err)
	}
	return nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, accountID uuid.UUID, at time.Time) error {
	const query = `UPDATE accounts SET last_login = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, accountID, at)
	if err != nil {
		return infra.WrapPgErr("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "account not found", nil)
	}
	return nil
}
