//go:build unit

package commands_test

import (
	"context"
	"testing"

	"fleet-rental/internal/domain/account"
	reqdto "fleet-rental/internal/handler/dto/request"
	"fleet-rental/internal/pkg/jwt"
	"fleet-rental/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAccount(t *testing.T, e *env, email string) uuid.UUID {
	t.Helper()
	id, err := e.auth.Register(context.Background(), reqdto.RegisterAccountRequest{
		Email:    email,
		Password: "correct horse battery",
		Role:     account.RoleStaff.String(),
	})
	require.NoError(t, err)
	return id
}

// deactivateAccount swaps the stored account for an inactive copy.
func deactivateAccount(e *env, id uuid.UUID) {
	a := e.store.accounts[id]
	e.store.accounts[id] = account.ReconstructAccount(
		a.ID(), a.Email(), a.PasswordHash(), a.Role(),
		a.LastLogin(), false, a.CreatedAt(), a.UpdatedAt(),
	)
}

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the account with a hashed password", func(t *testing.T) {
		e := newEnv()
		id := registerAccount(t, e, "ops@example.com")

		stored, ok := e.store.accounts[id]
		require.True(t, ok)
		assert.Equal(t, "ops@example.com", stored.Email().Value())
		assert.Equal(t, account.RoleStaff, stored.Role())
		assert.True(t, stored.IsActive())
		assert.NotEqual(t, "correct horse battery", stored.PasswordHash())
	})

	t.Run("duplicate email", func(t *testing.T) {
		e := newEnv()
		registerAccount(t, e, "ops@example.com")

		_, err := e.auth.Register(ctx, reqdto.RegisterAccountRequest{
			Email:    "ops@example.com",
			Password: "another password",
			Role:     account.RoleAdmin.String(),
		})
		assert.ErrorIs(t, err, commands.ErrDuplicateEmail)
	})

	t.Run("unknown role", func(t *testing.T) {
		e := newEnv()
		_, err := e.auth.Register(ctx, reqdto.RegisterAccountRequest{
			Email:    "ops@example.com",
			Password: "correct horse battery",
			Role:     "superuser",
		})
		assert.Error(t, err)
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token pair and records the login", func(t *testing.T) {
		e := newEnv()
		id := registerAccount(t, e, "ops@example.com")

		pair, err := e.auth.Login(ctx, "ops@example.com", "correct horse battery")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := e.jwt.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, id, claims.AccountID)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)

		assert.Equal(t, e.clock.Now(), e.store.lastLogin[id])
	})

	t.Run("wrong password", func(t *testing.T) {
		e := newEnv()
		registerAccount(t, e, "ops@example.com")

		_, err := e.auth.Login(ctx, "ops@example.com", "wrong")
		assert.ErrorIs(t, err, commands.ErrAuthenticationFailed)
	})

	t.Run("unknown email", func(t *testing.T) {
		e := newEnv()
		_, err := e.auth.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, commands.ErrAuthenticationFailed)
	})

	t.Run("disabled account", func(t *testing.T) {
		e := newEnv()
		id := registerAccount(t, e, "ops@example.com")
		deactivateAccount(e, id)

		_, err := e.auth.Login(ctx, "ops@example.com", "correct horse battery")
		assert.ErrorIs(t, err, commands.ErrAccountDisabled)
	})
}

func TestAuthRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a fresh token pair", func(t *testing.T) {
		e := newEnv()
		id := registerAccount(t, e, "ops@example.com")
		refresh, err := e.jwt.GenerateRefreshToken(id, account.RoleStaff)
		require.NoError(t, err)

		pair, err := e.auth.Refresh(ctx, refresh)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := e.jwt.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, id, claims.AccountID)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
	})

	t.Run("an access token is not accepted as refresh", func(t *testing.T) {
		e := newEnv()
		id := registerAccount(t, e, "ops@example.com")
		access, err := e.jwt.GenerateAccessToken(id, account.RoleStaff)
		require.NoError(t, err)

		_, err = e.auth.Refresh(ctx, access)
		assert.ErrorIs(t, err, commands.ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		e := newEnv()
		_, err := e.auth.Refresh(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, commands.ErrInvalidRefreshToken)
	})

	t.Run("token for a deleted account", func(t *testing.T) {
		e := newEnv()
		refresh, err := e.jwt.GenerateRefreshToken(uuid.New(), account.RoleStaff)
		require.NoError(t, err)

		_, err = e.auth.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, commands.ErrAccountNotFound)
	})

	t.Run("disabled account", func(t *testing.T) {
		e := newEnv()
		id := registerAccount(t, e, "ops@example.com")
		deactivateAccount(e, id)
		refresh, err := e.jwt.GenerateRefreshToken(id, account.RoleStaff)
		require.NoError(t, err)

		_, err = e.auth.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, commands.ErrAccountDisabled)
	})
}
